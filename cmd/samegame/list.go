package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available stages",
	Long: `Shows every stage found in the stage directory (or the built-in stages).
Files that fail to parse are skipped.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(_ *cobra.Command, _ []string) error {
	list, err := stageLoader().LoadAll()
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No stages available.")
		return nil
	}

	fmt.Println("Available stages:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, s := range list {
		if len(s.ID) > maxIDLen {
			maxIDLen = len(s.ID)
		}
	}

	// Print header
	fmt.Printf("  %-*s  %-6s  %-6s  %-6s  %s\n", maxIDLen, "ID", "Size", "Colors", "Target", "Name")
	fmt.Printf("  %-*s  %-6s  %-6s  %-6s  %s\n", maxIDLen, "--", "----", "------", "------", "----")

	// Print stages
	for _, s := range list {
		target := "-"
		if s.Target > 0 {
			target = fmt.Sprintf("%d", s.Target)
		}
		size := fmt.Sprintf("%dx%d", s.Width, s.Height)
		fmt.Printf("  %-*s  %-6s  %-6d  %-6s  %s\n", maxIDLen, s.ID, size, len(s.Colors), target, s.Name)
	}

	fmt.Println()
	fmt.Printf("Random boards: %dx%d with %d colors (samegame play random)\n",
		cfg.Board.Width, cfg.Board.Height, len(cfg.Palette))
	fmt.Println("Run 'samegame play <id>' to play a stage.")
	return nil
}
