package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/samegame/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [stage]",
	Short: "Show best results",
	Long: `Display the top results for a stage, or a summary of every played stage
and the latest runs when no stage is given.

Examples:
  samegame scores
  samegame scores 01-intro
  samegame scores random --limit 20
  samegame scores 01-intro --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of results to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete every recorded result of the stage")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		if flagScoresClear {
			return fmt.Errorf("--clear needs a stage")
		}
		if err := printAllStats(store); err != nil {
			return err
		}
		return printRecent(store)
	}
	if flagScoresClear {
		n, err := store.ClearResults(args[0])
		if err != nil {
			return err
		}
		logger.Info("results cleared", "stage", args[0], "removed", n)
		fmt.Printf("Removed %d results for %s\n", n, args[0])
		return nil
	}
	return printStageScores(store, args[0])
}

// printStageScores prints the best results of one stage.
func printStageScores(store *storage.Store, stageID string) error {
	results, err := store.TopScores(stageID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving results: %w", err)
	}

	fmt.Printf("High Scores - %s\n", stageID)
	fmt.Println()

	if len(results) == 0 {
		fmt.Println("No results recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'samegame play %s' to set the first high score!\n", stageID)
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-7s  %s\n", "Rank", "Score", "Taps", "Items", "Left", "Date")
	fmt.Printf("  %-4s  %-8s  %-5s  %-5s  %-7s  %s\n", "----", "-----", "----", "-----", "----", "----")

	// Print results
	for i, r := range results {
		left := fmt.Sprintf("%d", r.Remaining)
		if r.Cleared {
			left = "cleared"
		}
		fmt.Printf("  %-4d  %-8d  %-5d  %-5d  %-7s  %s\n",
			i+1, r.Score, r.Taps, r.ItemsUsed, left, r.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show aggregate
	fmt.Println()
	stats, err := store.Stats(stageID)
	if err == nil {
		fmt.Printf("Best: %d  Runs: %d  Clears: %d  Average: %.1f\n",
			stats.HighScore, stats.Runs, stats.Clears, stats.AvgScore)
	}
	return nil
}

// printAllStats prints one line per played stage.
func printAllStats(store *storage.Store) error {
	all, err := store.AllStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}

	if len(all) == 0 {
		fmt.Println("No results recorded yet.")
		return nil
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-16s  %-8s  %-5s  %-6s  %s\n", "Stage", "Best", "Runs", "Clears", "Last played")
	fmt.Printf("  %-16s  %-8s  %-5s  %-6s  %s\n", "-----", "----", "----", "------", "-----------")
	for _, id := range ids {
		st := all[id]
		fmt.Printf("  %-16s  %-8d  %-5d  %-6d  %s\n",
			id, st.HighScore, st.Runs, st.Clears, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

// printRecent lists the latest runs across every stage.
func printRecent(store *storage.Store) error {
	recent, err := store.RecentResults(flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving recent results: %w", err)
	}
	if len(recent) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent runs")
	for _, r := range recent {
		fmt.Printf("  %-16s  %-8d  %s\n", r.StageID, r.Score, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}
