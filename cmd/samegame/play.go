package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/samegame/internal/platform/tui"
)

var playCmd = &cobra.Command{
	Use:   "play <stage>",
	Short: "Play a stage",
	Long: `Start playing the specified stage. Use "random" for a generated board
sized and colored by the configuration.

Controls:
  Arrows/hjkl  - Move the cursor
  Enter/Space  - Tap the group under the cursor
  I/Tab        - Open the item list
  Esc/B        - Cancel an item, or leave the stage
  R            - Restart the stage
  ?            - Show all keys
  Q/Ctrl+C     - Quit

Difficulty options (random boards only):
  easy   - 3 colors
  normal - 4 colors
  hard   - 5 colors
  fixed  - Keep the configured palette

Examples:
  samegame play 01-intro
  samegame play random --difficulty easy
  samegame play random --seed 42
  samegame play my-stage --stages ./stages`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	stage, err := resolveStage(args[0])
	if err != nil {
		return err
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Open score storage; the game still works without it
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	seed := boardSeed(stage, func() int64 { return time.Now().UnixNano() })
	logger.Debug("starting stage", "stage", stage.ID, "seed", seed)

	_, err = tui.Run(stage, tui.GameOptions{
		Store:             store,
		Seed:              seed,
		BoosterMultiplier: cfg.Scoring.BoosterMultiplier,
		Width:             width,
		Height:            height,
	})
	if err != nil {
		return fmt.Errorf("running stage: %w", err)
	}
	return nil
}
