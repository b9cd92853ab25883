package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/samegame/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a stage picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to pick a stage.
After leaving a stage, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select stage
  Tab          - Scoreboard
  Q            - Quit

Examples:
  samegame menu
  samegame menu --stages ./stages
  samegame menu --db ./scores.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	list, err := stageLoader().LoadAll()
	if err != nil {
		return err
	}
	random, err := randomStage(0)
	if err != nil {
		return err
	}

	// Open score storage
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(list, random, store)
		if err != nil {
			return err
		}
		if menuResult.Width > 0 {
			width, height = menuResult.Width, menuResult.Height
		}

		if menuResult.Quit {
			return nil
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, tui.ScoreboardEntries(list), width, height)
			if sbErr != nil {
				return sbErr
			}
			if goBack {
				continue // Back to menu
			}
			return nil // User quit from scoreboard
		}

		stage := menuResult.Stage
		seed := boardSeed(stage, func() int64 { return time.Now().UnixNano() })
		logger.Debug("starting stage", "stage", stage.ID, "seed", seed)

		goBack, err := tui.Run(stage, tui.GameOptions{
			Store:             store,
			Seed:              seed,
			BoosterMultiplier: cfg.Scoring.BoosterMultiplier,
			Width:             width,
			Height:            height,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running stage: %v\n", err)
		}
		if !goBack {
			return nil
		}
	}
}
