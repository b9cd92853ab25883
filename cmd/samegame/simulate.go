package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/samegame/internal/games/samegame"
	"github.com/vovakirdan/samegame/internal/storage"
)

var (
	flagStrategy string
	flagSave     bool
	flagTimeout  time.Duration
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <stage>",
	Short: "Play a stage with a built-in strategy",
	Long: `Run a stage without a terminal UI. The strategy taps groups until no
removable group is left, then the summary is printed.

Strategies:
  largest - Always tap the group that removes the most blocks
  first   - Tap the first removable group in row-major order

Examples:
  samegame simulate 01-intro
  samegame simulate random --seed 7 --strategy first
  samegame simulate 05-gauntlet --save`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagStrategy, "strategy", "", "Autoplay strategy (default from config)")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Save the result to the scores database")
	simulateCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Give up after this long")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	stage, err := resolveStage(args[0])
	if err != nil {
		return err
	}

	name := cfg.Stages.Strategy
	if flagStrategy != "" {
		name = flagStrategy
	}
	strategy, err := samegame.ParseStrategy(name)
	if err != nil {
		return err
	}

	seed := boardSeed(stage, func() int64 { return time.Now().UnixNano() })
	board, err := stage.BoardWithSeed(seed)
	if err != nil {
		return err
	}

	session := samegame.NewSession(board,
		samegame.WithLogger(logger),
		samegame.WithSeed(seed),
		samegame.WithStageID(stage.ID),
		samegame.WithTarget(stage.Target),
		samegame.WithInventory(stage.Items),
		samegame.WithBoosterMultiplier(cfg.Scoring.BoosterMultiplier),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, flagTimeout)
	defer cancel()

	sum, err := simulate(ctx, os.Stdout, session, strategy, seed)
	if err != nil {
		return fmt.Errorf("simulating %s: %w", stage.ID, err)
	}

	if flagSave {
		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()

		id, err := store.SaveResult(storage.StageResult{
			StageID:   sum.StageID,
			Score:     sum.Score,
			Taps:      sum.Taps,
			ItemsUsed: sum.ItemsUsed,
			Cleared:   sum.Cleared,
			Remaining: sum.Remaining,
		})
		if err != nil {
			return err
		}
		logger.Info("result saved", "stage", sum.StageID, "id", id)
	}
	return nil
}

// simulate autoplays session and prints its summary and final board. The
// summary is printed even when the run is cut short, so a timeout or an
// interrupt still shows how far it got.
func simulate(ctx context.Context, w io.Writer, session *samegame.Session, strategy samegame.Strategy, seed int64) (samegame.Summary, error) {
	sum, err := session.AutoPlay(ctx, strategy)
	if err != nil {
		fmt.Fprintf(w, "Stopped:   %v\n", err)
	}

	fmt.Fprintf(w, "Stage:     %s (seed %d)\n", sum.StageID, seed)
	fmt.Fprintf(w, "Score:     %d\n", sum.Score)
	if sum.Target > 0 {
		fmt.Fprintf(w, "Target:    %d\n", sum.Target)
	}
	fmt.Fprintf(w, "Taps:      %d\n", sum.Taps)
	fmt.Fprintf(w, "Remaining: %d\n", sum.Remaining)
	fmt.Fprintf(w, "Cleared:   %t\n", sum.Cleared)
	fmt.Fprintf(w, "Passed:    %t\n", sum.Passed)
	fmt.Fprintln(w)
	fmt.Fprintln(w, session.Board().String())
	return sum, err
}
