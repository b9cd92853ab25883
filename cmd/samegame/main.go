// samegame is a tile-matching puzzle for the terminal: tap groups of two or
// more same-colored blocks to remove them, score n² points, and work around
// ice, counters, rocks and anchors.
//
// Usage:
//
//	samegame list                - List available stages
//	samegame play <stage>        - Play a stage (or "random")
//	samegame menu                - Pick stages interactively
//	samegame serve               - Start SSH server for remote play
//	samegame scores [stage]      - Show best results
//	samegame simulate <stage>    - Let a strategy play a stage headlessly
//
// Global flags:
//
//	--seed <value>      - Set RNG seed for reproducible boards
//	--db <path>         - Set database path (default: ~/.samegame/scores.db)
//	--stages <dir>      - Load stages from a directory instead of the built-ins
//	--config <path>     - Path to a samegame.yaml
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/samegame/internal/config"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagStagesDir  string
	flagConfig     string
	flagLogLevel   string
	flagDifficulty string

	// Resolved in PersistentPreRunE
	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "samegame",
	Short: "SameGame - clear the board one group at a time",
	Long: `SameGame is a terminal tile-matching puzzle.

Tap a group of two or more orthogonally connected blocks of the same color
to remove it. A group of n blocks scores n*n points. Blocks fall down, empty
columns close up, and obstacles (ice, counters, rocks, anchors) get in the way.

Available commands:
  list      - Show all available stages
  play      - Play a stage directly
  menu      - Interactive stage picker
  serve     - Start SSH server for remote play
  scores    - View best results
  simulate  - Run a strategy on a stage without a terminal

Examples:
  samegame list
  samegame play 01-intro
  samegame play random --difficulty hard
  samegame serve --ssh :2222
  samegame simulate 03-counters --strategy largest`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = stage seed, or time for random boards)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to scores database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagStagesDir, "stages", "", "Directory of stage files (default: built-in stages)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom samegame.yaml")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Palette preset for random boards: easy, normal, hard, fixed")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simulateCmd)
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagDifficulty != "" {
		preset, err := config.ParsePreset(flagDifficulty)
		if err != nil {
			return err
		}
		config.ApplyPreset(&loaded, preset)
	}
	if flagDBPath != "" {
		loaded.Storage.Path = flagDBPath
	}
	if flagStagesDir != "" {
		loaded.Stages.Dir = flagStagesDir
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}
	cfg = loaded

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "samegame",
	})
	if cfg.Log.Level != "" {
		level, err := log.ParseLevel(strings.ToLower(cfg.Log.Level))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		logger.SetLevel(level)
	}
	return nil
}

// stageLoader returns the configured stage source.
func stageLoader() *stages.Loader {
	if cfg.Stages.Dir != "" {
		return stages.NewDirLoader(cfg.Stages.Dir)
	}
	return stages.Builtin()
}

// randomStage returns the generated stage described by the config.
func randomStage(seed int64) (stages.Stage, error) {
	colors, err := cfg.Colors()
	if err != nil {
		return stages.Stage{}, err
	}
	return stages.Random(cfg.Board.Width, cfg.Board.Height, colors, seed), nil
}

// resolveStage loads a stage by ID; "random" builds a generated one.
func resolveStage(id string) (stages.Stage, error) {
	if id == stages.RandomStageID {
		return randomStage(0)
	}
	stage, err := stageLoader().LoadByID(id)
	if err != nil {
		return stages.Stage{}, fmt.Errorf("%w (run 'samegame list' to see available stages)", err)
	}
	return stage, nil
}

// boardSeed picks the seed for a stage: the flag wins, then the stage's own
// seed, then the clock for generated boards.
func boardSeed(stage stages.Stage, now func() int64) int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	if stage.ID == stages.RandomStageID {
		return now()
	}
	return stage.Seed
}

// openStore opens the results database, logging instead of failing.
func openStore() *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open scores database", "path", cfg.Storage.Path, "error", err)
		return nil
	}
	return store
}
