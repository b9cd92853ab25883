package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a stage picker menu.
Results are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.samegame/host_key

Examples:
  samegame serve                           # Listen on the configured address
  samegame serve --ssh :2222               # Listen on port 2222
  samegame serve --host-key ./my_host_key  # Use specific host key
  samegame serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout before disconnecting (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	list, err := stageLoader().LoadAll()
	if err != nil {
		return err
	}
	colors, err := cfg.Colors()
	if err != nil {
		return err
	}

	srvCfg := serverConfig(list, colors)

	server, err := tui.NewSSHServer(srvCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting samegame SSH server on %s\n", server.Addr())
	fmt.Println("Press Ctrl+C to stop")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.ListenAndServe(ctx)
}

// serverConfig layers the loaded config and then the serve flags over the
// server defaults. Empty values keep the layer below.
func serverConfig(list []stages.Stage, colors []core.Color) tui.SSHServerConfig {
	srvCfg := tui.DefaultSSHServerConfig()
	srvCfg.Stages = list
	srvCfg.Logger = logger
	srvCfg.BoosterMultiplier = cfg.Scoring.BoosterMultiplier

	overlay := func(dst *string, vals ...string) {
		for _, v := range vals {
			if v != "" {
				*dst = v
			}
		}
	}
	overlay(&srvCfg.Address, cfg.SSH.Address, flagSSHAddr)
	overlay(&srvCfg.HostKeyPath, cfg.SSH.HostKey, flagHostKey)
	overlay(&srvCfg.DBPath, cfg.Storage.Path)

	for _, d := range []time.Duration{cfg.SSH.IdleTimeout, flagIdleTimeout} {
		if d > 0 {
			srvCfg.IdleTimeout = d
		}
	}
	if cfg.Board.Width > 0 && cfg.Board.Height > 0 {
		srvCfg.RandomWidth, srvCfg.RandomHeight = cfg.Board.Width, cfg.Board.Height
	}
	if len(colors) > 0 {
		srvCfg.RandomColors = colors
	}
	return srvCfg
}
