package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/samegame/internal/config"
	"github.com/vovakirdan/samegame/internal/games/samegame"
	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages"
	"github.com/vovakirdan/samegame/internal/platform/tui"
)

func TestBoardSeed(t *testing.T) {
	now := func() int64 { return 99 }
	stage, err := stages.Builtin().LoadByID("01-intro")
	if err != nil {
		t.Fatalf("LoadByID failed: %v", err)
	}
	random := stages.Random(4, 4, nil, 0)

	tests := []struct {
		name  string
		flag  int64
		stage stages.Stage
		want  int64
	}{
		{"stage seed", 0, stage, stage.Seed},
		{"flag wins", 7, stage, 7},
		{"random uses clock", 0, random, 99},
		{"random with flag", 7, random, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagSeed = tt.flag
			defer func() { flagSeed = 0 }()
			if got := boardSeed(tt.stage, now); got != tt.want {
				t.Errorf("boardSeed = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveStage(t *testing.T) {
	cfg = config.DefaultConfig()
	defer func() { cfg = config.Config{} }()

	s, err := resolveStage("02-thaw")
	if err != nil {
		t.Fatalf("resolveStage failed: %v", err)
	}
	if s.ID != "02-thaw" {
		t.Errorf("ID = %q, want 02-thaw", s.ID)
	}

	r, err := resolveStage(stages.RandomStageID)
	if err != nil {
		t.Fatalf("resolveStage(random) failed: %v", err)
	}
	if r.Width != cfg.Board.Width || r.Height != cfg.Board.Height || len(r.Colors) != len(cfg.Palette) {
		t.Errorf("random stage does not follow config: %+v", r.Stage)
	}

	if _, err := resolveStage("no-such-stage"); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestSimulatePrintsSummaryWhenStopped(t *testing.T) {
	session := samegame.NewSession(core.MustParseBoard("R R", "B B"), samegame.WithStageID("cut"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	sum, err := simulate(ctx, &out, session, samegame.LargestGroup, 5)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if sum.StageID != "cut" || sum.Taps != 0 {
		t.Errorf("unexpected partial summary: %+v", sum)
	}
	for _, want := range []string{"Stopped:", "Stage:     cut (seed 5)", "Score:     0", "Remaining: 4"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestSimulateRunsToTheEnd(t *testing.T) {
	session := samegame.NewSession(core.MustParseBoard("R R", "B B"), samegame.WithStageID("full"))

	var out bytes.Buffer
	sum, err := simulate(context.Background(), &out, session, samegame.LargestGroup, 1)
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}
	if !sum.Cleared || sum.Score != 8 {
		t.Errorf("unexpected summary: %+v", sum)
	}
	if strings.Contains(out.String(), "Stopped:") {
		t.Errorf("complete run reported as stopped:\n%s", out.String())
	}
}

func TestServerConfigLayers(t *testing.T) {
	defaults := tui.DefaultSSHServerConfig()

	cfg = config.Config{}
	defer func() { cfg = config.Config{} }()

	got := serverConfig(nil, nil)
	if got.Address != defaults.Address || got.DBPath != defaults.DBPath || got.IdleTimeout != defaults.IdleTimeout {
		t.Errorf("empty config should keep server defaults, got %+v", got)
	}
	if got.RandomWidth != defaults.RandomWidth || len(got.RandomColors) != len(defaults.RandomColors) {
		t.Errorf("empty config should keep the default random board, got %+v", got)
	}

	cfg.SSH.Address = ":2200"
	cfg.SSH.IdleTimeout = time.Minute
	cfg.Storage.Path = "/tmp/s.db"
	cfg.Board.Width, cfg.Board.Height = 6, 5
	got = serverConfig(nil, []core.Color{core.ColorRed, core.ColorBlue})
	if got.Address != ":2200" || got.IdleTimeout != time.Minute || got.DBPath != "/tmp/s.db" {
		t.Errorf("config values not applied: %+v", got)
	}
	if got.RandomWidth != 6 || got.RandomHeight != 5 || len(got.RandomColors) != 2 {
		t.Errorf("random board not taken from config: %+v", got)
	}

	flagSSHAddr, flagIdleTimeout = ":2300", 2*time.Minute
	defer func() { flagSSHAddr, flagIdleTimeout = "", 0 }()
	got = serverConfig(nil, nil)
	if got.Address != ":2300" || got.IdleTimeout != 2*time.Minute {
		t.Errorf("flags should win over config: %+v", got)
	}
}
