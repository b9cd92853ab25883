package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadEmbeddedDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("embedded default differs from hardcoded default:\n%+v\n%+v", cfg, DefaultConfig())
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	writeFile(t, work, "configs/samegame.yaml", "board: {width: 6, height: 6}\n")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Width != 6 {
		t.Errorf("expected local config width 6, got %d", cfg.Board.Width)
	}

	writeFile(t, home, ".samegame/configs/samegame.yaml", "board: {width: 7, height: 7}\n")
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Width != 7 {
		t.Errorf("expected user config to win, got width %d", cfg.Board.Width)
	}

	custom := writeFile(t, work, "custom.yaml", "board: {width: 9, height: 5}\n")
	cfg, err = Load(custom)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Board.Width != 9 || cfg.Board.Height != 5 {
		t.Errorf("expected custom config 9x5, got %dx%d", cfg.Board.Width, cfg.Board.Height)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "scoring:\n  booster_multiplier: 2\nssh:\n  idle_timeout: 5m\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scoring.BoosterMultiplier != 2 {
		t.Errorf("expected multiplier 2, got %v", cfg.Scoring.BoosterMultiplier)
	}
	if cfg.SSH.IdleTimeout != 5*time.Minute {
		t.Errorf("expected 5m idle timeout, got %v", cfg.SSH.IdleTimeout)
	}
	if cfg.Board.Width != 10 || len(cfg.Palette) != 4 || cfg.SSH.Address != ":23234" {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadAppliesPreset(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yaml", "difficulty: hard\npalette: [orange]\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"orange", "red", "green", "blue", "yellow"}
	if !reflect.DeepEqual(cfg.Palette, want) {
		t.Errorf("expected palette %v, got %v", want, cfg.Palette)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad yaml", "board: [", "failed to parse"},
		{"bad size", "board: {width: 0, height: 3}\n", "board size"},
		{"empty palette", "palette: []\n", "palette is empty"},
		{"bad color", "palette: [teal]\n", "unknown palette color"},
		{"low multiplier", "scoring: {booster_multiplier: 0.5}\n", "booster_multiplier"},
		{"bad difficulty", "difficulty: nightmare\n", "unknown difficulty"},
		{"bad log level", "log: {level: loud}\n", "unknown log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml", tt.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for a missing custom config")
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset DifficultyPreset
		want   int
	}{
		{DifficultyEasy, 3},
		{DifficultyNormal, 4},
		{DifficultyHard, 5},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultConfig()
			ApplyPreset(&cfg, tt.preset)
			if len(cfg.Palette) != tt.want {
				t.Errorf("expected %d colors, got %v", tt.want, cfg.Palette)
			}
			if cfg.Palette[0] != "red" {
				t.Errorf("configured colors should come first, got %v", cfg.Palette)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Palette = []string{"purple"}
	ApplyPreset(&cfg, DifficultyFixed)
	if !reflect.DeepEqual(cfg.Palette, []string{"purple"}) {
		t.Errorf("fixed preset changed the palette: %v", cfg.Palette)
	}
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyEasy) {
		t.Error("IsFixedPreset mismatch")
	}
}

func TestColors(t *testing.T) {
	cfg := DefaultConfig()
	colors, err := cfg.Colors()
	if err != nil {
		t.Fatalf("Colors failed: %v", err)
	}
	if len(colors) != 4 || colors[3].String() != "yellow" {
		t.Errorf("unexpected colors %v", colors)
	}
}
