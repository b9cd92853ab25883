// Package config provides YAML-based configuration loading and
// difficulty presets for samegame.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
)

// Config contains all samegame settings.
type Config struct {
	Board      BoardConfig      `yaml:"board"`
	Palette    []string         `yaml:"palette"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Stages     StagesConfig     `yaml:"stages"`
	Log        LogConfig        `yaml:"log"`
	Storage    StorageConfig    `yaml:"storage"`
	SSH        SSHConfig        `yaml:"ssh"`
}

// BoardConfig defines the size of generated boards.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ScoringConfig defines score parameters.
type ScoringConfig struct {
	BoosterMultiplier float64 `yaml:"booster_multiplier"`
}

// StagesConfig defines where stage files come from.
type StagesConfig struct {
	Dir      string `yaml:"dir"`      // Empty means the built-in stages
	Strategy string `yaml:"strategy"` // Autoplay strategy for simulate
}

// LogConfig defines logging parameters.
type LogConfig struct {
	Level string `yaml:"level"`
}

// StorageConfig defines the scores database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig defines the SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKey     string        `yaml:"host_key"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Colors resolves the palette names.
func (c Config) Colors() ([]core.Color, error) {
	colors := make([]core.Color, 0, len(c.Palette))
	for _, name := range c.Palette {
		col, ok := core.ParseColor(name)
		if !ok {
			return nil, fmt.Errorf("config: unknown palette color %q", name)
		}
		colors = append(colors, col)
	}
	return colors, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Board.Width <= 0 || c.Board.Height <= 0 {
		return fmt.Errorf("config: board size %dx%d must be positive", c.Board.Width, c.Board.Height)
	}
	if len(c.Palette) == 0 {
		return fmt.Errorf("config: palette is empty")
	}
	if _, err := c.Colors(); err != nil {
		return err
	}
	if c.Scoring.BoosterMultiplier < 1 {
		return fmt.Errorf("config: booster_multiplier %.2f must be at least 1", c.Scoring.BoosterMultiplier)
	}
	if _, err := ParsePreset(string(c.Difficulty)); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	return nil
}
