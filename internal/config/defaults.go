package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/samegame.yaml
var defaultYAML []byte

// DefaultConfig returns the hardcoded default configuration.
func DefaultConfig() Config {
	return Config{
		Board:      BoardConfig{Width: 10, Height: 8},
		Palette:    []string{"red", "green", "blue", "yellow"},
		Difficulty: DifficultyFixed,
		Scoring:    ScoringConfig{BoosterMultiplier: 1.5},
		Stages:     StagesConfig{Strategy: "largest"},
		Log:        LogConfig{Level: "info"},
		Storage:    StorageConfig{Path: "~/.samegame/scores.db"},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
