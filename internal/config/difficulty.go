package config

import "fmt"

// DifficultyPreset represents a named difficulty level.
// For generated boards difficulty is the palette size: more colors, fewer groups.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// fullPalette is the order colors are added as difficulty rises.
var fullPalette = []string{"red", "green", "blue", "yellow", "purple", "orange"}

// ParsePreset converts a name to a preset. Empty means fixed.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s), nil
	case "":
		return DifficultyFixed, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// PaletteSizeForPreset returns the number of colors for a preset,
// or 0 for fixed (keep the configured palette).
func PaletteSizeForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 3
	case DifficultyNormal:
		return 4
	case DifficultyHard:
		return 5
	default:
		return 0
	}
}

// IsFixedPreset returns true if the preset keeps the configured palette.
func IsFixedPreset(preset DifficultyPreset) bool {
	return PaletteSizeForPreset(preset) == 0
}

// ApplyPreset modifies the config based on a difficulty preset.
// Configured colors are kept first; missing slots are filled from the full palette.
func ApplyPreset(cfg *Config, preset DifficultyPreset) {
	cfg.Difficulty = preset
	n := PaletteSizeForPreset(preset)
	if n == 0 {
		return
	}

	palette := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for _, name := range append(append([]string{}, cfg.Palette...), fullPalette...) {
		if len(palette) == n {
			break
		}
		if !seen[name] {
			seen[name] = true
			palette = append(palette, name)
		}
	}
	cfg.Palette = palette
}
