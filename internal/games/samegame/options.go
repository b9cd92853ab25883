package samegame

import (
	"github.com/charmbracelet/log"
	"github.com/vovakirdan/samegame/internal/games/samegame/core"
)

// DefaultBoosterMultiplier is applied to earned score once a booster is used.
const DefaultBoosterMultiplier = 1.5

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. Sessions are silent by default.
func WithLogger(logger *log.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSeed seeds the random source used by Shuffle.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = seed
	}
}

// WithBoosterMultiplier overrides the score booster multiplier.
// Values below 1 are ignored.
func WithBoosterMultiplier(m float64) Option {
	return func(s *Session) {
		if m >= 1 {
			s.multiplier = m
		}
	}
}

// WithStageID tags the session with the stage it plays.
func WithStageID(id string) Option {
	return func(s *Session) {
		s.stageID = id
	}
}

// WithTarget sets the score that counts as passing the stage.
func WithTarget(score int) Option {
	return func(s *Session) {
		s.target = score
	}
}

// WithInventory limits item uses. Items missing from the map cannot be used.
// Without this option every item is unlimited.
func WithInventory(items map[core.Item]int) Option {
	return func(s *Session) {
		if items == nil {
			s.initialInventory = nil
			return
		}
		s.initialInventory = make(map[core.Item]int, len(items))
		for item, n := range items {
			s.initialInventory[item] = n
		}
	}
}
