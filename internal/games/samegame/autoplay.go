package samegame

import (
	"context"
	"fmt"
	"strings"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
)

// Strategy picks the next tap. ok is false when no tap removes anything.
type Strategy func(b *core.Board) (p core.Pos, ok bool)

// LargestGroup taps the group that removes the most blocks. Ties go to the
// group whose first cell comes first in row-major order.
func LargestGroup(b *core.Board) (core.Pos, bool) {
	var best core.Pos
	bestN := 0
	for _, g := range core.Groups(b) {
		if !core.GroupIsRemovable(g) {
			continue
		}
		if n := core.Preview(b, g.Seed()); n > bestN {
			best, bestN = g.Seed(), n
		}
	}
	return best, bestN > 0
}

// FirstGroup taps the first group, in row-major order, that removes anything.
func FirstGroup(b *core.Board) (core.Pos, bool) {
	for _, g := range core.Groups(b) {
		if core.GroupIsRemovable(g) && core.Preview(b, g.Seed()) > 0 {
			return g.Seed(), true
		}
	}
	return core.Pos{}, false
}

// ParseStrategy returns a strategy by name.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "largest", "":
		return LargestGroup, nil
	case "first":
		return FirstGroup, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want largest or first)", name)
	}
}

// AutoPlay taps with strategy until no removable group remains or ctx is
// done. Every tap removes at least one block, so the loop is bounded by the
// board size.
func (s *Session) AutoPlay(ctx context.Context, strategy Strategy) (Summary, error) {
	if strategy == nil {
		strategy = LargestGroup
	}
	for {
		if err := ctx.Err(); err != nil {
			return s.Summary(), err
		}
		p, ok := strategy(s.board)
		if !ok {
			break
		}
		if out := s.Tap(p); out.RemovedCount() == 0 {
			return s.Summary(), fmt.Errorf("strategy picked %v which removed nothing", p)
		}
	}
	return s.Summary(), nil
}
