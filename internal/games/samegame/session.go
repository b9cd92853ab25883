// Package samegame drives one play-through of a stage on top of the rule
// engine: it owns the board, accumulates score, tracks item inventory and
// the score booster, and runs automated play.
package samegame

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/vovakirdan/samegame/internal/games/samegame/core"
)

// ErrItemUnavailable is returned when the inventory has no uses left for an item.
var ErrItemUnavailable = errors.New("item unavailable")

// Session owns a board for the duration of a stage.
// It is not safe for concurrent use; callers serialize actions.
type Session struct {
	board   *core.Board
	initial *core.Board
	rng     *rand.Rand
	seed    int64
	logger  *log.Logger

	stageID    string
	target     int
	multiplier float64
	boosted    bool

	score     int
	taps      int
	itemsUsed int
	finished  bool

	inventory        map[core.Item]int
	initialInventory map[core.Item]int
}

// TapOutcome is the result of one player tap.
type TapOutcome struct {
	core.TapResult
	Points int  // Score added, after the booster multiplier
	Over   bool // No removable group remains
}

// Summary describes the state of a session for display and persistence.
type Summary struct {
	StageID   string
	Score     int
	Taps      int
	ItemsUsed int
	Cleared   bool
	Remaining int // Matchable blocks left on the board
	Boosted   bool
	Target    int
	Passed    bool
}

// NewSession starts a session on board. The session takes ownership of it.
func NewSession(board *core.Board, opts ...Option) *Session {
	s := &Session{
		initial:    board.Clone(),
		logger:     log.New(io.Discard),
		multiplier: DefaultBoosterMultiplier,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset(board)
	return s
}

// reset installs board and clears all per-run state.
func (s *Session) reset(board *core.Board) {
	s.board = board
	s.rng = rand.New(rand.NewSource(s.seed))
	s.score = 0
	s.taps = 0
	s.itemsUsed = 0
	s.boosted = false
	s.finished = false
	s.inventory = nil
	if s.initialInventory != nil {
		s.inventory = make(map[core.Item]int, len(s.initialInventory))
		for item, n := range s.initialInventory {
			s.inventory[item] = n
		}
	}
}

// Restart puts the starting board back and clears score, counters and inventory.
func (s *Session) Restart() {
	s.reset(s.initial.Clone())
	s.logger.Debug("restart", "stage", s.stageID)
}

// Board returns the live board. Callers must not mutate it directly.
func (s *Session) Board() *core.Board {
	return s.board
}

// StageID returns the stage tag.
func (s *Session) StageID() string {
	return s.stageID
}

// Score returns the accumulated score.
func (s *Session) Score() int {
	return s.score
}

// Target returns the passing score, 0 if the stage has none.
func (s *Session) Target() int {
	return s.target
}

// Taps returns the number of taps that removed at least one block.
func (s *Session) Taps() int {
	return s.taps
}

// ItemsUsed returns the number of successful item uses.
func (s *Session) ItemsUsed() int {
	return s.itemsUsed
}

// Boosted reports whether the score booster is active.
func (s *Session) Boosted() bool {
	return s.boosted
}

// Multiplier returns the factor currently applied to earned score.
func (s *Session) Multiplier() float64 {
	if s.boosted {
		return s.multiplier
	}
	return 1
}

// Remaining returns how many uses of item are left. ok is false when the
// session has no inventory limit.
func (s *Session) Remaining(item core.Item) (n int, ok bool) {
	if s.inventory == nil {
		return 0, false
	}
	return s.inventory[item], true
}

// Available reports whether item can be used now.
func (s *Session) Available(item core.Item) bool {
	n, limited := s.Remaining(item)
	return !limited || n > 0
}

// Over reports whether no tap can remove anything anymore.
func (s *Session) Over() bool {
	return !core.HasMoves(s.board)
}

// Cleared reports whether no matchable block is left.
func (s *Session) Cleared() bool {
	return s.board.CountMatchable() == 0
}

// Passed reports whether the stage target is met.
func (s *Session) Passed() bool {
	if s.target > 0 {
		return s.score >= s.target
	}
	return s.Cleared()
}

// points converts a removal count into score, applying the booster.
func (s *Session) points(removed int) int {
	base := core.Score(removed)
	if !s.boosted {
		return base
	}
	return int(math.Floor(float64(base) * s.multiplier))
}

// Tap runs one tap at p. Taps on empty cells, singletons and positions
// outside the board leave everything unchanged.
func (s *Session) Tap(p core.Pos) TapOutcome {
	res := core.Tap(s.board, p)
	out := TapOutcome{TapResult: res}

	if res.RemovedCount() > 0 {
		out.Points = s.points(res.RemovedCount())
		s.score += out.Points
		s.taps++
	}
	s.logger.Debug("tap",
		"stage", s.stageID,
		"pos", p,
		"group", res.Group.Len(),
		"removed", res.RemovedCount(),
		"transitions", len(res.Transitions),
		"points", out.Points,
	)

	out.Over = s.Over()
	s.checkFinished()
	return out
}

// UseItem applies an item. Failures leave the board, score and inventory
// unchanged; rule failures are *core.ItemError.
func (s *Session) UseItem(req core.ItemRequest) (core.ItemResult, error) {
	if !s.Available(req.Item) {
		err := fmt.Errorf("no %s left: %w", req.Item, ErrItemUnavailable)
		s.logger.Warn("item rejected", "stage", s.stageID, "item", req.Item, "err", err)
		return core.ItemResult{}, err
	}

	res, err := core.ApplyItem(s.board, s.rng, req)
	if err != nil {
		s.logger.Warn("item rejected", "stage", s.stageID, "item", req.Item, "err", err)
		return core.ItemResult{}, err
	}

	if s.inventory != nil {
		s.inventory[req.Item]--
	}
	s.itemsUsed++
	if res.Booster {
		s.boosted = true
	}
	s.logger.Debug("item",
		"stage", s.stageID,
		"item", req.Item,
		"cells", len(res.Cells),
		"removed", len(res.Removed),
	)
	s.checkFinished()
	return res, nil
}

// checkFinished logs stage completion. An item that brings moves back
// reopens the stage, so the next end is logged again.
func (s *Session) checkFinished() {
	if !s.Over() {
		s.finished = false
		return
	}
	if s.finished {
		return
	}
	s.finished = true
	s.logger.Info("stage finished",
		"stage", s.stageID,
		"score", s.score,
		"taps", s.taps,
		"cleared", s.Cleared(),
		"passed", s.Passed(),
	)
}

// Summary returns the current session state.
func (s *Session) Summary() Summary {
	return Summary{
		StageID:   s.stageID,
		Score:     s.score,
		Taps:      s.taps,
		ItemsUsed: s.itemsUsed,
		Cleared:   s.Cleared(),
		Remaining: s.board.CountMatchable(),
		Boosted:   s.boosted,
		Target:    s.target,
		Passed:    s.Passed(),
	}
}
