package core

// TapResult describes everything one tap did to the board.
type TapResult struct {
	Group       Group        // The tapped connectivity group
	Transitions []Transition // Obstacle changes, applied before removal
	Removed     []Block      // Blocks deleted this tap, with their handles
	Falls       []Move       // Gravity moves
	Slides      []Move       // Horizontal compaction moves
	Score       int          // Score(len(Removed))
}

// RemovedCount returns the number of cells removed.
func (r TapResult) RemovedCount() int {
	return len(r.Removed)
}

// Changed reports whether the tap altered the board.
func (r TapResult) Changed() bool {
	return len(r.Removed) > 0 || len(r.Transitions) > 0
}

// RemovedPositions returns the positions the removed blocks occupied.
func (r TapResult) RemovedPositions() []Pos {
	out := make([]Pos, len(r.Removed))
	for i, blk := range r.Removed {
		out[i] = blk.Pos
	}
	return out
}

// Tap runs one full action on the board in place: connectivity, obstacle
// transitions, removal, gravity, horizontal compaction and scoring.
// Tapping an empty cell or a group smaller than two is a no-op.
// Cascades are not looped here; callers re-invoke Tap per step.
func Tap(b *Board, p Pos) TapResult {
	group := FindGroup(b, p)
	result := TapResult{Group: group}
	if !GroupIsRemovable(group) {
		return result
	}

	prep := ApplyObstacleTransitions(b, group)
	result.Transitions = prep.Transitions()
	result.Removed = RemoveEligible(prep)
	if len(result.Removed) > 0 {
		result.Falls, result.Slides = Settle(b)
	}
	result.Score = Score(len(result.Removed))
	return result
}

// Preview returns how many cells a tap at p would remove, without touching b.
func Preview(b *Board, p Pos) int {
	group := FindGroup(b, p)
	if !GroupIsRemovable(group) {
		return 0
	}
	return len(ApplyObstacleTransitions(b.Clone(), group).Removing())
}

// HasMoves reports whether any tap on the board would remove at least one cell.
func HasMoves(b *Board) bool {
	for _, g := range Groups(b) {
		if !GroupIsRemovable(g) {
			continue
		}
		for _, c := range g.cells {
			if eligible(b.At(c), g.Len()) {
				return true
			}
		}
	}
	return false
}
