package core

// ApplyGravity collapses every column downward in place and returns the
// resulting moves.
//
// Anchors never move. Every block above the top-most Anchor of a column is
// pinned where it is. Below that, each run of rows between Anchors (or
// between an Anchor and the floor) compacts to its own bottom, preserving
// top-to-bottom order, so no block ever passes through an Anchor.
// A column without Anchors is plain gravity.
func ApplyGravity(b *Board) []Move {
	var moves []Move
	for x := 0; x < b.W; x++ {
		moves = append(moves, b.collapseColumn(x)...)
	}
	return moves
}

// collapseColumn applies gravity to column x.
func (b *Board) collapseColumn(x int) []Move {
	start := 0
	for y := 0; y < b.H; y++ {
		if b.isAnchor(P(x, y)) {
			start = y + 1
			break
		}
	}

	var moves []Move
	segTop := start
	for y := start; y <= b.H; y++ {
		if y == b.H || b.isAnchor(P(x, y)) {
			moves = append(moves, b.compactSegment(x, segTop, y-1)...)
			segTop = y + 1
		}
	}
	return moves
}

// compactSegment drops the blocks of rows [top, bottom] in column x to the
// bottom of that range.
func (b *Board) compactSegment(x, top, bottom int) []Move {
	var moves []Move
	write := bottom
	for y := bottom; y >= top; y-- {
		if b.At(P(x, y)) == nil {
			continue
		}
		if y != write {
			moves = append(moves, b.relocate(P(x, y), P(x, write)))
		}
		write--
	}
	return moves
}

// isAnchor reports whether p holds a block that never moves.
func (b *Board) isAnchor(p Pos) bool {
	blk := b.At(p)
	return blk != nil && blk.Kind.Fixed()
}
