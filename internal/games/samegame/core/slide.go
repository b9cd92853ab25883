package core

// ApplyHorizontalSlide removes fully empty columns by sliding columns left,
// in place, and returns the resulting moves.
//
// Columns containing an Anchor never move and act as barriers: columns to
// their right only slide as far as the column just past them. Each moved
// column keeps all of its rows.
func ApplyHorizontalSlide(b *Board) []Move {
	var moves []Move
	write := 0
	for x := 0; x < b.W; x++ {
		if b.ColumnEmpty(x) {
			continue
		}
		if b.ColumnHasAnchor(x) {
			write = x + 1
			continue
		}
		if x != write {
			moves = append(moves, b.shiftColumn(x, write)...)
		}
		write++
	}
	return moves
}

// shiftColumn moves every block of column from into the empty column to.
func (b *Board) shiftColumn(from, to int) []Move {
	var moves []Move
	for y := 0; y < b.H; y++ {
		if b.At(P(from, y)) != nil {
			moves = append(moves, b.relocate(P(from, y), P(to, y)))
		}
	}
	return moves
}

// Settle runs gravity and then horizontal compaction.
func Settle(b *Board) (falls, slides []Move) {
	falls = ApplyGravity(b)
	slides = ApplyHorizontalSlide(b)
	return falls, slides
}
