package core

import "fmt"

// Pos is a cell position on the board.
// X is the column, Y is the row; Y increases downward (row 0 is the top).
type Pos struct {
	X int
	Y int
}

// P is a convenience constructor for Pos.
func P(x, y int) Pos {
	return Pos{X: x, Y: y}
}

// String returns a string representation of the position.
func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns a new Pos offset by (dx, dy).
func (p Pos) Add(dx, dy int) Pos {
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Neighbors returns the four orthogonal neighbors (up, right, down, left).
// Diagonals are never neighbors.
func (p Pos) Neighbors() [4]Pos {
	return [4]Pos{
		p.Add(0, -1),
		p.Add(1, 0),
		p.Add(0, 1),
		p.Add(-1, 0),
	}
}

// Less orders positions row-major (top row first, then left to right).
func (p Pos) Less(other Pos) bool {
	if p.Y != other.Y {
		return p.Y < other.Y
	}
	return p.X < other.X
}
