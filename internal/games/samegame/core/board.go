package core

import "fmt"

// Move records a block relocation for the rendering collaborator.
type Move struct {
	ID   int
	From Pos
	To   Pos
}

// Board is the grid of cells. Each cell holds one block or nothing.
// Cells are stored in row-major order: index = y*W + x.
type Board struct {
	W      int
	H      int
	cells  []*Block
	nextID int
}

// NewBoard creates an empty board with the given dimensions.
func NewBoard(w, h int) *Board {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Board{
		W:      w,
		H:      h,
		cells:  make([]*Block, w*h),
		nextID: 1,
	}
}

// index converts a position to a flat array index.
func (b *Board) index(p Pos) int {
	return p.Y*b.W + p.X
}

// InBounds returns true if the position is within the board.
func (b *Board) InBounds(p Pos) bool {
	return p.X >= 0 && p.X < b.W && p.Y >= 0 && p.Y < b.H
}

// At returns the block at p, or nil if the cell is empty or out of bounds.
// The returned pointer aliases board storage.
func (b *Board) At(p Pos) *Block {
	if !b.InBounds(p) {
		return nil
	}
	return b.cells[b.index(p)]
}

// IsEmpty reports whether p is in bounds and holds no block.
func (b *Board) IsEmpty(p Pos) bool {
	return b.InBounds(p) && b.cells[b.index(p)] == nil
}

// Put stores a copy of blk at p, replacing any previous content.
// A zero ID is replaced with a fresh one. Returns the stored block,
// or nil if p is out of bounds.
func (b *Board) Put(p Pos, blk Block) *Block {
	if !b.InBounds(p) {
		return nil
	}
	if blk.ID == 0 {
		blk.ID = b.nextID
		b.nextID++
	} else if blk.ID >= b.nextID {
		b.nextID = blk.ID + 1
	}
	if !blk.Kind.HasThreshold() {
		blk.Threshold = 0
	}
	blk.Pos = p
	stored := &blk
	b.cells[b.index(p)] = stored
	return stored
}

// Remove deletes the block at p and returns it, or nil if the cell was empty.
func (b *Board) Remove(p Pos) *Block {
	if !b.InBounds(p) {
		return nil
	}
	i := b.index(p)
	removed := b.cells[i]
	b.cells[i] = nil
	return removed
}

// SetHandle attaches a presentation handle to the block at p.
func (b *Board) SetHandle(p Pos, h Handle) bool {
	blk := b.At(p)
	if blk == nil {
		return false
	}
	blk.Handle = h
	return true
}

// relocate moves the block at from to the empty cell to, clearing its handle.
func (b *Board) relocate(from, to Pos) Move {
	blk := b.cells[b.index(from)]
	b.cells[b.index(from)] = nil
	blk.Pos = to
	blk.Handle = nil
	b.cells[b.index(to)] = blk
	return Move{ID: blk.ID, From: from, To: to}
}

// Clone returns a deep copy of the board. Presentation handles are not copied.
func (b *Board) Clone() *Board {
	cells := make([]*Block, len(b.cells))
	for i, blk := range b.cells {
		if blk != nil {
			cells[i] = blk.copyDetached()
		}
	}
	return &Board{
		W:      b.W,
		H:      b.H,
		cells:  cells,
		nextID: b.nextID,
	}
}

// Equal returns true if two boards have the same dimensions and the same
// color, kind and threshold in every cell. IDs and handles are ignored.
func (b *Board) Equal(other *Board) bool {
	if b.W != other.W || b.H != other.H {
		return false
	}
	for i, blk := range b.cells {
		o := other.cells[i]
		if (blk == nil) != (o == nil) {
			return false
		}
		if blk == nil {
			continue
		}
		if blk.Kind != o.Kind || blk.Threshold != o.Threshold {
			return false
		}
		if blk.Kind.Matchable() && blk.Color != o.Color {
			return false
		}
	}
	return true
}

// Count returns the number of occupied cells.
func (b *Board) Count() int {
	count := 0
	for _, blk := range b.cells {
		if blk != nil {
			count++
		}
	}
	return count
}

// CountMatchable returns the number of blocks that can still join a group.
func (b *Board) CountMatchable() int {
	count := 0
	for _, blk := range b.cells {
		if blk != nil && blk.Kind.Matchable() {
			count++
		}
	}
	return count
}

// CountKind returns the number of blocks of the given kind.
func (b *Board) CountKind(k Kind) int {
	count := 0
	for _, blk := range b.cells {
		if blk != nil && blk.Kind == k {
			count++
		}
	}
	return count
}

// Occupied returns all occupied positions, row by row.
func (b *Board) Occupied() []Pos {
	positions := make([]Pos, 0, len(b.cells))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			if b.cells[y*b.W+x] != nil {
				positions = append(positions, P(x, y))
			}
		}
	}
	return positions
}

// ColumnEmpty reports whether column x holds no block of any kind.
func (b *Board) ColumnEmpty(x int) bool {
	for y := 0; y < b.H; y++ {
		if b.cells[y*b.W+x] != nil {
			return false
		}
	}
	return true
}

// ColumnHasAnchor reports whether column x contains at least one Anchor.
func (b *Board) ColumnHasAnchor(x int) bool {
	for y := 0; y < b.H; y++ {
		if blk := b.cells[y*b.W+x]; blk != nil && blk.Kind.Fixed() {
			return true
		}
	}
	return false
}

// Validate checks the board invariants: every stored position matches its
// cell, and block IDs are unique.
func (b *Board) Validate() error {
	seen := make(map[int]Pos, len(b.cells))
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			blk := b.cells[y*b.W+x]
			if blk == nil {
				continue
			}
			p := P(x, y)
			if blk.Pos != p {
				return fmt.Errorf("block %d stored at %v reports position %v", blk.ID, p, blk.Pos)
			}
			if other, dup := seen[blk.ID]; dup {
				return fmt.Errorf("block id %d appears at %v and %v", blk.ID, other, p)
			}
			seen[blk.ID] = p
		}
	}
	return nil
}
