package core

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// Group is a connectivity group: the maximal 4-connected set of same-color
// cells reachable from a seed. It is an ephemeral result and is not stored on
// the board.
type Group struct {
	seed    Pos
	cells   []Pos
	members mapset.Set[Pos]
}

// Seed returns the position the search started from.
func (g Group) Seed() Pos {
	return g.seed
}

// Len returns the number of cells in the group.
func (g Group) Len() int {
	return len(g.cells)
}

// Contains reports whether p is a member of the group.
func (g Group) Contains(p Pos) bool {
	if len(g.cells) == 0 {
		return false
	}
	return g.members.Has(p)
}

// Cells returns the member positions in row-major order.
func (g Group) Cells() []Pos {
	out := make([]Pos, len(g.cells))
	copy(out, g.cells)
	return out
}

// FindGroup flood-fills the group containing seed.
// Returns an empty group if seed is empty or out of bounds. Rock and Anchor
// never match, so a seed of either kind yields the singleton {seed}.
func FindGroup(b *Board, seed Pos) Group {
	g := Group{seed: seed, members: mapset.New[Pos]()}
	origin := b.At(seed)
	if origin == nil {
		return g
	}
	if !origin.Kind.Matchable() {
		g.members.Put(seed)
		g.cells = []Pos{seed}
		return g
	}

	queue := []Pos{seed}
	g.members.Put(seed)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		g.cells = append(g.cells, current)

		for _, n := range current.Neighbors() {
			if g.members.Has(n) {
				continue
			}
			if origin.Matches(b.At(n)) {
				g.members.Put(n)
				queue = append(queue, n)
			}
		}
	}

	sort.Slice(g.cells, func(i, j int) bool {
		return g.cells[i].Less(g.cells[j])
	})
	return g
}

// GroupIsRemovable reports whether a tap on this group does anything:
// true iff the group has at least two cells.
func GroupIsRemovable(g Group) bool {
	return g.Len() >= 2
}

// Groups partitions every matchable block on the board into connectivity
// groups, ordered by the row-major position of their first cell.
func Groups(b *Board) []Group {
	seen := mapset.New[Pos]()
	var groups []Group
	for _, p := range b.Occupied() {
		if seen.Has(p) || !b.At(p).Kind.Matchable() {
			continue
		}
		g := FindGroup(b, p)
		for _, c := range g.cells {
			seen.Put(c)
		}
		groups = append(groups, g)
	}
	return groups
}
