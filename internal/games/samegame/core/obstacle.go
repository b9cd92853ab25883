package core

import (
	"sort"

	"github.com/zyedidia/generic/mapset"
)

// eligible reports whether blk is removable by matching in a group of size n.
func eligible(blk *Block, n int) bool {
	if blk == nil {
		return false
	}
	switch blk.Kind {
	case KindNormal:
		return n >= 2
	case KindCounterAtLeast:
		return n >= blk.Threshold
	case KindCounterAtMost:
		return n <= blk.Threshold
	case KindIce1, KindIce2, KindIceCounterAtLeast, KindIceCounterAtMost, KindRock, KindAnchor:
		return false
	default:
		return false
	}
}

// IsEligible reports whether the block at p is removable this turn.
// The rule is evaluated against the connectivity group containing p: g when
// p is a member, otherwise the group rooted at p itself.
func IsEligible(b *Board, g Group, p Pos) bool {
	blk := b.At(p)
	if blk == nil {
		return false
	}
	n := g.Len()
	if !g.Contains(p) {
		n = FindGroup(b, p).Len()
	}
	return eligible(blk, n)
}

// Transition records an in-place obstacle state change.
type Transition struct {
	Pos  Pos
	ID   int
	From Kind
	To   Kind
}

// Prepared is a board whose obstacle transitions for one tap have been
// applied. It is the only input RemoveEligible accepts, so removal cannot run
// before the transition pass.
type Prepared struct {
	board       *Board
	group       Group
	removing    mapset.Set[Pos]
	transitions []Transition
	spent       bool
}

// Group returns the tapped connectivity group.
func (p *Prepared) Group() Group {
	return p.group
}

// Transitions returns the obstacle changes applied to the board.
func (p *Prepared) Transitions() []Transition {
	out := make([]Transition, len(p.transitions))
	copy(out, p.transitions)
	return out
}

// Removing returns the cells that RemoveEligible will delete, row-major.
func (p *Prepared) Removing() []Pos {
	var out []Pos
	for _, c := range p.group.cells {
		if p.removing.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// ApplyObstacleTransitions runs the obstacle state machine for a tap on g,
// mutating ice blocks in place before anything is deleted.
//
// A reacting block transitions at most once per tap, when at least one of its
// 4-neighbors is in the about-to-be-removed set. A block that thaws into an
// eligible kind joins that set immediately, which can in turn trigger its own
// neighbors; the pass repeats until nothing changes.
func ApplyObstacleTransitions(b *Board, g Group) *Prepared {
	prep := &Prepared{
		board:    b,
		group:    g,
		removing: mapset.New[Pos](),
	}
	if !GroupIsRemovable(g) {
		return prep
	}

	n := g.Len()
	for _, c := range g.cells {
		if eligible(b.At(c), n) {
			prep.removing.Put(c)
		}
	}
	if prep.removing.Size() == 0 {
		return prep
	}

	transitioned := mapset.New[Pos]()
	for changed := true; changed; {
		changed = false
		for _, c := range g.cells {
			if transitioned.Has(c) || prep.removing.Has(c) {
				continue
			}
			blk := b.At(c)
			if blk == nil {
				continue
			}
			next, reacts := blk.Kind.Thawed()
			if !reacts || !prep.touchesRemoval(c) {
				continue
			}

			prep.transitions = append(prep.transitions, Transition{
				Pos:  c,
				ID:   blk.ID,
				From: blk.Kind,
				To:   next,
			})
			blk.Kind = next
			if !next.HasThreshold() {
				blk.Threshold = 0
			}
			transitioned.Put(c)
			changed = true

			if eligible(blk, n) {
				prep.removing.Put(c)
			}
		}
	}

	sort.Slice(prep.transitions, func(i, j int) bool {
		return prep.transitions[i].Pos.Less(prep.transitions[j].Pos)
	})
	return prep
}

// touchesRemoval reports whether a same-color 4-neighbor of c is being removed.
func (p *Prepared) touchesRemoval(c Pos) bool {
	self := p.board.At(c)
	for _, n := range c.Neighbors() {
		if p.removing.Has(n) && self.Matches(p.board.At(n)) {
			return true
		}
	}
	return false
}

// RemoveEligible deletes the eligible members of the prepared group and
// returns the removed blocks in row-major order. Handles are left on the
// returned blocks so the renderer can dispose of them.
// A Prepared value can be consumed once; later calls remove nothing.
func RemoveEligible(p *Prepared) []Block {
	if p == nil || p.spent {
		return nil
	}
	p.spent = true

	var removed []Block
	for _, c := range p.Removing() {
		if blk := p.board.Remove(c); blk != nil {
			removed = append(removed, *blk)
		}
	}
	return removed
}
