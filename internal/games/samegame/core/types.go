// Package core implements the rule engine of the samegame puzzle:
// connectivity, obstacle blocks, removal, gravity with anchors, horizontal
// compaction, scoring and item effects.
// This package is UI-agnostic and deterministic; it never renders, reads
// input or persists anything.
package core

import (
	"fmt"
	"strings"
)

// Kind is the closed set of block variants.
// Every component switches over all of them; adding a kind means revisiting
// each switch in this package.
type Kind uint8

const (
	KindNormal Kind = iota
	KindCounterAtLeast
	KindCounterAtMost
	KindIce1
	KindIce2
	KindIceCounterAtLeast
	KindIceCounterAtMost
	KindRock
	KindAnchor
)

// String returns the string representation of a kind.
func (k Kind) String() string {
	switch k {
	case KindNormal:
		return "normal"
	case KindCounterAtLeast:
		return "counter_at_least"
	case KindCounterAtMost:
		return "counter_at_most"
	case KindIce1:
		return "ice1"
	case KindIce2:
		return "ice2"
	case KindIceCounterAtLeast:
		return "ice_counter_at_least"
	case KindIceCounterAtMost:
		return "ice_counter_at_most"
	case KindRock:
		return "rock"
	case KindAnchor:
		return "anchor"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name to a Kind.
// "steel" is accepted as an alias for anchor.
func ParseKind(s string) (Kind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normal", "":
		return KindNormal, true
	case "counter_at_least", "counter_plus":
		return KindCounterAtLeast, true
	case "counter_at_most", "counter_minus":
		return KindCounterAtMost, true
	case "ice1", "ice_1":
		return KindIce1, true
	case "ice2", "ice_2":
		return KindIce2, true
	case "ice_counter_at_least", "ice_counter_plus":
		return KindIceCounterAtLeast, true
	case "ice_counter_at_most", "ice_counter_minus":
		return KindIceCounterAtMost, true
	case "rock":
		return KindRock, true
	case "anchor", "steel":
		return KindAnchor, true
	default:
		return KindNormal, false
	}
}

// Matchable reports whether blocks of this kind join color groups.
// Rock and Anchor never match any color.
func (k Kind) Matchable() bool {
	switch k {
	case KindNormal, KindCounterAtLeast, KindCounterAtMost,
		KindIce1, KindIce2, KindIceCounterAtLeast, KindIceCounterAtMost:
		return true
	case KindRock, KindAnchor:
		return false
	default:
		return false
	}
}

// Fixed reports whether the block never moves under gravity or compaction.
func (k Kind) Fixed() bool {
	switch k {
	case KindAnchor:
		return true
	case KindNormal, KindCounterAtLeast, KindCounterAtMost,
		KindIce1, KindIce2, KindIceCounterAtLeast, KindIceCounterAtMost, KindRock:
		return false
	default:
		return false
	}
}

// HasThreshold reports whether the kind carries a counter threshold.
func (k Kind) HasThreshold() bool {
	switch k {
	case KindCounterAtLeast, KindCounterAtMost, KindIceCounterAtLeast, KindIceCounterAtMost:
		return true
	case KindNormal, KindIce1, KindIce2, KindRock, KindAnchor:
		return false
	default:
		return false
	}
}

// Thawed returns the kind a block becomes after one adjacent same-color
// removal, and whether the kind reacts at all.
func (k Kind) Thawed() (Kind, bool) {
	switch k {
	case KindIce2:
		return KindIce1, true
	case KindIce1:
		return KindNormal, true
	case KindIceCounterAtLeast:
		return KindCounterAtLeast, true
	case KindIceCounterAtMost:
		return KindCounterAtMost, true
	case KindNormal, KindCounterAtLeast, KindCounterAtMost, KindRock, KindAnchor:
		return k, false
	default:
		return k, false
	}
}

// Handle is an opaque reference owned by the rendering collaborator.
// The engine never reads it and clears it whenever a block is copied or moved.
type Handle any

// Block is the content of an occupied cell.
type Block struct {
	ID        int   // Stable identity for movement records; assigned by the board
	Color     Color // Ignored for Rock and Anchor
	Kind      Kind
	Threshold int    // Only meaningful when Kind.HasThreshold()
	Pos       Pos    // Always equal to the block's cell on the board
	Handle    Handle // Presentation handle, never dereferenced here
}

// NewBlock returns a Normal block of the given color.
func NewBlock(c Color) Block {
	return Block{Color: c, Kind: KindNormal}
}

// NewKindBlock returns a block of any kind.
func NewKindBlock(c Color, k Kind, threshold int) Block {
	if !k.HasThreshold() {
		threshold = 0
	}
	return Block{Color: c, Kind: k, Threshold: threshold}
}

// Matches reports whether two blocks belong to the same color group.
func (b *Block) Matches(other *Block) bool {
	if b == nil || other == nil {
		return false
	}
	return b.Kind.Matchable() && other.Kind.Matchable() && b.Color == other.Color
}

// copyDetached returns a copy of b without its presentation handle.
func (b *Block) copyDetached() *Block {
	clone := *b
	clone.Handle = nil
	return &clone
}

// String returns a short description such as "red ice2" or "red counter_at_least(3)".
func (b *Block) String() string {
	if b == nil {
		return "empty"
	}
	switch b.Kind {
	case KindRock, KindAnchor:
		return b.Kind.String()
	}
	if b.Kind.HasThreshold() {
		return fmt.Sprintf("%s %s(%d)", b.Color, b.Kind, b.Threshold)
	}
	return fmt.Sprintf("%s %s", b.Color, b.Kind)
}
