package core

import (
	"fmt"
	"math/rand"
	"strings"
)

// Item identifies a consumable item effect.
type Item uint8

const (
	ItemSwap Item = iota
	ItemRecolorOne
	ItemRecolorArea
	ItemShuffle
	ItemMicroClear
	ItemAreaBomb
	ItemRadiusBomb
	ItemBreakRock
	ItemBreakAnchor
	ItemBreakAny
	ItemCounterPromote
	ItemCounterReset
	ItemThawStep
	ItemScoreBooster
	ItemCount // Sentinel value for iteration
)

var itemNames = [ItemCount]string{
	ItemSwap:           "swap",
	ItemRecolorOne:     "recolor_one",
	ItemRecolorArea:    "recolor_area",
	ItemShuffle:        "shuffle",
	ItemMicroClear:     "micro_clear",
	ItemAreaBomb:       "area_bomb",
	ItemRadiusBomb:     "radius_bomb",
	ItemBreakRock:      "break_rock",
	ItemBreakAnchor:    "break_anchor",
	ItemBreakAny:       "break_any",
	ItemCounterPromote: "counter_promote",
	ItemCounterReset:   "counter_reset",
	ItemThawStep:       "thaw_step",
	ItemScoreBooster:   "score_booster",
}

// String returns the item name.
func (i Item) String() string {
	if i >= ItemCount {
		return "unknown"
	}
	return itemNames[i]
}

// ParseItem converts an item name to an Item.
func ParseItem(s string) (Item, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range itemNames {
		if name == s {
			return Item(i), true
		}
	}
	return ItemCount, false
}

// AllItems returns every item in order.
func AllItems() []Item {
	items := make([]Item, 0, ItemCount)
	for i := Item(0); i < ItemCount; i++ {
		items = append(items, i)
	}
	return items
}

// Targets returns how many board positions the item needs (0, 1 or 2).
func (i Item) Targets() int {
	switch i {
	case ItemSwap:
		return 2
	case ItemShuffle, ItemScoreBooster:
		return 0
	case ItemRecolorOne, ItemRecolorArea, ItemMicroClear, ItemAreaBomb, ItemRadiusBomb,
		ItemBreakRock, ItemBreakAnchor, ItemBreakAny,
		ItemCounterPromote, ItemCounterReset, ItemThawStep:
		return 1
	default:
		return 0
	}
}

// NeedsColor reports whether the item takes a color argument.
func (i Item) NeedsColor() bool {
	return i == ItemRecolorOne || i == ItemRecolorArea
}

// ItemRequest carries the parameters of one item use.
type ItemRequest struct {
	Item   Item
	Target Pos   // Primary position
	Other  Pos   // Second position, for Swap
	Color  Color // New color, for the recolor items
	Radius int   // Blast radius, for RadiusBomb
}

// ItemResult describes a successful item effect.
type ItemResult struct {
	Item    Item
	Message string  // Player-facing summary
	Cells   []Pos   // Cells whose content changed, before any settling
	Removed []Block // Deleted blocks, with their handles
	Moves   []Move  // Direct relocations made by the item itself
	Falls   []Move  // Gravity moves triggered by deletions
	Slides  []Move  // Compaction moves triggered by deletions
	Booster bool    // Score multiplier should be applied from now on
}

// ApplyItem dispatches req to the matching effect. rng is only used by Shuffle.
func ApplyItem(b *Board, rng *rand.Rand, req ItemRequest) (ItemResult, error) {
	switch req.Item {
	case ItemSwap:
		return Swap(b, req.Target, req.Other)
	case ItemRecolorOne:
		return RecolorOne(b, req.Target, req.Color)
	case ItemRecolorArea:
		return RecolorArea(b, req.Target, req.Color)
	case ItemShuffle:
		return Shuffle(b, rng)
	case ItemMicroClear:
		return MicroClear(b, req.Target)
	case ItemAreaBomb:
		return AreaBomb(b, req.Target), nil
	case ItemRadiusBomb:
		return RadiusBomb(b, req.Target, req.Radius)
	case ItemBreakRock:
		return BreakRock(b, req.Target)
	case ItemBreakAnchor:
		return BreakAnchor(b, req.Target)
	case ItemBreakAny:
		return BreakAny(b, req.Target)
	case ItemCounterPromote:
		return CounterPromote(b, req.Target)
	case ItemCounterReset:
		return CounterReset(b, req.Target)
	case ItemThawStep:
		return ThawStep(b, req.Target)
	case ItemScoreBooster:
		return ScoreBooster(), nil
	default:
		return ItemResult{}, invalidArgument("unknown item %d", req.Item)
	}
}

// occupied returns the block at p or the matching input failure.
func occupied(b *Board, p Pos) (*Block, error) {
	if !b.InBounds(p) {
		return nil, outOfBounds(p)
	}
	blk := b.At(p)
	if blk == nil {
		return nil, emptyCell(p)
	}
	return blk, nil
}

// movable returns the block at p, rejecting Rock and Anchor.
func movable(b *Board, p Pos, action string) (*Block, error) {
	blk, err := occupied(b, p)
	if err != nil {
		return nil, err
	}
	if !blk.Kind.Matchable() {
		return nil, kindMismatch("cannot %s a %s block", action, blk.Kind)
	}
	return blk, nil
}

// clearAndSettle deletes the given cells and lets the board settle.
func clearAndSettle(b *Board, item Item, cells []Pos) ItemResult {
	result := ItemResult{Item: item}
	for _, p := range cells {
		if blk := b.Remove(p); blk != nil {
			result.Cells = append(result.Cells, p)
			result.Removed = append(result.Removed, *blk)
		}
	}
	if len(result.Removed) > 0 {
		result.Falls, result.Slides = Settle(b)
	}
	return result
}

// Swap exchanges the blocks at a and c.
func Swap(b *Board, a, c Pos) (ItemResult, error) {
	first, err := movable(b, a, "swap")
	if err != nil {
		return ItemResult{}, err
	}
	second, err := movable(b, c, "swap")
	if err != nil {
		return ItemResult{}, err
	}
	if a == c {
		return ItemResult{}, invalidArgument("pick two different blocks to swap")
	}

	b.cells[b.index(a)], b.cells[b.index(c)] = second, first
	first.Pos, second.Pos = c, a
	first.Handle, second.Handle = nil, nil

	return ItemResult{
		Item:    ItemSwap,
		Message: fmt.Sprintf("swapped %v and %v", a, c),
		Cells:   []Pos{a, c},
		Moves: []Move{
			{ID: first.ID, From: a, To: c},
			{ID: second.ID, From: c, To: a},
		},
	}, nil
}

// RecolorOne sets the color of a single block.
func RecolorOne(b *Board, p Pos, c Color) (ItemResult, error) {
	if !c.Valid() {
		return ItemResult{}, invalidArgument("%v is not a palette color", c)
	}
	blk, err := movable(b, p, "recolor")
	if err != nil {
		return ItemResult{}, err
	}
	blk.Color = c
	return ItemResult{
		Item:    ItemRecolorOne,
		Message: fmt.Sprintf("painted %v %s", p, c),
		Cells:   []Pos{p},
	}, nil
}

// RecolorArea recolors the whole connectivity group at p.
// A group of one cell still succeeds.
func RecolorArea(b *Board, p Pos, c Color) (ItemResult, error) {
	if !c.Valid() {
		return ItemResult{}, invalidArgument("%v is not a palette color", c)
	}
	if _, err := movable(b, p, "recolor"); err != nil {
		return ItemResult{}, err
	}
	group := FindGroup(b, p)
	for _, cell := range group.cells {
		b.At(cell).Color = c
	}
	return ItemResult{
		Item:    ItemRecolorArea,
		Message: fmt.Sprintf("painted %d blocks %s", group.Len(), c),
		Cells:   group.Cells(),
	}, nil
}

// Shuffle permutes the colors of all Normal blocks using rng.
// Positions and every other kind are untouched.
func Shuffle(b *Board, rng *rand.Rand) (ItemResult, error) {
	if rng == nil {
		return ItemResult{}, invalidArgument("shuffle needs a random source")
	}
	var cells []Pos
	var colors []Color
	for _, p := range b.Occupied() {
		if blk := b.At(p); blk.Kind == KindNormal {
			cells = append(cells, p)
			colors = append(colors, blk.Color)
		}
	}

	rng.Shuffle(len(colors), func(i, j int) {
		colors[i], colors[j] = colors[j], colors[i]
	})
	for i, p := range cells {
		b.At(p).Color = colors[i]
	}

	return ItemResult{
		Item:    ItemShuffle,
		Message: fmt.Sprintf("shuffled %d blocks", len(cells)),
		Cells:   cells,
	}, nil
}

// MicroClear deletes a single Normal block.
func MicroClear(b *Board, p Pos) (ItemResult, error) {
	blk, err := occupied(b, p)
	if err != nil {
		return ItemResult{}, err
	}
	if blk.Kind != KindNormal {
		return ItemResult{}, kindMismatch("micro clear only works on normal blocks, not %s", blk.Kind)
	}
	result := clearAndSettle(b, ItemMicroClear, []Pos{p})
	result.Message = fmt.Sprintf("cleared %v", p)
	return result, nil
}

// AreaBomb deletes every non-Anchor block in the 3x3 area around center,
// Rock included. The area is clipped to the board; it always succeeds, even
// when nothing is cleared.
func AreaBomb(b *Board, center Pos) ItemResult {
	var cells []Pos
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := center.Add(dx, dy)
			if blk := b.At(p); blk != nil && blk.Kind != KindAnchor {
				cells = append(cells, p)
			}
		}
	}
	result := clearAndSettle(b, ItemAreaBomb, cells)
	result.Message = fmt.Sprintf("bomb cleared %d blocks", len(result.Removed))
	return result
}

// RadiusBomb deletes every non-Anchor block whose squared distance to center
// is at most radius squared. Like AreaBomb it succeeds with zero cells cleared;
// only a negative radius is rejected. The reach is capped at W+H, which covers
// the whole board from any cell on it.
func RadiusBomb(b *Board, center Pos, radius int) (ItemResult, error) {
	if radius < 0 {
		return ItemResult{}, invalidArgument("blast radius must not be negative, got %d", radius)
	}
	radius = min(radius, b.W+b.H)
	var cells []Pos
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			dx, dy := x-center.X, y-center.Y
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			p := P(x, y)
			if blk := b.At(p); blk != nil && blk.Kind != KindAnchor {
				cells = append(cells, p)
			}
		}
	}
	result := clearAndSettle(b, ItemRadiusBomb, cells)
	result.Message = fmt.Sprintf("blast cleared %d blocks", len(result.Removed))
	return result, nil
}

// breakKind deletes the block at p if match accepts its kind.
func breakKind(b *Board, item Item, p Pos, match func(Kind) bool, want string) (ItemResult, error) {
	blk, err := occupied(b, p)
	if err != nil {
		return ItemResult{}, err
	}
	if !match(blk.Kind) {
		return ItemResult{}, kindMismatch("%s needs %s, found %s", item, want, blk.Kind)
	}
	kind := blk.Kind
	result := clearAndSettle(b, item, []Pos{p})
	result.Message = fmt.Sprintf("broke %s at %v", kind, p)
	return result, nil
}

// BreakRock deletes a Rock block.
func BreakRock(b *Board, p Pos) (ItemResult, error) {
	return breakKind(b, ItemBreakRock, p, func(k Kind) bool { return k == KindRock }, "a rock")
}

// BreakAnchor deletes an Anchor block.
func BreakAnchor(b *Board, p Pos) (ItemResult, error) {
	return breakKind(b, ItemBreakAnchor, p, func(k Kind) bool { return k == KindAnchor }, "an anchor")
}

// BreakAny deletes a block of any kind.
func BreakAny(b *Board, p Pos) (ItemResult, error) {
	return breakKind(b, ItemBreakAny, p, func(Kind) bool { return true }, "any block")
}

// convert replaces the kind of the block at p in place.
func convert(b *Board, item Item, p Pos, from, to Kind) (ItemResult, error) {
	blk, err := occupied(b, p)
	if err != nil {
		return ItemResult{}, err
	}
	if blk.Kind != from {
		return ItemResult{}, kindMismatch("%s needs a %s block, found %s", item, from, blk.Kind)
	}
	blk.Kind = to
	if !to.HasThreshold() {
		blk.Threshold = 0
	}
	return ItemResult{
		Item:    item,
		Message: fmt.Sprintf("%v is now %s", p, to),
		Cells:   []Pos{p},
	}, nil
}

// CounterPromote turns a CounterAtMost block into CounterAtLeast with the
// same threshold.
func CounterPromote(b *Board, p Pos) (ItemResult, error) {
	return convert(b, ItemCounterPromote, p, KindCounterAtMost, KindCounterAtLeast)
}

// CounterReset turns a CounterAtLeast block into a Normal block.
func CounterReset(b *Board, p Pos) (ItemResult, error) {
	return convert(b, ItemCounterReset, p, KindCounterAtLeast, KindNormal)
}

// ThawStep removes one ice level: IceLevel2 to IceLevel1, IceLevel1 to Normal.
func ThawStep(b *Board, p Pos) (ItemResult, error) {
	blk, err := occupied(b, p)
	if err != nil {
		return ItemResult{}, err
	}
	switch blk.Kind {
	case KindIce2:
		return convert(b, ItemThawStep, p, KindIce2, KindIce1)
	case KindIce1:
		return convert(b, ItemThawStep, p, KindIce1, KindNormal)
	default:
		return ItemResult{}, kindMismatch("thaw needs an ice block, found %s", blk.Kind)
	}
}

// ScoreBooster has no board effect; it tells the caller to apply the score
// multiplier for the rest of the stage.
func ScoreBooster() ItemResult {
	return ItemResult{
		Item:    ItemScoreBooster,
		Message: "score booster active",
		Booster: true,
	}
}
