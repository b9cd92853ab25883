package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardPutAndRemove(t *testing.T) {
	b := NewBoard(3, 2)
	assert.Equal(t, 0, b.Count())
	assert.True(t, b.IsEmpty(P(0, 0)))
	assert.False(t, b.IsEmpty(P(3, 0)), "out of bounds is not empty")

	first := b.Put(P(1, 1), NewBlock(ColorBlue))
	second := b.Put(P(2, 1), NewKindBlock(ColorRed, KindRock, 5))
	require.NotNil(t, first)
	require.NotNil(t, second)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, P(1, 1), first.Pos)
	assert.Zero(t, second.Threshold, "rocks carry no threshold")
	assert.Nil(t, b.Put(P(-1, 0), NewBlock(ColorRed)))
	assert.Nil(t, b.At(P(5, 5)))

	removed := b.Remove(P(1, 1))
	require.NotNil(t, removed)
	assert.Equal(t, first.ID, removed.ID)
	assert.Nil(t, b.Remove(P(1, 1)))
	assert.Equal(t, 1, b.Count())
}

func TestBoardNegativeSize(t *testing.T) {
	b := NewBoard(-2, 3)
	assert.Equal(t, 0, b.W)
	assert.Empty(t, b.Occupied())
}

func TestBoardCloneDropsHandles(t *testing.T) {
	b := MustParseBoard("R G*", "# @")
	require.True(t, b.SetHandle(P(0, 0), "sprite"))
	assert.False(t, b.SetHandle(P(5, 0), "sprite"))

	c := b.Clone()
	assert.True(t, b.Equal(c))
	assert.Nil(t, c.At(P(0, 0)).Handle)
	assert.Equal(t, "sprite", b.At(P(0, 0)).Handle)
	assert.Equal(t, b.At(P(1, 0)).ID, c.At(P(1, 0)).ID)

	c.At(P(0, 0)).Color = ColorBlue
	assert.False(t, b.Equal(c))
	assert.Equal(t, ColorRed, b.At(P(0, 0)).Color, "clone must not alias")

	// New blocks on the clone never reuse an id from the original.
	fresh := c.Put(P(0, 0), NewBlock(ColorYellow))
	for _, p := range b.Occupied() {
		assert.NotEqual(t, fresh.ID, b.At(p).ID)
	}
}

func TestBoardEqualIgnoresRockColor(t *testing.T) {
	a := NewBoard(1, 1)
	c := NewBoard(1, 1)
	a.Put(P(0, 0), NewKindBlock(ColorRed, KindRock, 0))
	c.Put(P(0, 0), NewKindBlock(ColorBlue, KindRock, 0))
	assert.True(t, a.Equal(c))
	assert.False(t, a.Equal(NewBoard(2, 1)))
}

func TestBoardCounts(t *testing.T) {
	b := MustParseBoard(
		"R . # @",
		"G* . B+2 @",
	)
	assert.Equal(t, 6, b.Count())
	assert.Equal(t, 3, b.CountMatchable())
	assert.Equal(t, 2, b.CountKind(KindAnchor))
	assert.Equal(t, 1, b.CountKind(KindIce1))
	assert.True(t, b.ColumnEmpty(1))
	assert.False(t, b.ColumnEmpty(0))
	assert.True(t, b.ColumnHasAnchor(3))
	assert.False(t, b.ColumnHasAnchor(2))
	assert.Equal(t, []Pos{P(0, 0), P(2, 0), P(3, 0), P(0, 1), P(2, 1), P(3, 1)}, b.Occupied())
}

func TestKindHelpers(t *testing.T) {
	k, ok := ParseKind("steel")
	assert.True(t, ok)
	assert.Equal(t, KindAnchor, k)

	_, ok = ParseKind("lava")
	assert.False(t, ok)

	thawed, reacts := KindIceCounterAtMost.Thawed()
	assert.True(t, reacts)
	assert.Equal(t, KindCounterAtMost, thawed)

	_, reacts = KindRock.Thawed()
	assert.False(t, reacts)

	assert.False(t, KindRock.Matchable())
	assert.True(t, KindAnchor.Fixed())
	assert.False(t, KindRock.Fixed())

	blk := NewKindBlock(ColorGreen, KindCounterAtLeast, 3)
	assert.Equal(t, "green counter_at_least(3)", blk.String())
}

func TestPosHelpers(t *testing.T) {
	n := P(2, 2).Neighbors()
	assert.Equal(t, [4]Pos{P(2, 1), P(3, 2), P(2, 3), P(1, 2)}, n)
	assert.True(t, P(5, 0).Less(P(0, 1)))
	assert.True(t, P(0, 1).Less(P(1, 1)))
	assert.Equal(t, "(1,2)", P(1, 2).String())

	c, ok := ParseColor("Purple")
	assert.True(t, ok)
	assert.Equal(t, 'P', c.Char())
	assert.Len(t, AllColors(), int(ColorCount))
}
