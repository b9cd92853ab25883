package stages

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages/formats"
)

// Stage represents a complete stage definition.
type Stage struct {
	formats.Stage
	FilePath string
}

// NewBoard builds the stage's starting board with the stage seed.
func (s *Stage) NewBoard() (*core.Board, error) {
	return s.BoardWithSeed(s.Seed)
}

// BoardWithSeed builds the starting board. An explicit layout is used as
// is; otherwise every cell is filled from the palette using seed. Obstacles
// are placed last and replace whatever the cell held.
func (s *Stage) BoardWithSeed(seed int64) (*core.Board, error) {
	rng := rand.New(rand.NewSource(seed))

	var b *core.Board
	if len(s.Layout) > 0 {
		parsed, err := core.ParseBoard(s.Layout)
		if err != nil {
			return nil, fmt.Errorf("stage %s layout: %w", s.ID, err)
		}
		b = parsed
	} else {
		if len(s.Colors) == 0 {
			return nil, fmt.Errorf("stage %s has no palette", s.ID)
		}
		b = core.NewBoard(s.Width, s.Height)
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				b.Put(core.P(x, y), core.NewBlock(s.Colors[rng.Intn(len(s.Colors))]))
			}
		}
	}

	for _, ob := range s.Obstacles {
		if !b.InBounds(ob.Pos) {
			return nil, fmt.Errorf("stage %s: obstacle at %v is outside the board", s.ID, ob.Pos)
		}
		color := ob.Color
		if !ob.HasColor {
			color = s.obstacleColor(b, ob.Pos, rng)
		}
		b.Remove(ob.Pos)
		b.Put(ob.Pos, core.NewKindBlock(color, ob.Kind, ob.Threshold))
	}
	return b, nil
}

// obstacleColor keeps the color of a matchable block already at p, or draws one.
func (s *Stage) obstacleColor(b *core.Board, p core.Pos, rng *rand.Rand) core.Color {
	if blk := b.At(p); blk != nil && blk.Kind.Matchable() {
		return blk.Color
	}
	if len(s.Colors) == 0 {
		return core.ColorRed
	}
	return s.Colors[rng.Intn(len(s.Colors))]
}

// HasInventory reports whether the stage limits item uses.
func (s *Stage) HasInventory() bool {
	return s.Items != nil
}

// RandomStageID identifies generated stages in scores and results.
const RandomStageID = "random"

// Random returns a stage with no layout or obstacles: a w x h board filled
// from colors using seed.
func Random(w, h int, colors []core.Color, seed int64) Stage {
	var s Stage
	s.ID = RandomStageID
	s.Name = fmt.Sprintf("Random %dx%d", w, h)
	s.Width, s.Height = w, h
	s.Colors = append([]core.Color(nil), colors...)
	s.Seed = seed
	return s
}
