package stages

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"github.com/vovakirdan/samegame/internal/games/samegame/stages/formats"
)

func TestDirLoaderSkipsInvalidFiles(t *testing.T) {
	loader := NewDirLoader("testdata/stages")

	stages, err := loader.LoadAll()
	require.NoError(t, err)

	// alpha.yaml has a malformed layout and notes.txt is not a stage.
	ids := make([]string, len(stages))
	for i, s := range stages {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"beta", "gamma"}, ids)
	assert.Equal(t, "testdata/stages/nested/gamma.yaml", stages[1].FilePath)
}

func TestDirLoaderLoadByID(t *testing.T) {
	loader := NewDirLoader("testdata/stages")

	s, err := loader.LoadByID("beta")
	require.NoError(t, err)
	assert.Equal(t, "beta", s.Name, "name defaults to id")
	assert.Equal(t, 4, s.Width)

	_, err = loader.LoadByID("alpha")
	assert.ErrorContains(t, err, "stage not found")

	_, err = loader.LoadFile("alpha.yaml")
	assert.ErrorContains(t, err, "parsing file testdata/stages/alpha.yaml")
}

func TestMapFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"b.yaml":   {Data: []byte("id: zz\nsize: {w: 1, h: 1}\ncolors: [red]\n")},
		"a.yml":    {Data: []byte("id: aa\nsize: {w: 1, h: 1}\ncolors: [blue]\n")},
		"skip.txt": {Data: []byte("id: nope")},
	}
	ids, err := NewLoader(fsys).ListIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"aa", "zz"}, ids)
}

func TestBuiltinStagesBuildBoards(t *testing.T) {
	stages, err := Builtin().LoadAll()
	require.NoError(t, err)
	require.Len(t, stages, 5)

	for _, s := range stages {
		t.Run(s.ID, func(t *testing.T) {
			b, err := s.NewBoard()
			require.NoError(t, err)
			assert.Equal(t, s.Width, b.W)
			assert.Equal(t, s.Height, b.H)
			require.NoError(t, b.Validate())
			assert.NotEmpty(t, s.Metadata["difficulty"])
		})
	}
}

func TestStageBoardFromLayout(t *testing.T) {
	s, err := NewDirLoader("testdata/stages").LoadByID("gamma")
	require.NoError(t, err)

	b, err := s.NewBoard()
	require.NoError(t, err)
	assert.Equal(t, []string{"R R", "@ #"}, b.Rows())
}

func TestStageBoardRandomFillAndObstacles(t *testing.T) {
	s, err := NewDirLoader("testdata/stages").LoadByID("beta")
	require.NoError(t, err)

	first, err := s.NewBoard()
	require.NoError(t, err)
	second, err := s.NewBoard()
	require.NoError(t, err)
	assert.True(t, first.Equal(second), "same seed must give the same board")

	assert.Equal(t, 12, first.Count())
	assert.Equal(t, core.KindAnchor, first.At(core.P(0, 2)).Kind)
	counter := first.At(core.P(3, 0))
	assert.Equal(t, core.KindCounterAtLeast, counter.Kind)
	assert.Equal(t, 3, counter.Threshold)
	assert.Equal(t, core.ColorGreen, counter.Color)

	for _, p := range first.Occupied() {
		blk := first.At(p)
		if blk.Kind == core.KindNormal {
			assert.Contains(t, []core.Color{core.ColorRed, core.ColorBlue}, blk.Color)
		}
	}
}

func TestStageBoardSeedOverride(t *testing.T) {
	s := Stage{}
	s.ID = "wide"
	s.Width, s.Height = 12, 12
	s.Colors = []core.Color{core.ColorRed, core.ColorGreen, core.ColorBlue, core.ColorYellow}

	a, err := s.BoardWithSeed(1)
	require.NoError(t, err)
	b, err := s.BoardWithSeed(2)
	require.NoError(t, err)
	assert.False(t, a.Equal(b), "different seeds should differ on a 144 cell board")
	assert.False(t, s.HasInventory())
}

func TestStageBoardWithoutPalette(t *testing.T) {
	s := Stage{}
	s.ID = "empty"
	s.Width, s.Height = 2, 2
	_, err := s.NewBoard()
	assert.ErrorContains(t, err, "no palette")
}

func TestRandomStage(t *testing.T) {
	s := Random(5, 4, []core.Color{core.ColorRed, core.ColorPurple}, 3)
	require.NoError(t, formats.Validate(s.Stage))

	b, err := s.NewBoard()
	require.NoError(t, err)
	assert.Equal(t, 20, b.Count())
	assert.Equal(t, RandomStageID, s.ID)
	assert.Equal(t, "Random 5x4", s.Name)
}
