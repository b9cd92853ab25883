// Package formats provides stage file format parsers.
package formats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vovakirdan/samegame/internal/games/samegame/core"
	"gopkg.in/yaml.v3"
)

// ValidationError contains details about a rejected stage file.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// YAMLStage represents the YAML structure for a stage file.
type YAMLStage struct {
	ID        string            `yaml:"id"`
	Name      string            `yaml:"name"`
	Size      YAMLSize          `yaml:"size"`
	Colors    []string          `yaml:"colors,omitempty"`
	Seed      int64             `yaml:"seed,omitempty"`
	Layout    []string          `yaml:"layout,omitempty"`
	Obstacles []YAMLObstacle    `yaml:"obstacles,omitempty"`
	Target    int               `yaml:"target,omitempty"`
	Items     map[string]int    `yaml:"items,omitempty"`
	Metadata  map[string]string `yaml:"metadata,omitempty"`
}

// YAMLSize represents board dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLObstacle places one obstacle block.
type YAMLObstacle struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Kind string `yaml:"kind"`
	N    int    `yaml:"n,omitempty"` // Counter threshold
	C    string `yaml:"c,omitempty"` // Color; defaults to the cell's generated color
}

// Obstacle is a parsed obstacle placement.
type Obstacle struct {
	Pos       core.Pos
	Kind      core.Kind
	Threshold int
	Color     core.Color
	HasColor  bool
}

// Stage represents a parsed stage ready for use.
type Stage struct {
	ID        string
	Name      string
	Width     int
	Height    int
	Colors    []core.Color
	Seed      int64
	Layout    []string
	Obstacles []Obstacle
	Target    int
	Items     map[core.Item]int // Starting inventory; nil means unlimited
	Metadata  map[string]string
}

// ParseYAML parses and validates a YAML stage file.
func ParseYAML(data []byte) (Stage, error) {
	var ys YAMLStage
	if err := yaml.Unmarshal(data, &ys); err != nil {
		return Stage{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	stage := Stage{
		ID:       strings.TrimSpace(ys.ID),
		Name:     ys.Name,
		Width:    ys.Size.W,
		Height:   ys.Size.H,
		Seed:     ys.Seed,
		Layout:   ys.Layout,
		Target:   ys.Target,
		Metadata: ys.Metadata,
	}
	if stage.Name == "" {
		stage.Name = stage.ID
	}

	// Parse palette
	for _, name := range ys.Colors {
		c, ok := core.ParseColor(name)
		if !ok {
			return Stage{}, ValidationError{
				Code:    "INVALID_COLOR",
				Message: fmt.Sprintf("unknown color %q", name),
			}
		}
		stage.Colors = append(stage.Colors, c)
	}

	// Parse obstacles
	for i, yo := range ys.Obstacles {
		kind, ok := core.ParseKind(yo.Kind)
		if !ok {
			return Stage{}, ValidationError{
				Code:    "INVALID_KIND",
				Message: fmt.Sprintf("obstacle %d: unknown kind %q", i, yo.Kind),
			}
		}
		ob := Obstacle{Pos: core.P(yo.X, yo.Y), Kind: kind, Threshold: yo.N}
		if yo.C != "" {
			c, ok := core.ParseColor(yo.C)
			if !ok {
				return Stage{}, ValidationError{
					Code:    "INVALID_COLOR",
					Message: fmt.Sprintf("obstacle %d: unknown color %q", i, yo.C),
				}
			}
			ob.Color, ob.HasColor = c, true
		}
		stage.Obstacles = append(stage.Obstacles, ob)
	}

	// Parse inventory
	if ys.Items != nil {
		stage.Items = make(map[core.Item]int, len(ys.Items))
		names := make([]string, 0, len(ys.Items))
		for name := range ys.Items {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			item, ok := core.ParseItem(name)
			if !ok {
				return Stage{}, ValidationError{
					Code:    "INVALID_ITEM",
					Message: fmt.Sprintf("unknown item %q", name),
				}
			}
			stage.Items[item] = ys.Items[name]
		}
	}

	if err := Validate(stage); err != nil {
		return Stage{}, err
	}
	return stage, nil
}

// Validate checks a parsed stage for structural problems.
// Checks:
//   - ID present and board size positive
//   - A palette or an explicit layout matching the size
//   - Obstacles in bounds, unique, with a threshold when the kind needs one
//   - Item counts and target not negative
func Validate(s Stage) error {
	if s.ID == "" {
		return ValidationError{Code: "MISSING_ID", Message: "stage has no id"}
	}
	if s.Width <= 0 || s.Height <= 0 {
		return ValidationError{
			Code:    "INVALID_SIZE",
			Message: fmt.Sprintf("board size %dx%d must be positive", s.Width, s.Height),
		}
	}

	if len(s.Layout) > 0 {
		b, err := core.ParseBoard(s.Layout)
		if err != nil {
			return ValidationError{Code: "INVALID_LAYOUT", Message: err.Error()}
		}
		if b.W != s.Width || b.H != s.Height {
			return ValidationError{
				Code:    "LAYOUT_SIZE",
				Message: fmt.Sprintf("layout is %dx%d, size says %dx%d", b.W, b.H, s.Width, s.Height),
			}
		}
	} else if len(s.Colors) == 0 {
		return ValidationError{Code: "NO_COLORS", Message: "stage needs a palette or a layout"}
	}

	seen := make(map[core.Pos]bool, len(s.Obstacles))
	for i, ob := range s.Obstacles {
		if ob.Pos.X < 0 || ob.Pos.X >= s.Width || ob.Pos.Y < 0 || ob.Pos.Y >= s.Height {
			return ValidationError{
				Code:    "OUT_OF_BOUNDS",
				Message: fmt.Sprintf("obstacle %d at %v is outside the board", i, ob.Pos),
			}
		}
		if seen[ob.Pos] {
			return ValidationError{
				Code:    "DUPLICATE_OBSTACLE",
				Message: fmt.Sprintf("two obstacles at %v", ob.Pos),
			}
		}
		seen[ob.Pos] = true
		if ob.Kind.HasThreshold() && ob.Threshold < 1 {
			return ValidationError{
				Code:    "INVALID_THRESHOLD",
				Message: fmt.Sprintf("obstacle %d: %s needs n >= 1", i, ob.Kind),
			}
		}
	}

	for item, n := range s.Items {
		if n < 0 {
			return ValidationError{
				Code:    "INVALID_ITEM",
				Message: fmt.Sprintf("item %s has negative count %d", item, n),
			}
		}
	}
	if s.Target < 0 {
		return ValidationError{Code: "INVALID_TARGET", Message: "target score must not be negative"}
	}
	return nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
