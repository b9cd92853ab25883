// Package stages provides stage loading and board construction.
// This package depends on core but core does not depend on stages.
package stages

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/samegame/internal/games/samegame/stages/formats"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader handles loading stages from a file system.
type Loader struct {
	fsys fs.FS
	root string // Display prefix for FilePath
}

// NewLoader creates a loader over any file system.
func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys}
}

// NewDirLoader creates a loader for a directory on disk.
func NewDirLoader(dir string) *Loader {
	return &Loader{fsys: os.DirFS(dir), root: dir}
}

// Builtin returns a loader for the stages compiled into the binary.
func Builtin() *Loader {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		// The embed pattern guarantees the directory exists.
		panic(err)
	}
	return &Loader{fsys: sub, root: "builtin"}
}

// LoadAll recursively scans and loads all stage files.
// Files that fail to parse are skipped. Returns stages sorted by ID.
func (l *Loader) LoadAll() ([]Stage, error) {
	var stages []Stage

	err := fs.WalkDir(l.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isSupportedExtension(strings.ToLower(path.Ext(p))) {
			return nil
		}

		stage, err := l.LoadFile(p)
		if err != nil {
			// Skip invalid files
			return nil
		}
		stages = append(stages, stage)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking stages %s: %w", l.display("."), err)
	}

	sort.SliceStable(stages, func(i, j int) bool {
		return stages[i].ID < stages[j].ID
	})
	return stages, nil
}

// LoadFile loads a single stage file, by its path inside the loader's file system.
func (l *Loader) LoadFile(p string) (Stage, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return Stage{}, fmt.Errorf("reading file %s: %w", l.display(p), err)
	}

	parsed, err := parseByExtension(data, strings.ToLower(path.Ext(p)))
	if err != nil {
		return Stage{}, fmt.Errorf("parsing file %s: %w", l.display(p), err)
	}
	return Stage{Stage: parsed, FilePath: l.display(p)}, nil
}

// LoadByID loads a specific stage by ID.
func (l *Loader) LoadByID(id string) (Stage, error) {
	stages, err := l.LoadAll()
	if err != nil {
		return Stage{}, err
	}
	for _, s := range stages {
		if s.ID == id {
			return s, nil
		}
	}
	return Stage{}, fmt.Errorf("stage not found: %s", id)
}

// ListIDs returns all stage IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	stages, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(stages))
	for i, s := range stages {
		ids[i] = s.ID
	}
	return ids, nil
}

// display joins p with the loader root for messages.
func (l *Loader) display(p string) string {
	if l.root == "" {
		return p
	}
	return path.Join(l.root, p)
}

// isSupportedExtension checks if extension is supported.
func isSupportedExtension(ext string) bool {
	for _, supported := range formats.FormatExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (formats.Stage, error) {
	switch ext {
	case ".yaml", ".yml":
		return formats.ParseYAML(data)
	default:
		return formats.Stage{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
