// Package layouts loads hand-made mine layouts from YAML files. A layout
// plays the same board every round, which suits puzzles and practice.
package layouts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/layouts/formats"
)

// IDPrefix is prepended to layout IDs to form registry IDs.
const IDPrefix = "layout-"

// Layout is a loaded layout file.
type Layout struct {
	formats.Layout
	FilePath string
}

// GameID returns the registry and score key of the layout.
func (l Layout) GameID() string {
	return IDPrefix + l.ID
}

// Summary describes the board like a preset summary.
func (l Layout) Summary() string {
	return fmt.Sprintf("%dx%d, %d mines", l.Width, l.Height, len(l.Mines))
}

// Loader handles loading layouts from a directory.
type Loader struct {
	Root   string
	Limits config.CustomLimits
}

// NewLoader creates a loader that rejects boards beyond lim.
func NewLoader(root string, lim config.CustomLimits) *Loader {
	return &Loader{Root: root, Limits: lim}
}

// LoadAll recursively loads every layout file under Root, sorted by ID.
// Invalid and oversized files are skipped; a missing Root yields no layouts.
func (l *Loader) LoadAll() ([]Layout, error) {
	var out []Layout

	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSupportedExtension(strings.ToLower(filepath.Ext(path))) {
			return nil
		}

		layout, err := l.LoadFile(path)
		if err != nil {
			return nil
		}
		out = append(out, layout)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", l.Root, err)
	}

	slices.SortFunc(out, func(a, b Layout) int {
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

// LoadFile loads a single layout file.
func (l *Loader) LoadFile(path string) (Layout, error) {
	return LoadFile(path, l.Limits)
}

// LoadFile loads a single layout file, rejecting boards beyond lim.
func LoadFile(path string, lim config.CustomLimits) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("reading file %s: %w", path, err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !isSupportedExtension(ext) {
		return Layout{}, fmt.Errorf("parsing file %s: unsupported extension %q", path, ext)
	}

	parsed, err := formats.ParseYAML(data, lim)
	if err != nil {
		return Layout{}, fmt.Errorf("parsing file %s: %w", path, err)
	}
	return Layout{Layout: parsed, FilePath: path}, nil
}

// LoadByID loads a specific layout by ID.
func (l *Loader) LoadByID(id string) (Layout, error) {
	all, err := l.LoadAll()
	if err != nil {
		return Layout{}, err
	}
	for _, layout := range all {
		if layout.ID == id {
			return layout, nil
		}
	}
	return Layout{}, fmt.Errorf("layout not found: %s", id)
}

// LoadDirs loads every directory in order. When two directories hold the
// same ID, the earlier directory wins. A directory that cannot be walked is
// skipped; its error is joined into the returned error while the layouts
// from the other directories are still returned.
func LoadDirs(lim config.CustomLimits, dirs ...string) ([]Layout, error) {
	seen := make(map[string]bool)
	var (
		out  []Layout
		errs []error
	)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		found, err := NewLoader(dir, lim).LoadAll()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, layout := range found {
			if !seen[layout.ID] {
				seen[layout.ID] = true
				out = append(out, layout)
			}
		}
	}
	return out, errors.Join(errs...)
}

func isSupportedExtension(ext string) bool {
	return slices.Contains(formats.FormatExtensions(), ext)
}
