// Package formats provides layout file parsers.
package formats

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
)

// MineRune marks a mine in the rows form. Any other rune is a safe cell.
const MineRune = '*'

// ErrRaggedRows is returned when the rows of a layout differ in length.
var ErrRaggedRows = errors.New("rows have different lengths")

// YAMLLayout is the file structure. A layout gives either rows, drawn with
// MineRune for mines, or a size plus a mine list.
type YAMLLayout struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Rows  []string   `yaml:"rows,omitempty"`
	Size  YAMLSize   `yaml:"size,omitempty"`
	Mines []YAMLMine `yaml:"mines,omitempty"`
}

// YAMLSize represents board dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLMine is one mine position.
type YAMLMine struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Layout is a parsed, validated layout.
type Layout struct {
	ID     string
	Name   string
	Width  int
	Height int
	Mines  []engine.Pos
}

// ParseYAML parses a layout file and checks it builds a valid board within
// lim. Oversized boards are rejected before any board is built.
func ParseYAML(data []byte, lim config.CustomLimits) (Layout, error) {
	var yl YAMLLayout
	if err := yaml.Unmarshal(data, &yl); err != nil {
		return Layout{}, fmt.Errorf("yaml unmarshal: %w", err)
	}
	if yl.ID == "" {
		return Layout{}, errors.New("layout has no id")
	}

	l := Layout{ID: yl.ID, Name: yl.Name}
	if l.Name == "" {
		l.Name = yl.ID
	}

	if len(yl.Rows) > 0 {
		l.Height = len(yl.Rows)
		l.Width = len([]rune(yl.Rows[0]))
		if err := lim.Check(l.Width, l.Height); err != nil {
			return Layout{}, err
		}
		for y, row := range yl.Rows {
			runes := []rune(row)
			if len(runes) != l.Width {
				return Layout{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, y, len(runes), l.Width)
			}
			for x, r := range runes {
				if r == MineRune {
					l.Mines = append(l.Mines, engine.Pos{X: x, Y: y})
				}
			}
		}
	} else {
		l.Width, l.Height = yl.Size.W, yl.Size.H
		if err := lim.Check(l.Width, l.Height); err != nil {
			return Layout{}, err
		}
		for _, m := range yl.Mines {
			l.Mines = append(l.Mines, engine.Pos{X: m.X, Y: m.Y})
		}
	}

	if _, err := l.Board(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}

// Board builds a fresh board from the layout.
func (l Layout) Board() (*engine.Board, error) {
	return engine.NewBoardWithMines(l.Width, l.Height, l.Mines)
}
