package engine

import (
	"fmt"
	"strings"
)

// Snapshot is a deep copy of a round's observable state. It shares no memory
// with the Game and may be handed to other goroutines.
type Snapshot struct {
	Width        int
	Height       int
	Mines        int
	Phase        Phase
	Started      bool
	Flagged      int
	RevealedSafe int
	Remaining    int
	Exploded     Pos
	HasExploded  bool
	Cells        [][]Cell // [row][col]
}

// Snapshot captures the current state of the round.
func (g *Game) Snapshot() Snapshot {
	cells := make([][]Cell, g.board.height)
	for y := range cells {
		cells[y] = make([]Cell, g.board.width)
		copy(cells[y], g.board.cells[y])
	}

	return Snapshot{
		Width:        g.board.width,
		Height:       g.board.height,
		Mines:        g.board.mineCount,
		Phase:        g.phase,
		Started:      g.started,
		Flagged:      g.board.flagged,
		RevealedSafe: g.board.revealedSafe,
		Remaining:    g.RemainingMineEstimate(),
		Exploded:     g.exploded,
		HasExploded:  g.hasExploded,
		Cells:        cells,
	}
}

// Glyphs used by Format.
const (
	GlyphHidden   = '#'
	GlyphFlag     = 'F'
	GlyphMine     = '*'
	GlyphExploded = 'X'
	GlyphEmpty    = '.'
)

// Glyph returns the plain-text symbol for a cell.
func Glyph(c Cell, exploded bool) rune {
	switch {
	case c.IsFlagged:
		return GlyphFlag
	case !c.IsRevealed:
		return GlyphHidden
	case c.IsMine && exploded:
		return GlyphExploded
	case c.IsMine:
		return GlyphMine
	case c.NeighborMines == 0:
		return GlyphEmpty
	default:
		return rune('0' + c.NeighborMines)
	}
}

// Format renders the snapshot's grid as text, one newline-terminated line
// per row.
func Format(s Snapshot) string {
	var sb strings.Builder
	sb.Grow((s.Width + 1) * s.Height)

	for y, row := range s.Cells {
		for x, c := range row {
			exploded := s.HasExploded && s.Exploded == Pos{X: x, Y: y}
			sb.WriteRune(Glyph(c, exploded))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// MaxCounter is the largest value a three-digit counter can show.
const MaxCounter = 999

// FormatCounter clamps n to [0, MaxCounter] and zero-pads it to three digits.
func FormatCounter(n int) string {
	return fmt.Sprintf("%03d", min(max(n, 0), MaxCounter))
}
