package minesweeper

import (
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
)

const (
	hudRows    = 2 // Title and counters above the board box
	footerRows = 2 // Status and help lines below the board box
)

// layout places the board on the screen. The board sits in a box; each
// cell is cellW columns wide with the glyph in the last column, so a
// two-column layout reads " 1 2 3 " inside the box.
type layout struct {
	box    core.Rect // Border, inclusive
	grid   core.Rect // Cell area inside the border
	cellW  int
	fits   bool
	width  int
	height int
}

// newLayout centers a w x h board on the screen. A preferred width of 2
// falls back to 1 when the wide board does not fit.
func newLayout(screenW, screenH, w, h, preferredCellW int) layout {
	for cw := preferredCellW; cw >= 1; cw-- {
		l := layoutFor(screenW, screenH, w, h, cw)
		if l.fits || cw == 1 {
			return l
		}
	}
	return layoutFor(screenW, screenH, w, h, 1)
}

func layoutFor(screenW, screenH, w, h, cw int) layout {
	innerW := (cw - 1) + w*cw
	boxW := innerW + 2
	boxH := h + 2
	totalH := hudRows + boxH + footerRows

	boxX := max(0, (screenW-boxW)/2)
	boxY := hudRows
	if extra := screenH - totalH; extra > 1 {
		boxY += extra / 2
	}

	box := core.NewRect(boxX, boxY, boxW, boxH)
	return layout{
		box:    box,
		grid:   box.Inset(1),
		cellW:  cw,
		fits:   boxW <= screenW && totalH <= screenH,
		width:  w,
		height: h,
	}
}

// cellOrigin returns the screen column and row where the glyph of cell
// (x, y) is drawn.
func (l layout) cellOrigin(x, y int) (int, int) {
	return l.grid.X + (l.cellW - 1) + x*l.cellW, l.grid.Y + y
}

// cellAt maps a screen position to a board cell. Padding columns belong to
// the cell they pad.
func (l layout) cellAt(sx, sy int) (engine.Pos, bool) {
	if !l.grid.Contains(sx, sy) {
		return engine.Pos{}, false
	}
	off := sx - l.grid.X - (l.cellW - 1)
	if off < 0 {
		off = 0
	}
	x := off / l.cellW
	y := sy - l.grid.Y
	if x >= l.width || y >= l.height {
		return engine.Pos{}, false
	}
	return engine.Pos{X: x, Y: y}, true
}
