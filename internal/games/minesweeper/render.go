package minesweeper

import (
	"fmt"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
)

const helpLine = "arrows move  space reveal  f flag  c chord  r new  esc menu  q quit"

// numberColors follows the classic palette, indexed by neighbor count.
var numberColors = [9]core.Color{
	core.ColorDefault,
	core.ColorBrightBlue,
	core.ColorGreen,
	core.ColorBrightRed,
	core.ColorBlue,
	core.ColorMaroon,
	core.ColorTeal,
	core.ColorWhite,
	core.ColorGray,
}

// Face returns the status face for a phase.
func Face(p engine.Phase) string {
	switch p {
	case engine.PhaseWon:
		return "B)"
	case engine.PhaseLost:
		return "X("
	default:
		return ":)"
	}
}

// Render draws the HUD, the board and the status lines.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if !g.layout.fits {
		g.renderTooSmall(dst)
		return
	}

	g.renderHUD(dst)
	g.renderBoard(dst)
	g.renderFooter(dst)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y-1, "Window too small", core.ColorYellow)
	need := fmt.Sprintf("%s needs %dx%d", g.Title(), g.layout.box.W, g.layout.box.H+hudRows+footerRows)
	dst.DrawTextCentered(y, need, core.ColorDefault)
	dst.DrawTextCentered(y+1, "Please resize terminal", core.ColorGray)
}

func (g *Game) renderHUD(dst *core.Screen) {
	box := g.layout.box
	y := box.Y - hudRows

	title := fmt.Sprintf("MINESWEEPER  %s", g.Title())
	dst.DrawTextCentered(y, title, core.ColorBrightYellow)

	mines := engine.FormatCounter(g.board.RemainingMineEstimate())
	clock := engine.FormatCounter(g.clock.Seconds())
	face := Face(g.board.Phase())

	dst.DrawTextColor(box.X, y+1, mines, core.ColorBrightRed)
	dst.DrawTextColor(box.X+(box.W-len(face))/2, y+1, face, faceColor(g.board.Phase()))
	dst.DrawTextColor(box.Right()-len(clock), y+1, clock, core.ColorBrightRed)
}

func faceColor(p engine.Phase) core.Color {
	switch p {
	case engine.PhaseWon:
		return core.ColorBrightGreen
	case engine.PhaseLost:
		return core.ColorRed
	default:
		return core.ColorYellow
	}
}

func (g *Game) renderBoard(dst *core.Screen) {
	dst.DrawBox(g.layout.box, core.ColorGray)

	snap := g.board.Snapshot()
	for y, row := range snap.Cells {
		for x, c := range row {
			p := engine.Pos{X: x, Y: y}
			if _, pending := g.cascade[p]; pending {
				c.IsRevealed = false
			}
			exploded := snap.HasExploded && snap.Exploded == p
			cell := core.Cell{
				Rune:  engine.Glyph(c, exploded),
				Color: cellColor(c, exploded, snap.Phase),
			}
			if snap.Phase == engine.PhaseLost && c.IsFlagged && !c.IsMine {
				cell.Rune = 'x'
				cell.Color = core.ColorRed
			}

			sx, sy := g.layout.cellOrigin(x, y)
			if p == g.cursor && !snap.Phase.Over() {
				cell.Reverse = true
			}
			dst.SetCell(sx, sy, cell)
		}
	}
}

func cellColor(c engine.Cell, exploded bool, phase engine.Phase) core.Color {
	switch {
	case c.IsFlagged && phase == engine.PhaseWon:
		return core.ColorBrightGreen
	case c.IsFlagged:
		return core.ColorBrightRed
	case !c.IsRevealed:
		return core.ColorGray
	case exploded:
		return core.ColorBrightRed
	case c.IsMine:
		return core.ColorWhite
	case c.NeighborMines == 0:
		return core.ColorDarkGray
	default:
		return numberColors[c.NeighborMines]
	}
}

func (g *Game) renderFooter(dst *core.Screen) {
	y := g.layout.box.Bottom()

	msg := g.message
	switch g.board.Phase() {
	case engine.PhaseReady:
		if msg == "" {
			msg = "Reveal any cell to start"
		}
	case engine.PhaseWon, engine.PhaseLost:
		msg += "  r: new game  esc: menu"
	}
	dst.DrawTextCentered(y, msg, statusColor(g.board.Phase()))
	dst.DrawTextCentered(y+1, helpLine, core.ColorDarkGray)
}

func statusColor(p engine.Phase) core.Color {
	switch p {
	case engine.PhaseWon:
		return core.ColorBrightGreen
	case engine.PhaseLost:
		return core.ColorBrightRed
	default:
		return core.ColorDefault
	}
}
