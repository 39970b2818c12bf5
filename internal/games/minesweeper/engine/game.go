package engine

import "math/rand"

// Change is a cell whose displayable state changed during one engine call.
type Change struct {
	Pos
	Depth int // Cascade distance from the cell that started the reveal
}

// RevealResult reports the outcome of Reveal and Chord.
type RevealResult struct {
	// Changes lists affected cells in breadth-first cascade order. On a loss
	// the exploded cell comes first, followed by the other mines row-major.
	// On a win the mines flagged automatically are appended last.
	Changes []Change

	Phase    Phase
	Started  bool // This call moved the round from Ready to Playing
	Exploded bool // A mine was revealed by this call
}

// FlagResult reports the outcome of ToggleFlag.
type FlagResult struct {
	Pos       Pos
	Changed   bool
	Flagged   bool
	Remaining int // RemainingMineEstimate after the call
}

// Game wraps a Board with the round's phase.
type Game struct {
	board       *Board
	phase       Phase
	started     bool
	exploded    Pos
	hasExploded bool
}

// NewGame creates a round on a freshly mined board.
func NewGame(width, height, mines int, rng *rand.Rand) (*Game, error) {
	b, err := NewBoard(width, height, mines, rng)
	if err != nil {
		return nil, err
	}
	return NewGameFromBoard(b), nil
}

// NewGameFromBoard starts a round on an existing, untouched board.
func NewGameFromBoard(b *Board) *Game {
	return &Game{board: b, phase: PhaseReady}
}

// Reset discards the round and deals a new board of the same size.
func (g *Game) Reset(rng *rand.Rand) error {
	b, err := NewBoard(g.board.width, g.board.height, g.board.mineCount, rng)
	if err != nil {
		return err
	}
	*g = Game{board: b, phase: PhaseReady}
	return nil
}

// Reveal opens the cell at (x, y). A zero-count cell cascades to its whole
// connected zero region and that region's numbered border in this call.
func (g *Game) Reveal(x, y int) RevealResult {
	res := RevealResult{Phase: g.phase}
	p := Pos{X: x, Y: y}
	if !g.revealable(p) {
		return res
	}

	if g.phase == PhaseReady {
		g.phase = PhasePlaying
		g.started = true
		res.Started = true
	}

	res.Changes = g.finish(g.open(p, nil))
	res.Phase = g.phase
	res.Exploded = g.phase == PhaseLost
	return res
}

// Chord reveals every unflagged neighbor of a revealed numbered cell whose
// flagged neighbor count matches its number.
func (g *Game) Chord(x, y int) RevealResult {
	res := RevealResult{Phase: g.phase}
	if g.phase != PhasePlaying || !g.board.InBounds(x, y) {
		return res
	}

	p := Pos{X: x, Y: y}
	c := g.board.cell(p)
	if !c.IsRevealed || c.IsMine || c.NeighborMines == 0 {
		return res
	}

	flags := 0
	g.board.forEachNeighbor(p, func(n Pos) {
		if g.board.cell(n).IsFlagged {
			flags++
		}
	})
	if flags != c.NeighborMines {
		return res
	}

	var changes []Change
	g.board.forEachNeighbor(p, func(n Pos) {
		changes = g.open(n, changes)
	})

	res.Changes = g.finish(changes)
	res.Phase = g.phase
	res.Exploded = g.phase == PhaseLost
	return res
}

// ToggleFlag flips the flag on an unrevealed cell. Flags never reveal,
// never start the round and never decide it.
func (g *Game) ToggleFlag(x, y int) FlagResult {
	p := Pos{X: x, Y: y}
	res := FlagResult{Pos: p, Remaining: g.RemainingMineEstimate()}
	if g.phase.Over() || !g.board.InBounds(x, y) {
		return res
	}

	c := g.board.cell(p)
	if c.IsRevealed {
		res.Flagged = c.IsFlagged
		return res
	}

	c.IsFlagged = !c.IsFlagged
	if c.IsFlagged {
		g.board.flagged++
	} else {
		g.board.flagged--
	}

	res.Changed = true
	res.Flagged = c.IsFlagged
	res.Remaining = g.RemainingMineEstimate()
	return res
}

// RevealAllMines marks every mine revealed after a loss and returns the
// mines in row-major order. revealedSafeCount is not affected. Correctly
// flagged mines keep their flag. In any other phase it does nothing.
func (g *Game) RevealAllMines() []Pos {
	if g.phase != PhaseLost {
		return nil
	}
	mines := g.board.Mines()
	for _, m := range mines {
		g.board.cell(m).IsRevealed = true
	}
	return mines
}

func (g *Game) revealable(p Pos) bool {
	if g.phase.Over() || !g.board.InBounds(p.X, p.Y) {
		return false
	}
	c := g.board.cell(p)
	return !c.IsRevealed && !c.IsFlagged
}

// open reveals start and, when it has no mined neighbors, flood-fills with a
// FIFO worklist. The win condition is checked after every revealed cell.
func (g *Game) open(start Pos, changes []Change) []Change {
	if !g.revealable(start) {
		return changes
	}

	c := g.board.cell(start)
	c.IsRevealed = true
	changes = append(changes, Change{Pos: start})

	if c.IsMine {
		g.phase = PhaseLost
		g.exploded = start
		g.hasExploded = true
		for _, m := range g.RevealAllMines() {
			if m != start {
				changes = append(changes, Change{Pos: m})
			}
		}
		return changes
	}

	g.board.revealedSafe++
	g.checkWin()
	if c.NeighborMines > 0 {
		return changes
	}

	queue := []Change{{Pos: start}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		g.board.forEachNeighbor(cur.Pos, func(n Pos) {
			if !g.revealable(n) {
				return
			}
			nc := g.board.cell(n)
			nc.IsRevealed = true
			g.board.revealedSafe++

			next := Change{Pos: n, Depth: cur.Depth + 1}
			changes = append(changes, next)
			g.checkWin()

			if nc.NeighborMines == 0 {
				queue = append(queue, next)
			}
		})
	}
	return changes
}

func (g *Game) checkWin() {
	if g.phase == PhasePlaying && g.board.revealedSafe == g.board.SafeCells() {
		g.phase = PhaseWon
	}
}

// finish applies end-of-call effects. A win flags the remaining mines so the
// counter reads zero.
func (g *Game) finish(changes []Change) []Change {
	if g.phase != PhaseWon {
		return changes
	}
	for _, m := range g.board.Mines() {
		c := g.board.cell(m)
		if c.IsFlagged {
			continue
		}
		c.IsFlagged = true
		g.board.flagged++
		changes = append(changes, Change{Pos: m})
	}
	return changes
}

// Board returns the underlying board for read-only queries.
func (g *Game) Board() *Board {
	return g.board
}

// CellState returns a copy of the cell at (x, y).
func (g *Game) CellState(x, y int) (Cell, bool) {
	return g.board.Cell(x, y)
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	return g.phase
}

// FirstActionTaken reports whether a reveal has been accepted this round.
func (g *Game) FirstActionTaken() bool {
	return g.started
}

// Exploded returns the mine that ended the round, if any.
func (g *Game) Exploded() (Pos, bool) {
	return g.exploded, g.hasExploded
}

// Width returns the board width.
func (g *Game) Width() int {
	return g.board.width
}

// Height returns the board height.
func (g *Game) Height() int {
	return g.board.height
}

// MineCount returns the number of mines.
func (g *Game) MineCount() int {
	return g.board.mineCount
}

// FlaggedCount returns the number of flagged cells.
func (g *Game) FlaggedCount() int {
	return g.board.flagged
}

// RevealedSafeCount returns the number of revealed safe cells.
func (g *Game) RevealedSafeCount() int {
	return g.board.revealedSafe
}

// RemainingMineEstimate returns max(0, mines - flags).
func (g *Game) RemainingMineEstimate() int {
	return max(0, g.board.mineCount-g.board.flagged)
}
