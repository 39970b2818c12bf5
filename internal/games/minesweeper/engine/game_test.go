package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripeMines is a 9x9 layout with every mine in the two rightmost columns.
// Columns 0-5 have no mined neighbors and column 6 is entirely numbered.
var stripeMines = []Pos{
	{X: 7, Y: 0}, {X: 8, Y: 1}, {X: 7, Y: 2}, {X: 8, Y: 3}, {X: 7, Y: 4},
	{X: 8, Y: 5}, {X: 7, Y: 6}, {X: 8, Y: 7}, {X: 7, Y: 8}, {X: 8, Y: 0},
}

func newStripeGame(t *testing.T) *Game {
	t.Helper()
	b, err := NewBoardWithMines(9, 9, stripeMines)
	require.NoError(t, err)
	return NewGameFromBoard(b)
}

func revealedSet(g *Game) map[Pos]bool {
	set := make(map[Pos]bool)
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if c, _ := g.CellState(x, y); c.IsRevealed {
				set[Pos{X: x, Y: y}] = true
			}
		}
	}
	return set
}

func changedSet(changes []Change) map[Pos]bool {
	set := make(map[Pos]bool, len(changes))
	for _, c := range changes {
		set[c.Pos] = true
	}
	return set
}

// closure computes the cells a reveal of start must open: the connected
// zero region plus its bordering numbered cells.
func closure(b *Board, start Pos) map[Pos]bool {
	out := map[Pos]bool{start: true}
	stack := []Pos{start}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if c, _ := b.Cell(p.X, p.Y); c.NeighborMines != 0 {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				n := Pos{X: p.X + dx, Y: p.Y + dy}
				if !b.InBounds(n.X, n.Y) || out[n] {
					continue
				}
				out[n] = true
				stack = append(stack, n)
			}
		}
	}
	return out
}

func TestNewGame(t *testing.T) {
	g, err := NewGame(9, 9, 10, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	assert.Equal(t, PhaseReady, g.Phase())
	assert.False(t, g.FirstActionTaken())
	assert.Equal(t, 10, g.MineCount())
	assert.Equal(t, 10, g.RemainingMineEstimate())

	_, err = NewGame(0, 9, 10, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestRevealCascadeStripeLayout(t *testing.T) {
	g := newStripeGame(t)

	res := g.Reveal(0, 0)

	want := make(map[Pos]bool)
	for y := 0; y < 9; y++ {
		for x := 0; x <= 6; x++ {
			want[Pos{X: x, Y: y}] = true
		}
	}

	assert.True(t, res.Started)
	assert.False(t, res.Exploded)
	assert.Equal(t, PhasePlaying, res.Phase)
	assert.Equal(t, want, revealedSet(g))
	assert.Equal(t, want, changedSet(res.Changes))
	assert.Len(t, res.Changes, len(want), "each cell reported once")
	assert.Equal(t, 63, g.RevealedSafeCount())
	assert.Equal(t, Change{Pos: Pos{X: 0, Y: 0}}, res.Changes[0])
}

func TestRevealCascadeDepthsAreBreadthFirst(t *testing.T) {
	g := newStripeGame(t)
	res := g.Reveal(0, 0)

	prev := 0
	for _, c := range res.Changes {
		assert.GreaterOrEqual(t, c.Depth, prev, "depths must not decrease")
		prev = c.Depth
		// Chebyshev distance from the origin equals the BFS depth on an
		// obstacle-free zero region.
		assert.Equal(t, max(c.X, c.Y), c.Depth, "cell (%d, %d)", c.X, c.Y)
	}
}

func TestRevealCascadeMatchesClosure(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		b, err := NewBoard(16, 16, 40, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		var start Pos
		found := false
		for y := 0; y < 16 && !found; y++ {
			for x := 0; x < 16 && !found; x++ {
				if c, _ := b.Cell(x, y); !c.IsMine && c.NeighborMines == 0 {
					start, found = Pos{X: x, Y: y}, true
				}
			}
		}
		if !found {
			continue
		}

		want := closure(b, start)
		g := NewGameFromBoard(b)
		res := g.Reveal(start.X, start.Y)

		require.Equal(t, want, revealedSet(g), "seed %d", seed)
		if res.Phase != PhaseWon {
			require.Equal(t, want, changedSet(res.Changes), "seed %d", seed)
		}
		require.Equal(t, len(want), g.RevealedSafeCount(), "seed %d", seed)
	}
}

func TestRevealNumberedCellDoesNotCascade(t *testing.T) {
	g := newStripeGame(t)

	res := g.Reveal(6, 1)

	assert.Equal(t, []Change{{Pos: Pos{X: 6, Y: 1}}}, res.Changes)
	assert.Equal(t, 1, g.RevealedSafeCount())
	c, _ := g.CellState(6, 1)
	assert.Equal(t, 2, c.NeighborMines)
}

func TestRevealLargeBoardWithoutRecursion(t *testing.T) {
	// A single mine in the corner leaves a huge zero region.
	b, err := NewBoardWithMines(400, 400, []Pos{{X: 399, Y: 399}})
	require.NoError(t, err)
	g := NewGameFromBoard(b)

	res := g.Reveal(0, 0)

	assert.Equal(t, PhaseWon, res.Phase)
	assert.Equal(t, 400*400-1, g.RevealedSafeCount())
}

func TestRevealMineFirstActionLoses(t *testing.T) {
	g := newStripeGame(t)

	res := g.Reveal(7, 0)

	assert.True(t, res.Started)
	assert.True(t, res.Exploded)
	assert.Equal(t, PhaseLost, res.Phase)
	assert.Equal(t, PhaseLost, g.Phase())
	assert.Equal(t, 0, g.RevealedSafeCount())

	exploded, ok := g.Exploded()
	assert.True(t, ok)
	assert.Equal(t, Pos{X: 7, Y: 0}, exploded)

	// Exploded mine first, the rest row-major.
	require.Len(t, res.Changes, 10)
	assert.Equal(t, Pos{X: 7, Y: 0}, res.Changes[0].Pos)
	assert.Equal(t, Pos{X: 8, Y: 0}, res.Changes[1].Pos)
	assert.Equal(t, Pos{X: 7, Y: 8}, res.Changes[9].Pos)

	for _, m := range stripeMines {
		c, _ := g.CellState(m.X, m.Y)
		assert.True(t, c.IsRevealed, "mine (%d, %d) should be revealed", m.X, m.Y)
	}
}

func TestRevealAllMines(t *testing.T) {
	g := newStripeGame(t)
	assert.Nil(t, g.RevealAllMines(), "no effect before a loss")
	assert.Empty(t, revealedSet(g))

	g.Reveal(0, 0)
	assert.Nil(t, g.RevealAllMines(), "no effect while playing")

	g.Reveal(8, 1)
	require.Equal(t, PhaseLost, g.Phase())
	before := g.RevealedSafeCount()

	mines := g.RevealAllMines()
	assert.Equal(t, g.Board().Mines(), mines)
	assert.Equal(t, before, g.RevealedSafeCount())

	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			c, _ := g.CellState(x, y)
			if c.IsMine {
				assert.True(t, c.IsRevealed, "mine (%d, %d)", x, y)
			}
		}
	}
}

func TestRevealAllMinesKeepsCorrectFlags(t *testing.T) {
	g := newStripeGame(t)
	g.ToggleFlag(8, 0)
	g.Reveal(7, 0)

	c, _ := g.CellState(8, 0)
	assert.True(t, c.IsRevealed)
	assert.True(t, c.IsFlagged)
	assert.Equal(t, 1, g.FlaggedCount())
}

func TestRevealLastSafeCellWins(t *testing.T) {
	g := newStripeGame(t)
	g.Reveal(0, 0)

	rest := []Pos{
		{X: 7, Y: 1}, {X: 7, Y: 3}, {X: 7, Y: 5}, {X: 7, Y: 7},
		{X: 8, Y: 2}, {X: 8, Y: 4}, {X: 8, Y: 6},
	}
	for _, p := range rest {
		res := g.Reveal(p.X, p.Y)
		require.Equal(t, PhasePlaying, res.Phase)
	}

	g.ToggleFlag(7, 0) // one correct flag before the win
	res := g.Reveal(8, 8)

	assert.Equal(t, PhaseWon, res.Phase)
	assert.Equal(t, PhaseWon, g.Phase())
	assert.False(t, res.Started)
	assert.Equal(t, 71, g.RevealedSafeCount())
	assert.Equal(t, 0, g.RemainingMineEstimate())
	assert.Equal(t, 10, g.FlaggedCount())

	// The revealed cell plus the nine mines flagged automatically.
	assert.Len(t, res.Changes, 10)
	for _, m := range stripeMines {
		c, _ := g.CellState(m.X, m.Y)
		assert.True(t, c.IsFlagged)
		assert.False(t, c.IsRevealed)
	}
}

func TestWinResolvesEstimateRegardlessOfFlags(t *testing.T) {
	b, err := NewBoardWithMines(2, 1, []Pos{{X: 1, Y: 0}})
	require.NoError(t, err)
	g := NewGameFromBoard(b)

	res := g.Reveal(0, 0)

	assert.Equal(t, PhaseWon, res.Phase)
	assert.True(t, res.Started)
	assert.Equal(t, 0, g.RemainingMineEstimate())
}

func TestFlagsAloneNeverWin(t *testing.T) {
	g := newStripeGame(t)

	for _, m := range stripeMines {
		res := g.ToggleFlag(m.X, m.Y)
		assert.True(t, res.Changed)
		assert.True(t, res.Flagged)
	}

	assert.Equal(t, 0, g.RemainingMineEstimate())
	assert.Equal(t, 10, g.FlaggedCount())
	assert.Equal(t, PhaseReady, g.Phase(), "flagging does not start the round")
	assert.False(t, g.FirstActionTaken())
	assert.Equal(t, 0, g.RevealedSafeCount())
}

func TestToggleFlagTwiceRestores(t *testing.T) {
	g := newStripeGame(t)

	first := g.ToggleFlag(3, 3)
	assert.True(t, first.Changed)
	assert.True(t, first.Flagged)
	assert.Equal(t, 9, first.Remaining)
	assert.Equal(t, 1, g.FlaggedCount())

	second := g.ToggleFlag(3, 3)
	assert.True(t, second.Changed)
	assert.False(t, second.Flagged)
	assert.Equal(t, 10, second.Remaining)
	assert.Equal(t, 0, g.FlaggedCount())

	c, _ := g.CellState(3, 3)
	assert.False(t, c.IsFlagged)
}

func TestRemainingMineEstimateNeverNegative(t *testing.T) {
	g := newStripeGame(t)
	for x := 0; x < 9; x++ {
		g.ToggleFlag(x, 0)
		g.ToggleFlag(x, 1)
	}
	assert.Equal(t, 18, g.FlaggedCount())
	assert.Equal(t, 0, g.RemainingMineEstimate())
}

func TestFlaggedCellBlocksRevealAndCascade(t *testing.T) {
	g := newStripeGame(t)
	g.ToggleFlag(0, 0)

	res := g.Reveal(0, 0)
	assert.Empty(t, res.Changes)
	assert.Equal(t, PhaseReady, g.Phase())

	g.ToggleFlag(3, 3)
	g.Reveal(0, 1)

	c, _ := g.CellState(3, 3)
	assert.False(t, c.IsRevealed, "flagged cells are skipped by the cascade")
	assert.True(t, c.IsFlagged)
	c, _ = g.CellState(0, 0)
	assert.False(t, c.IsRevealed)
	assert.Equal(t, 61, g.RevealedSafeCount())
}

func TestInvalidInputIsNoop(t *testing.T) {
	g := newStripeGame(t)
	g.Reveal(6, 0)
	before := g.Snapshot()

	tests := []struct {
		name string
		call func()
	}{
		{"reveal out of bounds", func() { g.Reveal(-1, 0) }},
		{"reveal far out of bounds", func() { g.Reveal(9, 9) }},
		{"reveal revealed cell", func() { g.Reveal(6, 0) }},
		{"flag revealed cell", func() { g.ToggleFlag(6, 0) }},
		{"flag out of bounds", func() { g.ToggleFlag(0, 42) }},
		{"chord out of bounds", func() { g.Chord(100, 0) }},
		{"chord hidden cell", func() { g.Chord(0, 0) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.call()
			assert.Equal(t, before, g.Snapshot())
		})
	}
}

func TestTerminalPhaseIgnoresInput(t *testing.T) {
	finished := map[string]func(t *testing.T) *Game{
		"lost": func(t *testing.T) *Game {
			g := newStripeGame(t)
			g.Reveal(7, 0)
			return g
		},
		"won": func(t *testing.T) *Game {
			b, err := NewBoardWithMines(3, 1, []Pos{{X: 2, Y: 0}})
			require.NoError(t, err)
			g := NewGameFromBoard(b)
			g.Reveal(0, 0)
			return g
		},
	}

	for name, build := range finished {
		t.Run(name, func(t *testing.T) {
			g := build(t)
			require.True(t, g.Phase().Over())
			before := g.Snapshot()

			for y := 0; y < g.Height(); y++ {
				for x := 0; x < g.Width(); x++ {
					r := g.Reveal(x, y)
					assert.Empty(t, r.Changes)
					assert.Equal(t, before.Phase, r.Phase)

					f := g.ToggleFlag(x, y)
					assert.False(t, f.Changed)

					assert.Empty(t, g.Chord(x, y).Changes)
				}
			}
			assert.Equal(t, before, g.Snapshot())
		})
	}
}

func TestChord(t *testing.T) {
	// 3x3 with a single mine in the top-left corner.
	b, err := NewBoardWithMines(3, 3, []Pos{{X: 0, Y: 0}})
	require.NoError(t, err)
	g := NewGameFromBoard(b)

	g.Reveal(1, 1)
	require.Equal(t, PhasePlaying, g.Phase())

	res := g.Chord(1, 1)
	assert.Empty(t, res.Changes, "chord needs matching flags")

	g.ToggleFlag(0, 0)
	res = g.Chord(1, 1)

	assert.Equal(t, PhaseWon, res.Phase)
	assert.Equal(t, 8, g.RevealedSafeCount())
	assert.Len(t, res.Changes, 7)
}

func TestChordWithWrongFlagLoses(t *testing.T) {
	b, err := NewBoardWithMines(3, 3, []Pos{{X: 0, Y: 0}})
	require.NoError(t, err)
	g := NewGameFromBoard(b)

	g.Reveal(1, 1)
	g.ToggleFlag(2, 2) // wrong flag

	res := g.Chord(1, 1)

	assert.True(t, res.Exploded)
	assert.Equal(t, PhaseLost, res.Phase)
	exploded, ok := g.Exploded()
	require.True(t, ok)
	assert.Equal(t, Pos{X: 0, Y: 0}, exploded)
}

func TestReset(t *testing.T) {
	g, err := NewGame(9, 9, 10, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	g.ToggleFlag(0, 0)
	g.Reveal(4, 4)

	require.NoError(t, g.Reset(rand.New(rand.NewSource(6))))

	assert.Equal(t, PhaseReady, g.Phase())
	assert.False(t, g.FirstActionTaken())
	assert.Equal(t, 0, g.FlaggedCount())
	assert.Equal(t, 0, g.RevealedSafeCount())
	assert.Equal(t, 10, g.MineCount())
	_, exploded := g.Exploded()
	assert.False(t, exploded)
	assert.Empty(t, revealedSet(g))
}

func TestSnapshotIsIndependent(t *testing.T) {
	g := newStripeGame(t)
	snap := g.Snapshot()

	g.Reveal(0, 0)

	assert.False(t, snap.Cells[0][0].IsRevealed)
	assert.Equal(t, PhaseReady, snap.Phase)
	assert.Equal(t, 9, snap.Width)
	assert.Equal(t, 10, snap.Remaining)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "ready", PhaseReady.String())
	assert.Equal(t, "playing", PhasePlaying.String())
	assert.Equal(t, "won", PhaseWon.String())
	assert.Equal(t, "lost", PhaseLost.String())
	assert.Equal(t, "unknown", Phase(42).String())
	assert.False(t, PhasePlaying.Over())
	assert.True(t, PhaseLost.Over())
}
