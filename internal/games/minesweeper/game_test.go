package minesweeper

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/layouts"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/layouts/formats"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
)

var stripeMines = []engine.Pos{
	{X: 7, Y: 0}, {X: 8, Y: 1}, {X: 7, Y: 2}, {X: 8, Y: 3}, {X: 7, Y: 4},
	{X: 8, Y: 5}, {X: 7, Y: 6}, {X: 8, Y: 7}, {X: 7, Y: 8}, {X: 8, Y: 0},
}

var stripeSafeRest = []engine.Pos{
	{X: 7, Y: 1}, {X: 7, Y: 3}, {X: 7, Y: 5}, {X: 7, Y: 7},
	{X: 8, Y: 2}, {X: 8, Y: 4}, {X: 8, Y: 6}, {X: 8, Y: 8},
}

const testTickRate = 10

func noCascade() config.DisplayConfig {
	return config.DisplayConfig{CellWidth: 2}
}

func stripeLayout() layouts.Layout {
	return layouts.Layout{Layout: formats.Layout{
		ID:     "stripe",
		Name:   "Test",
		Width:  9,
		Height: 9,
		Mines:  stripeMines,
	}}
}

// manualClock is a round clock that only moves when told to.
type manualClock struct {
	t time.Time
}

func (c *manualClock) Now() time.Time          { return c.t }
func (c *manualClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// newStripeGame returns a game on an 80x24 screen whose board has a fixed
// layout with every mine in the two rightmost columns.
func newStripeGame(t *testing.T, d config.DisplayConfig) *Game {
	g, _ := newClockedStripeGame(t, d)
	return g
}

// newClockedStripeGame is newStripeGame with a manual round clock.
func newClockedStripeGame(t *testing.T, d config.DisplayConfig) (*Game, *manualClock) {
	t.Helper()
	clock := &manualClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	g := NewFixed(stripeLayout(), d)
	g.now = clock.Now
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: testTickRate, Seed: 1})
	require.Empty(t, g.message)
	return g, clock
}

func frame(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func clickAt(g *Game, p engine.Pos, a core.Action) core.InputFrame {
	f := core.NewInputFrame()
	x, y := g.layout.cellOrigin(p.X, p.Y)
	f.AddClick(core.Click{X: x, Y: y, Action: a})
	return f
}

func render(g *Game) *core.Screen {
	s := core.NewScreen(80, 24)
	g.Render(s)
	return s
}

func TestRegisterPresets(t *testing.T) {
	r := registry.New()
	Register(r, config.Default())

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, "beginner", list[0].ID)
	assert.Equal(t, "Beginner", list[0].Title)
	assert.Equal(t, "9x9, 10 mines", list[0].Summary)
	assert.Equal(t, "expert", list[2].ID)

	g, err := r.Create("custom-12x8-20")
	require.NoError(t, err)
	assert.Equal(t, "custom-12x8-20", g.ID())
	assert.Equal(t, "Custom 12x8", g.Title())

	_, err = r.Create("custom-2x2-4")
	assert.ErrorIs(t, err, registry.ErrUnknownGame)
}

func TestResetDealsPresetBoard(t *testing.T) {
	g := New(config.Default().Presets[2], noCascade())
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 7})

	assert.Equal(t, 30, g.board.Width())
	assert.Equal(t, 16, g.board.Height())
	assert.Equal(t, 99, g.board.MineCount())
	assert.Equal(t, engine.Pos{X: 15, Y: 8}, g.Cursor())
	assert.Equal(t, core.GameState{Remaining: 99}, g.State())

	first := g.board.Board().Mines()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 30, Seed: 7})
	assert.Equal(t, first, g.board.Board().Mines(), "same seed deals the same board")
}

func TestCursorMovesAndClamps(t *testing.T) {
	g := newStripeGame(t, noCascade())
	require.Equal(t, engine.Pos{X: 4, Y: 4}, g.Cursor())

	g.Step(frame(core.ActionLeft))
	assert.Equal(t, engine.Pos{X: 3, Y: 4}, g.Cursor())

	for i := 0; i < 20; i++ {
		g.Step(frame(core.ActionUp))
	}
	assert.Equal(t, engine.Pos{X: 3, Y: 0}, g.Cursor())

	for i := 0; i < 20; i++ {
		g.Step(frame(core.ActionRight))
	}
	assert.Equal(t, engine.Pos{X: 8, Y: 0}, g.Cursor())

	g.Step(frame(core.ActionDown))
	assert.Equal(t, engine.Pos{X: 8, Y: 1}, g.Cursor())
}

func TestClockStartsOnFirstReveal(t *testing.T) {
	g, clock := newClockedStripeGame(t, noCascade())

	g.Step(frame(core.ActionFlag))
	clock.Advance(3 * time.Second)
	g.Step(frame())
	assert.Equal(t, 0, g.State().Elapsed, "flags do not start the clock")
	assert.False(t, g.State().Started)

	g.Step(frame(core.ActionFlag)) // unflag (4,4) again
	g.Step(frame(core.ActionReveal))
	assert.True(t, g.State().Started)

	clock.Advance(2500 * time.Millisecond)
	g.Step(frame())
	assert.Equal(t, 2, g.State().Elapsed)
}

func TestClockFollowsWallTimeNotTicks(t *testing.T) {
	g, clock := newClockedStripeGame(t, noCascade())
	g.Step(frame(core.ActionReveal))

	for i := 0; i < 5*testTickRate; i++ {
		g.Step(frame())
	}
	assert.Equal(t, 0, g.State().Elapsed, "ticks alone do not move the clock")

	// A single late tick still reports the full wall time.
	clock.Advance(7 * time.Second)
	g.Step(frame())
	assert.Equal(t, 7, g.State().Elapsed)
}

func TestLossFinishesOnce(t *testing.T) {
	g, clock := newClockedStripeGame(t, noCascade())

	g.Step(frame(core.ActionReveal))
	clock.Advance(time.Second)

	res := g.Step(clickAt(g, engine.Pos{X: 7, Y: 0}, core.ActionReveal))
	assert.True(t, res.Finished)
	assert.True(t, res.State.GameOver)
	assert.False(t, res.State.Won)
	assert.Equal(t, engine.Pos{X: 7, Y: 0}, g.Cursor(), "clicks move the cursor")

	elapsed := res.State.Elapsed
	assert.Equal(t, 1, elapsed)
	clock.Advance(3 * time.Second)
	for i := 0; i < 3*testTickRate; i++ {
		res = g.Step(frame(core.ActionReveal))
		assert.False(t, res.Finished)
	}
	assert.Equal(t, elapsed, g.State().Elapsed, "the clock stops on a loss")
	assert.Equal(t, engine.PhaseLost, g.Snapshot().Phase)
}

func TestWinFinishes(t *testing.T) {
	g := newStripeGame(t, noCascade())
	g.Step(frame(core.ActionReveal))

	var res core.StepResult
	for _, p := range stripeSafeRest {
		require.False(t, res.Finished)
		res = g.Step(clickAt(g, p, core.ActionReveal))
	}

	assert.True(t, res.Finished)
	assert.True(t, res.State.Won)
	assert.Equal(t, 0, res.State.Remaining)
	assert.Equal(t, 71, res.State.Revealed)

	s := render(g)
	assert.Contains(t, s.String(), "B)")
	assert.Contains(t, s.String(), "Cleared in")
}

func TestClickFlagAndChord(t *testing.T) {
	g := newStripeGame(t, noCascade())
	g.Step(frame(core.ActionReveal))

	res := g.Step(clickAt(g, engine.Pos{X: 7, Y: 0}, core.ActionFlag))
	assert.Equal(t, 9, res.State.Remaining)
	res = g.Step(clickAt(g, engine.Pos{X: 7, Y: 2}, core.ActionFlag))
	assert.Equal(t, 8, res.State.Remaining)

	// (6,1) touches (7,0) and (7,2); both are flagged.
	before := g.State().Revealed
	g.Step(clickAt(g, engine.Pos{X: 6, Y: 1}, core.ActionChord))
	assert.Equal(t, before+1, g.State().Revealed, "chord opens (7,1)")

	c, _ := g.board.CellState(7, 1)
	assert.True(t, c.IsRevealed)
}

func TestRevealOnNumberChords(t *testing.T) {
	g := newStripeGame(t, noCascade())
	g.Step(frame(core.ActionReveal))
	g.Step(clickAt(g, engine.Pos{X: 7, Y: 0}, core.ActionFlag))

	// (6,0) touches only the mine at (7,0).
	g.Step(clickAt(g, engine.Pos{X: 6, Y: 0}, core.ActionReveal))

	c, _ := g.board.CellState(7, 1)
	assert.True(t, c.IsRevealed)
}

func TestClicksOutsideBoardIgnored(t *testing.T) {
	g := newStripeGame(t, noCascade())
	f := core.NewInputFrame()
	f.AddClick(core.Click{X: 0, Y: 0, Action: core.ActionReveal})

	g.Step(f)

	assert.False(t, g.State().Started)
	assert.Equal(t, engine.Pos{X: 4, Y: 4}, g.Cursor())
}

func TestCascadeIsStaggered(t *testing.T) {
	g := newStripeGame(t, config.DisplayConfig{CellWidth: 2, ShowCascade: true, CascadeTicks: 1})

	g.Step(frame(core.ActionReveal))
	require.Equal(t, 63, g.State().Revealed, "the engine reveals the whole cascade at once")

	cornerX, cornerY := g.layout.cellOrigin(0, 0)
	originX, originY := g.layout.cellOrigin(4, 4)

	s := render(g)
	assert.Equal(t, engine.GlyphEmpty, s.Get(originX, originY))
	assert.Equal(t, engine.GlyphHidden, s.Get(cornerX, cornerY), "ring 4 is not shown yet")

	for i := 0; i < 4; i++ {
		g.Step(frame())
	}
	s = render(g)
	assert.Equal(t, engine.GlyphEmpty, s.Get(cornerX, cornerY))
	assert.Nil(t, g.cascade)
}

func TestRenderHUD(t *testing.T) {
	g := newStripeGame(t, noCascade())
	s := render(g)

	hud := s.Row(g.layout.box.Y - 1)
	assert.Contains(t, hud, "010")
	assert.Contains(t, hud, ":)")
	assert.Contains(t, hud, "000")
	assert.Contains(t, s.String(), "MINESWEEPER  Test")
	assert.Contains(t, s.String(), "Reveal any cell to start")

	cx, cy := g.layout.cellOrigin(4, 4)
	assert.True(t, s.GetCell(cx, cy).Reverse, "cursor cell is highlighted")
	assert.Equal(t, engine.GlyphHidden, s.Get(cx, cy))
}

func TestRenderLostBoard(t *testing.T) {
	g := newStripeGame(t, noCascade())
	g.Step(clickAt(g, engine.Pos{X: 0, Y: 0}, core.ActionFlag))
	g.Step(clickAt(g, engine.Pos{X: 7, Y: 0}, core.ActionReveal))

	s := render(g)

	x, y := g.layout.cellOrigin(7, 0)
	assert.Equal(t, engine.GlyphExploded, s.Get(x, y))
	x, y = g.layout.cellOrigin(8, 1)
	assert.Equal(t, engine.GlyphMine, s.Get(x, y))
	x, y = g.layout.cellOrigin(0, 0)
	assert.Equal(t, 'x', s.Get(x, y), "wrong flags are marked after a loss")

	assert.Contains(t, s.Row(g.layout.box.Y-1), "X(")
	assert.Contains(t, s.String(), "Boom!")
}

func TestTooSmallScreen(t *testing.T) {
	g := New(config.Default().Presets[2], noCascade())
	g.Reset(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, TickRate: 30, Seed: 1})

	g.Step(frame(core.ActionReveal))
	assert.False(t, g.State().Started, "input is ignored while the board does not fit")

	s := core.NewScreen(20, 10)
	g.Render(s)
	assert.Contains(t, s.String(), "Window too small")

	g.Resize(80, 24)
	g.Step(frame(core.ActionReveal))
	assert.True(t, g.State().Started)
}

func TestLayout(t *testing.T) {
	l := newLayout(80, 24, 9, 9, 2)

	require.True(t, l.fits)
	assert.Equal(t, core.NewRect(29, 6, 21, 11), l.box)
	assert.Equal(t, core.NewRect(30, 7, 19, 9), l.grid)

	x, y := l.cellOrigin(0, 0)
	assert.Equal(t, [2]int{31, 7}, [2]int{x, y})
	x, y = l.cellOrigin(8, 8)
	assert.Equal(t, [2]int{47, 15}, [2]int{x, y})

	tests := []struct {
		name   string
		sx, sy int
		want   engine.Pos
		ok     bool
	}{
		{"first glyph", 31, 7, engine.Pos{X: 0, Y: 0}, true},
		{"leading pad", 30, 7, engine.Pos{X: 0, Y: 0}, true},
		{"padding after first", 32, 7, engine.Pos{X: 0, Y: 0}, true},
		{"second glyph", 33, 7, engine.Pos{X: 1, Y: 0}, true},
		{"last cell pad", 48, 15, engine.Pos{X: 8, Y: 8}, true},
		{"right border", 49, 7, engine.Pos{}, false},
		{"left border", 29, 7, engine.Pos{}, false},
		{"hud", 35, 5, engine.Pos{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := l.cellAt(tc.sx, tc.sy)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLayoutFallsBackToNarrowCells(t *testing.T) {
	l := newLayout(40, 24, 30, 16, 2)
	assert.True(t, l.fits)
	assert.Equal(t, 1, l.cellW)
	assert.Equal(t, 32, l.box.W)

	x, _ := l.cellOrigin(29, 0)
	p, ok := l.cellAt(x, l.grid.Y)
	assert.True(t, ok)
	assert.Equal(t, engine.Pos{X: 29, Y: 0}, p)

	tiny := newLayout(10, 5, 30, 16, 2)
	assert.False(t, tiny.fits)
}

func TestStopwatch(t *testing.T) {
	clock := &manualClock{t: time.Unix(1000, 0)}
	s := NewStopwatch(clock.Now)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, s.Seconds(), "a stopped stopwatch does not count")

	s.Start()
	clock.Advance(2 * time.Second)
	s.Start()
	clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 2500*time.Millisecond, s.Elapsed(), "a second Start keeps the first start time")
	assert.Equal(t, 2, s.Seconds())

	s.Stop()
	clock.Advance(10 * time.Second)
	assert.Equal(t, 2, s.Seconds())

	s.Start()
	clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, 4, s.Seconds(), "runs accumulate")

	// The HUD counter saturates, the stopwatch does not.
	clock.Advance(1200 * time.Second)
	assert.Equal(t, 1204, s.Seconds())
	assert.Equal(t, "999", engine.FormatCounter(s.Seconds()))

	assert.NotNil(t, NewStopwatch(nil).now)
}

func TestFace(t *testing.T) {
	assert.Equal(t, ":)", Face(engine.PhaseReady))
	assert.Equal(t, ":)", Face(engine.PhasePlaying))
	assert.Equal(t, "B)", Face(engine.PhaseWon))
	assert.Equal(t, "X(", Face(engine.PhaseLost))
}

func TestHelpLineFitsDefaultScreen(t *testing.T) {
	assert.LessOrEqual(t, len(helpLine), 80)
	assert.False(t, strings.Contains(helpLine, "\n"))
}

func TestRegisterLayouts(t *testing.T) {
	r := registry.New()
	RegisterLayouts(r, []layouts.Layout{stripeLayout()}, noCascade())

	list := r.List()
	require.Len(t, list, 1)
	assert.Equal(t, "layout-stripe", list[0].ID)
	assert.Equal(t, "Test", list[0].Title)
	assert.Equal(t, "9x9, 10 mines", list[0].Summary)

	created, err := r.Create("layout-stripe")
	require.NoError(t, err)
	g := created.(*Game)
	assert.Equal(t, stripeMines, g.fixed)
}

func TestFixedLayoutRedealsSameBoard(t *testing.T) {
	g := newStripeGame(t, noCascade())
	first := g.Snapshot()

	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: testTickRate, Seed: 99})
	second := g.Snapshot()

	for y := range first.Cells {
		for x := range first.Cells[y] {
			assert.Equal(t, first.Cells[y][x].IsMine, second.Cells[y][x].IsMine, "cell (%d, %d)", x, y)
		}
	}
	assert.Equal(t, engine.PhaseReady, g.board.Phase())
}
