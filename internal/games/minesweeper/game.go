// Package minesweeper adapts the board engine to the platform's Game
// interface: it owns the cursor, the round clock and the screen layout, and
// translates input frames into engine calls.
package minesweeper

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/layouts"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
)

// Game implements registry.Game for one board preset.
type Game struct {
	preset  config.Preset
	display config.DisplayConfig
	fixed   []engine.Pos // Mine positions of a layout board, nil when random

	rng    *rand.Rand
	board  *engine.Game
	tick   uint64
	now    func() time.Time // Round clock source, time.Now when nil
	clock  Stopwatch
	cursor engine.Pos

	screenW int
	screenH int
	layout  layout

	// Cells from the latest cascade that are still hidden on screen.
	cascade      map[engine.Pos]int
	cascadeStart uint64

	message  string
	reported bool // Finished has been returned for this round
}

// New creates a game for the preset. The board is dealt by Reset.
func New(p config.Preset, d config.DisplayConfig) *Game {
	return &Game{
		preset:  p,
		display: d,
	}
}

// NewFixed creates a game that deals the same layout every round.
func NewFixed(l layouts.Layout, d config.DisplayConfig) *Game {
	return &Game{
		preset: config.Preset{
			ID:     l.GameID(),
			Name:   l.Name,
			Width:  l.Width,
			Height: l.Height,
			Mines:  len(l.Mines),
		},
		display: d,
		fixed:   l.Mines,
	}
}

// Register adds every configured preset to r and resolves custom board IDs
// such as "custom-20x10-30" on demand.
func Register(r *registry.Registry, cfg config.Config) {
	for _, p := range cfg.Presets {
		r.Register(p.ID, p.Summary(), func() registry.Game {
			return New(p, cfg.Display)
		})
	}
	r.SetResolver(func(id string) (registry.Factory, error) {
		p, err := cfg.Lookup(id)
		if err != nil {
			return nil, err
		}
		return func() registry.Game { return New(p, cfg.Display) }, nil
	})
}

// RegisterLayouts adds hand-made layouts after the presets.
func RegisterLayouts(r *registry.Registry, ls []layouts.Layout, d config.DisplayConfig) {
	for _, l := range ls {
		r.Register(l.GameID(), l.Summary(), func() registry.Game {
			return NewFixed(l, d)
		})
	}
}

// ID returns the preset ID, used as the score key.
func (g *Game) ID() string {
	return g.preset.ID
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.preset.IsCustom() {
		return fmt.Sprintf("Custom %dx%d", g.preset.Width, g.preset.Height)
	}
	return g.preset.Name
}

// Preset returns the board preset.
func (g *Game) Preset() config.Preset {
	return g.preset
}

// Reset deals a new board and restarts the clock.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.clock = NewStopwatch(g.now)
	g.cascade = nil
	g.reported = false
	g.message = ""

	board, err := g.deal()
	if err != nil {
		// Presets are validated on load; keep a playable board regardless.
		def := config.Default().Presets[0]
		board, _ = engine.NewGame(def.Width, def.Height, def.Mines, g.rng)
		g.message = err.Error()
	}
	g.board = board
	g.cursor = engine.Pos{X: board.Width() / 2, Y: board.Height() / 2}

	g.resize(cfg.ScreenW, cfg.ScreenH)
}

func (g *Game) deal() (*engine.Game, error) {
	if g.fixed == nil {
		return engine.NewGame(g.preset.Width, g.preset.Height, g.preset.Mines, g.rng)
	}
	b, err := engine.NewBoardWithMines(g.preset.Width, g.preset.Height, g.fixed)
	if err != nil {
		return nil, err
	}
	return engine.NewGameFromBoard(b), nil
}

// Resize relays out the board for a new screen size without touching the
// round.
func (g *Game) Resize(screenW, screenH int) {
	g.resize(screenW, screenH)
}

func (g *Game) resize(screenW, screenH int) {
	g.screenW = screenW
	g.screenH = screenH
	g.layout = newLayout(screenW, screenH, g.board.Width(), g.board.Height(), g.display.CellWidth)
}

// Step applies one frame of input and advances the cascade.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++
	g.advanceCascade()

	if !g.layout.fits {
		return core.StepResult{State: g.State()}
	}

	over := g.board.Phase().Over()

	g.moveCursor(in)
	switch {
	case in.Has(core.ActionReveal):
		g.reveal(g.cursor)
	case in.Has(core.ActionFlag):
		g.flag(g.cursor)
	case in.Has(core.ActionChord):
		g.chord(g.cursor)
	}

	for _, c := range in.Clicks {
		p, ok := g.layout.cellAt(c.X, c.Y)
		if !ok {
			continue
		}
		g.cursor = p
		switch c.Action {
		case core.ActionReveal:
			g.reveal(p)
		case core.ActionFlag:
			g.flag(p)
		case core.ActionChord:
			g.chord(p)
		}
	}

	res := core.StepResult{State: g.State()}
	if !over && g.board.Phase().Over() && !g.reported {
		g.reported = true
		res.Finished = true
	}
	return res
}

func (g *Game) moveCursor(in core.InputFrame) {
	dx, dy := 0, 0
	switch {
	case in.Has(core.ActionUp):
		dy = -1
	case in.Has(core.ActionDown):
		dy = 1
	case in.Has(core.ActionLeft):
		dx = -1
	case in.Has(core.ActionRight):
		dx = 1
	}
	g.cursor.X = core.Clamp(g.cursor.X+dx, 0, g.board.Width()-1)
	g.cursor.Y = core.Clamp(g.cursor.Y+dy, 0, g.board.Height()-1)
}

// reveal opens a hidden cell. Revealing an already open number chords it.
func (g *Game) reveal(p engine.Pos) {
	if c, ok := g.board.CellState(p.X, p.Y); ok && c.IsRevealed {
		g.chord(p)
		return
	}
	g.applyReveal(g.board.Reveal(p.X, p.Y))
}

func (g *Game) chord(p engine.Pos) {
	g.applyReveal(g.board.Chord(p.X, p.Y))
}

func (g *Game) flag(p engine.Pos) {
	g.board.ToggleFlag(p.X, p.Y)
}

func (g *Game) applyReveal(res engine.RevealResult) {
	if res.Started {
		g.clock.Start()
	}

	if g.display.ShowCascade {
		g.startCascade(res.Changes)
	}

	switch res.Phase {
	case engine.PhaseWon:
		g.clock.Stop()
		g.cascade = nil
		g.message = fmt.Sprintf("Cleared in %ss!", engine.FormatCounter(g.clock.Seconds()))
	case engine.PhaseLost:
		g.clock.Stop()
		g.cascade = nil
		g.message = "Boom!"
	}
}

// startCascade hides the cells of a multi-ring reveal so they appear one
// ring per CascadeTicks.
func (g *Game) startCascade(changes []engine.Change) {
	deepest := 0
	for _, c := range changes {
		deepest = max(deepest, c.Depth)
	}
	if deepest == 0 {
		return
	}

	g.cascade = make(map[engine.Pos]int, len(changes))
	for _, c := range changes {
		if c.Depth > 0 {
			g.cascade[c.Pos] = c.Depth
		}
	}
	g.cascadeStart = g.tick
}

func (g *Game) advanceCascade() {
	if g.cascade == nil {
		return
	}
	ring := g.cascadeRing()
	for p, depth := range g.cascade {
		if depth <= ring {
			delete(g.cascade, p)
		}
	}
	if len(g.cascade) == 0 {
		g.cascade = nil
	}
}

// cascadeRing returns the deepest ring already visible.
func (g *Game) cascadeRing() int {
	step := uint64(max(1, g.display.CascadeTicks))
	return int((g.tick - g.cascadeStart) / step)
}

// State returns the round summary for the platform.
func (g *Game) State() core.GameState {
	phase := g.board.Phase()
	return core.GameState{
		Elapsed:   g.clock.Seconds(),
		Remaining: g.board.RemainingMineEstimate(),
		Revealed:  g.board.RevealedSafeCount(),
		Started:   g.board.FirstActionTaken(),
		Won:       phase == engine.PhaseWon,
		GameOver:  phase.Over(),
	}
}

// Snapshot returns a deep copy of the board for screenshots and tests.
func (g *Game) Snapshot() engine.Snapshot {
	return g.board.Snapshot()
}

// Cursor returns the selected cell.
func (g *Game) Cursor() engine.Pos {
	return g.cursor
}
