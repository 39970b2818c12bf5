package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/games/minesweeper/engine"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// noticeSeconds is how long a notice stays on the bottom row.
const noticeSeconds = 4

// resizer is implemented by games that can relayout without a new round.
type resizer interface {
	Resize(screenW, screenH int)
}

// snapshotter is implemented by games that expose the board for screenshots.
type snapshotter interface {
	Snapshot() engine.Snapshot
}

// ResultFunc is called once per finished round, after the result is stored.
type ResultFunc func(storage.Result)

// GameModel is the Bubble Tea model that drives one game.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper

	player        string
	onResult      ResultFunc
	screenshotDir string
	standalone    bool // Back ends the program as well

	notice    string
	noticeTTL int

	quitting   bool
	backToMenu bool
}

// NewGameModel creates a model for the given game. store may be nil.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}

	return GameModel{
		game:          game,
		screen:        core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:         store,
		logger:        log.New(io.Discard),
		config:        cfg,
		inputFrame:    core.NewInputFrame(),
		keyMapper:     NewKeyMapper(),
		screenshotDir: defaultScreenshotDir(),
	}
}

// WithPlayer tags stored results with a player name.
func (m GameModel) WithPlayer(name string) GameModel {
	m.player = name
	return m
}

// WithLogger sets the logger for round and storage events.
func (m GameModel) WithLogger(l *log.Logger) GameModel {
	if l != nil {
		m.logger = l
	}
	return m
}

// OnResult registers a callback for finished rounds.
func (m GameModel) OnResult(fn ResultFunc) GameModel {
	m.onResult = fn
	return m
}

// WithScreenshotDir overrides where ctrl+s writes board dumps.
func (m GameModel) WithScreenshotDir(dir string) GameModel {
	m.screenshotDir = dir
	return m
}

// Standalone makes the back key end the program, for games run outside
// a session model.
func (m GameModel) Standalone() GameModel {
	m.standalone = true
	return m
}

// Init deals the first board and starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if click, ok := MapMouse(msg); ok {
			m.inputFrame.AddClick(click)
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMapper.Keys().Screenshot) {
		m.takeScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionBack:
		m.backToMenu = true
		if m.standalone {
			return m, tea.Quit
		}
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if result.Finished {
		m.recordResult()
	}

	if m.noticeTTL > 0 {
		m.noticeTTL--
		if m.noticeTTL == 0 {
			m.notice = ""
		}
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// recordResult stores the finished round. Storage failures are logged and
// never interrupt play.
func (m *GameModel) recordResult() {
	r := storage.Result{
		GameID:   m.game.ID(),
		Player:   m.player,
		Won:      m.gameState.Won,
		Seconds:  m.gameState.Elapsed,
		Revealed: m.gameState.Revealed,
	}

	if m.store != nil {
		saved, err := m.store.SaveResult(r)
		if err != nil {
			m.logger.Warn("could not save result", "game", r.GameID, "error", err)
		} else {
			r = saved
		}
	}

	m.logger.Info("round finished",
		"game", r.GameID,
		"player", r.Player,
		"won", r.Won,
		"seconds", r.Seconds,
	)

	if m.onResult != nil {
		m.onResult(r)
	}
}

// ShowNotice displays text on the bottom row for a few seconds.
func (m *GameModel) ShowNotice(text string) {
	m.notice = text
	m.noticeTTL = noticeSeconds * m.config.TickRate
}

func (m *GameModel) takeScreenshot() {
	var text string
	if s, ok := m.game.(snapshotter); ok {
		text = engine.Format(s.Snapshot())
	} else {
		m.game.Render(m.screen)
		text = m.screen.String()
	}

	path, err := writeScreenshot(m.screenshotDir, m.game.ID(), text, time.Now())
	if err != nil {
		m.logger.Warn("could not save screenshot", "error", err)
		m.ShowNotice("Screenshot failed")
		return
	}
	m.ShowNotice("Saved " + path)
}

func defaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".minesweeper", "screenshots")
	}
	return filepath.Join(home, ".minesweeper", "screenshots")
}

// writeScreenshot writes text to dir/<gameID>_<timestamp>.txt.
func writeScreenshot(dir, gameID, text string, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create screenshot directory: %w", err)
	}
	name := fmt.Sprintf("%s_%s.txt", gameID, at.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m GameModel) View() string {
	if m.quitting || (m.standalone && m.backToMenu) {
		return ""
	}

	m.game.Render(m.screen)
	if m.notice != "" {
		m.screen.DrawTextCentered(m.screen.Height()-1, m.notice, core.ColorCyan)
	}
	return RenderScreen(m.screen)
}

// State returns the last observed round state.
func (m GameModel) State() core.GameState {
	return m.gameState
}

// IsQuitting returns true if the user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if the user requested to go back to the menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// Run plays a single game until the user quits or goes back. back reports
// whether the user asked for the menu rather than quitting.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) (back bool, err error) {
	model := NewGameModel(game, store, cfg).Standalone()

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(GameModel)
	return ok && m.BackToMenu(), nil
}
