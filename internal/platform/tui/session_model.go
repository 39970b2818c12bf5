package tui

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
	"github.com/vovakirdan/tui-minesweeper/internal/session"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// NoticeMsg carries a notice from another session.
type NoticeMsg session.Notice

// SessionOptions wires a SessionModel to its collaborators. Store, Logger,
// Session and OnResult are optional.
type SessionOptions struct {
	Games    *registry.Registry
	Presets  config.Config
	Store    *storage.Store
	Logger   *log.Logger
	Session  *session.Session
	OnResult ResultFunc
}

type view int

const (
	viewMenu view = iota
	viewCustom
	viewScores
	viewGame
)

// SessionModel manages the full flow: menu, custom form, scoreboard and
// game. It is the top-level model for SSH sessions and the local menu.
type SessionModel struct {
	opts   SessionOptions
	config core.RuntimeConfig
	view   view

	menu   MenuModel
	custom CustomModel
	scores ScoreboardModel
	game   *GameModel

	notice   string // Latest notice, shown on the menu
	quitting bool
}

// NewSessionModel creates a session model that starts on the menu.
func NewSessionModel(opts SessionOptions, cfg core.RuntimeConfig) SessionModel {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		opts:   opts,
		config: cfg,
		menu:   NewMenuModel(opts.Games, opts.Store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return tea.Batch(m.menu.Init(), waitNotice(m.opts.Session))
}

// waitNotice blocks on the session's notice channel until a notice
// arrives or the session closes.
func waitNotice(s *session.Session) tea.Cmd {
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case n := <-s.Notices():
			return NoticeMsg(n)
		case <-s.Done():
			return nil
		}
	}
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height

	case NoticeMsg:
		if m.game != nil {
			m.game.ShowNotice(msg.Text)
		}
		m.notice = msg.Text
		return m, waitNotice(m.opts.Session)
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewCustom:
		return m.updateCustom(msg)
	case viewScores:
		return m.updateScores(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	sel := m.menu.Selected()
	if sel == nil {
		return m, cmd
	}

	switch sel.Kind {
	case MenuItemCustom:
		m.custom = NewCustomModel(m.opts.Presets, m.config.ScreenW)
		m.view = viewCustom
		return m, m.custom.Init()
	case MenuItemScores:
		m.scores = NewScoreboardModel(m.opts.Games, m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScores
		return m, m.scores.Init()
	default:
		return m.startGame(sel.GameID)
	}
}

func (m SessionModel) updateCustom(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.custom.Update(msg)
	if cm, ok := next.(CustomModel); ok {
		m.custom = cm
	}

	switch {
	case m.custom.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.custom.IsGoingBack():
		return m.backToMenu()
	case m.custom.Preset() != nil:
		return m.startGame(m.custom.Preset().ID)
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	if sm, ok := next.(ScoreboardModel); ok {
		m.scores = sm
	}

	switch {
	case m.scores.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.scores.IsGoingBack():
		return m.backToMenu()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(GameModel); ok {
		m.game = &gm
	}

	switch {
	case m.game.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case m.game.BackToMenu():
		if m.opts.Session != nil {
			m.opts.Session.SetGame("")
		}
		return m.backToMenu()
	}
	return m, cmd
}

// startGame creates the game and switches to it. Unknown IDs leave the
// session on the menu with the error as notice.
func (m SessionModel) startGame(id string) (tea.Model, tea.Cmd) {
	game, err := m.opts.Games.Create(id)
	if err != nil {
		m.opts.Logger.Warn("cannot create game", "id", id, "error", err)
		m.notice = err.Error()
		return m.backToMenu()
	}

	player := ""
	if m.opts.Session != nil {
		player = m.opts.Session.User()
		m.opts.Session.SetGame(id)
	}

	gm := NewGameModel(game, m.opts.Store, m.config).
		WithPlayer(player).
		WithLogger(m.opts.Logger).
		OnResult(m.opts.OnResult)
	m.game = &gm
	m.view = viewGame
	return m, gm.Init()
}

func (m SessionModel) backToMenu() (tea.Model, tea.Cmd) {
	m.game = nil
	m.menu = NewMenuModel(m.opts.Games, m.opts.Store, m.config)
	m.view = viewMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewGame:
		return m.game.View()
	case viewCustom:
		return m.custom.View()
	case viewScores:
		return m.scores.View()
	}

	out := m.menu.View()
	if m.notice != "" {
		out += "\n" + centerText(menuDimStyle.Render(m.notice), m.config.ScreenW)
	}
	return out
}

// RunSession runs the menu flow locally until the user quits.
func RunSession(opts SessionOptions, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(
		NewSessionModel(opts, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err := p.Run()
	return err
}
