package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tui-minesweeper/internal/config"
	"github.com/vovakirdan/tui-minesweeper/internal/core"
	"github.com/vovakirdan/tui-minesweeper/internal/registry"
	"github.com/vovakirdan/tui-minesweeper/internal/session"
	"github.com/vovakirdan/tui-minesweeper/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.minesweeper/host_key.
	HostKeyPath string

	// DBPath is the path to the results database.
	DBPath string

	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	TickRate        int

	Presets config.Config
	Logger  *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:         ":23234",
		DBPath:          "~/.minesweeper/scores.db",
		IdleTimeout:     30 * time.Minute,
		ShutdownTimeout: 10 * time.Second,
		TickRate:        core.DefaultConfig().TickRate,
		Presets:         config.Default(),
	}
}

// SSHServer serves the menu and games over SSH, one Bubble Tea program per
// connection. Sessions share the results store and see each other's wins.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	store    *storage.Store
	games    *registry.Registry
	sessions *session.Registry
	logger   *log.Logger

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewSSHServer creates a new SSH server. games must already hold the
// presets.
func NewSSHServer(cfg SSHServerConfig, games *registry.Registry) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "minesweeper-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open results database", "error", err)
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		store:    store,
		games:    games,
		sessions: session.NewRegistry(),
		logger:   logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("tui: cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".minesweeper", "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("tui: cannot create host key directory: %w", mkdirErr)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler registers the connection and builds its session model.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		wish.Fatalln(sshSession, "minesweeper needs an interactive terminal (ssh -t)")
		return nil, nil
	}

	sess := session.New(sshSession.User(), sshSession.RemoteAddr().String(), 0)
	s.sessions.Register(sess)
	go func() {
		<-sshSession.Context().Done()
		s.logger.Info("session closed",
			"session", string(sess.ID()),
			"user", sess.User(),
			"game", sess.Game(),
			"duration", time.Since(sess.Started()).Round(time.Second),
		)
		s.sessions.Unregister(sess.ID())
	}()

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}

	model := NewSessionModel(SessionOptions{
		Games:    s.games,
		Presets:  s.config.Presets,
		Store:    s.store,
		Logger:   s.logger.With("session", string(sess.ID()), "remote", sess.Remote()),
		Session:  sess,
		OnResult: s.announce(sess),
	}, cfg)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// announce returns a result callback that tells every other session about
// a win.
func (s *SSHServer) announce(sess *session.Session) ResultFunc {
	return func(r storage.Result) {
		if !r.Won {
			return
		}
		s.sessions.Broadcast(session.Notice{
			From: sess.ID(),
			User: sess.User(),
			Text: fmt.Sprintf("%s cleared %s in %ds", sess.User(), r.GameID, r.Seconds),
		})
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
			"active", s.sessions.Count()+1,
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe serves until ctx is canceled or the process receives
// SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("starting SSH server", "address", s.config.Address)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return fmt.Errorf("tui: ssh server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down...", "sessions", s.sessions.Count())
		return s.Shutdown()
	})
	return g.Wait()
}

// Shutdown closes every session, stops the server and closes the store.
// Later calls return the first result.
func (s *SSHServer) Shutdown() error {
	s.shutdownOnce.Do(func() {
		timeout := s.config.ShutdownTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		for _, sess := range s.sessions.List() {
			s.sessions.Unregister(sess.ID())
		}

		err := s.server.Shutdown(ctx)
		if s.store != nil {
			err = errors.Join(err, s.store.Close())
		}
		s.shutdownErr = err
	})
	return s.shutdownErr
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
