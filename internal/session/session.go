// Package session tracks the players connected to the SSH server and
// delivers server-wide notices to them.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ID identifies one SSH session.
type ID string

// NewID returns a random session ID.
func NewID() ID {
	return ID(uuid.NewString())
}

// Notice is a short message pushed to other sessions, such as a finished
// round.
type Notice struct {
	From ID
	User string
	Text string
	At   time.Time
}

// Session is one connected player. Notices are buffered; when the buffer is
// full the oldest notice is dropped so Send never blocks.
type Session struct {
	id      ID
	user    string
	remote  string
	started time.Time

	mu     sync.RWMutex
	gameID string

	notices  chan Notice
	done     chan struct{}
	doneOnce sync.Once
}

// New creates a session. bufferSize below 1 selects the default of 16.
func New(user, remote string, bufferSize int) *Session {
	if bufferSize < 1 {
		bufferSize = 16
	}
	return &Session{
		id:      NewID(),
		user:    user,
		remote:  remote,
		started: time.Now(),
		notices: make(chan Notice, bufferSize),
		done:    make(chan struct{}),
	}
}

func (s *Session) ID() ID             { return s.id }
func (s *Session) User() string       { return s.user }
func (s *Session) Remote() string     { return s.remote }
func (s *Session) Started() time.Time { return s.started }

// SetGame records the preset the player is on, empty while in the menu.
func (s *Session) SetGame(gameID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID = gameID
}

// Game returns the preset the player is on.
func (s *Session) Game() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameID
}

// Send queues a notice without blocking.
func (s *Session) Send(n Notice) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.notices <- n:
	default:
		select {
		case <-s.notices:
		default:
		}
		select {
		case s.notices <- n:
		default:
		}
	}
}

// Notices returns the channel notices arrive on.
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done. Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// Registry tracks active sessions. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[ID]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[ID]*Session),
	}
}

// Register adds a session.
func (r *Registry) Register(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

// Unregister removes and closes a session.
func (r *Registry) Unregister(id ID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Get retrieves a session by ID.
func (r *Registry) Get(id ID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns the active sessions, oldest first.
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].started.Before(out[j].started)
	})
	return out
}

// Broadcast sends a notice to every session except its sender.
func (r *Registry) Broadcast(n Notice) {
	if n.At.IsZero() {
		n.At = time.Now()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, s := range r.sessions {
		if id != n.From {
			s.Send(n)
		}
	}
}
