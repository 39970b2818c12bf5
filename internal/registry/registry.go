// Package registry maps game IDs to factories. A Registry is built
// explicitly at startup from the configured presets and passed to the
// platform; there is no package-level state.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/tui-minesweeper/internal/core"
)

// ErrUnknownGame is returned by Create for IDs nobody registered or resolved.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is the interface the platform drives. Implementations hold pure
// logic with no Bubble Tea dependency; the platform handles input mapping,
// timing and rendering.
type Game interface {
	// ID returns the identifier used on the command line and for scores.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a new round. The RuntimeConfig provides screen
	// dimensions and the RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one tick, applying the frame's input.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current summary.
	State() core.GameState
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID      string
	Title   string
	Summary string
}

// Factory creates a new instance of a game.
type Factory func() Game

// Resolver builds a factory for IDs that were not registered up front,
// such as custom board sizes.
type Resolver func(id string) (Factory, error)

// Registry holds game factories in registration order.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
	infos     []GameInfo
	resolver  Resolver
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory. Panics if the ID is already registered.
func (r *Registry) Register(id, summary string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	r.factories[id] = f
	r.infos = append(r.infos, GameInfo{
		ID:      id,
		Title:   f().Title(),
		Summary: summary,
	})
}

// SetResolver installs the fallback used by Create for unregistered IDs.
func (r *Registry) SetResolver(res Resolver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolver = res
}

// List returns the registered games in registration order.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]GameInfo, len(r.infos))
	copy(out, r.infos)
	return out
}

// Create instantiates a game by ID, consulting the resolver for IDs that
// were not registered.
func (r *Registry) Create(id string) (Game, error) {
	r.mu.RLock()
	f, ok := r.factories[id]
	res := r.resolver
	r.mu.RUnlock()

	if ok {
		return f(), nil
	}
	if res != nil {
		f, err := res(id)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrUnknownGame, id, err)
		}
		return f(), nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
}

// Exists reports whether an ID was registered up front.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[id]
	return ok
}
