// Package registry provides a global registry for game factories.
// Game variants register themselves in init() functions, so the TUI, the SSH
// server and the CLI can list and start them without hardcoded imports.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// ErrUnknownGame is returned by Create for IDs nobody registered.
var ErrUnknownGame = errors.New("registry: unknown game")

// Game is the interface every playable variant implements.
// Games hold pure logic; the platform owns input mapping, timing and rendering.
type Game interface {
	// ID returns a unique identifier (e.g. "match3", "match3_cascade").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for menus.
	Title() string

	// Reset starts a fresh game. Called once at start and again on restart.
	// The RuntimeConfig provides screen dimensions, tick rate and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the screen buffer.
	Render(dst *core.Screen)

	// State returns score, game over and pause flags.
	State() core.GameState
}

// GameInfo describes a registered game.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a game.
type Factory func() Game

// Registry maps game IDs to factories. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

type entry struct {
	factory Factory
	title   string
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Default is the registry games add themselves to in init.
var Default = New()

// Register adds a factory. It panics on a duplicate ID, which can only come
// from a programming error at init time.
func (r *Registry) Register(id string, f Factory) {
	// Titles are static, so a throwaway instance is asked once
	title := f().Title()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.entries[id]; dup {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}
	r.entries[id] = entry{factory: f, title: title}
}

// List returns the registered games ordered by ID.
func (r *Registry) List() []GameInfo {
	r.mu.RLock()
	out := make([]GameInfo, 0, len(r.entries))
	for id, e := range r.entries {
		out = append(out, GameInfo{ID: id, Title: e.title})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b GameInfo) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Create returns a fresh instance of the game id.
func (r *Registry) Create(id string) (Game, error) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownGame, id)
	}
	return e.factory(), nil
}

// Title returns the display name of id, or id itself when unknown.
func (r *Registry) Title(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.entries[id]; ok {
		return e.title
	}
	return id
}

// Exists reports whether id is registered.
func (r *Registry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// Register adds a factory to Default.
func Register(id string, f Factory) { Default.Register(id, f) }

// List returns the games of Default.
func List() []GameInfo { return Default.List() }

// Create instantiates a game of Default.
func Create(id string) (Game, error) { return Default.Create(id) }

// Exists reports whether Default knows id.
func Exists(id string) bool { return Default.Exists(id) }

// Title returns the display name of id in Default.
func Title(id string) string { return Default.Title(id) }
