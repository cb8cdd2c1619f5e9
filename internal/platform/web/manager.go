package web

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

var (
	ErrSessionNotFound = errors.New("web: session not found")
	ErrTooManySessions = errors.New("web: session limit reached")
)

// Variant names accepted when creating a session.
const (
	VariantClassic = "match3"
	VariantCascade = "match3_cascade"
)

// GameSession wraps one engine session. The engine is not safe for
// concurrent use, so every access goes through mu.
type GameSession struct {
	ID        string
	Variant   string
	Seed      int64
	CreatedAt time.Time

	mu       sync.Mutex
	session  *match3.Session
	last     *swapOutcome
	recorded bool
}

// Manager owns the live sessions of the web transport.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession
	rules    match3.Rules
	limit    int
}

// NewManager creates a manager. Cascade sessions use the same rules with
// CascadeUntilStable set. A limit of 0 means unlimited.
func NewManager(rules match3.Rules, limit int) *Manager {
	return &Manager{
		sessions: make(map[string]*GameSession),
		rules:    rules,
		limit:    limit,
	}
}

// Create starts a new session. A zero seed picks one from the clock.
func (m *Manager) Create(variant string, seed int64) (*GameSession, error) {
	rules := m.rules
	switch variant {
	case "", VariantClassic:
		variant = VariantClassic
		rules.CascadeUntilStable = false
	case VariantCascade:
		rules.CascadeUntilStable = true
	default:
		return nil, fmt.Errorf("%w: unknown variant %q", match3.ErrInvalidRules, variant)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	session, err := match3.NewSession(rules, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	gs := &GameSession{
		ID:        uuid.NewString(),
		Variant:   variant,
		Seed:      seed,
		CreatedAt: time.Now(),
		session:   session,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.limit > 0 && len(m.sessions) >= m.limit {
		return nil, ErrTooManySessions
	}
	m.sessions[gs.ID] = gs
	return gs, nil
}

// Get looks up a session by ID.
func (m *Manager) Get(id string) (*GameSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	gs, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return gs, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// State returns a snapshot of the session.
func (gs *GameSession) State() State {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return gs.stateLocked()
}

// Swap forwards a swap request to the engine and returns the new state.
func (gs *GameSession) Swap(a, b match3.Coord) (State, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	res, err := gs.session.RequestSwap(a, b)
	if err != nil {
		return gs.stateLocked(), err
	}
	gs.last = &swapOutcome{
		A:       res.A,
		B:       res.B,
		Applied: res.Applied,
		Matched: res.Matched(),
		Reward:  res.Reward,
		Windows: res.Windows(),
		Passes:  len(res.Passes),
	}
	return gs.stateLocked(), nil
}

// Reset starts the session over with a fresh grid and counters.
func (gs *GameSession) Reset() State {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.session.Reset()
	gs.last = nil
	gs.recorded = false
	return gs.stateLocked()
}

// Hint returns the first swap that would produce a match.
func (gs *GameSession) Hint() (match3.Move, bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	return match3.Hint(gs.session.Grid())
}

// finished reports true once per game, the first time it is called after
// the move budget runs out.
func (gs *GameSession) finished() (coins, swaps, windows int, ok bool) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.recorded || !gs.session.IsOver() {
		return 0, 0, 0, false
	}
	gs.recorded = true
	return gs.session.Coins(), gs.session.Swaps(), gs.session.Windows(), true
}

func (gs *GameSession) stateLocked() State {
	grid := gs.session.Grid()
	tiles := make([][]int, grid.Rows())
	for r, row := range grid.Tiles() {
		tiles[r] = make([]int, len(row))
		for c, t := range row {
			tiles[r][c] = int(t)
		}
	}
	return State{
		Variant:    gs.Variant,
		Rows:       grid.Rows(),
		Cols:       grid.Cols(),
		Kinds:      gs.session.Rules().Kinds,
		Grid:       tiles,
		Board:      strings.Split(grid.String(), "\n"),
		MovesLeft:  gs.session.MovesLeft(),
		Coins:      gs.session.Coins(),
		Swaps:      gs.session.Swaps(),
		Over:       gs.session.IsOver(),
		LastResult: gs.last,
	}
}
