package match3

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds  = errors.New("match3: coordinate out of bounds")
	ErrInvalidSwap  = errors.New("match3: cells are not adjacent")
	ErrInvalidRules = errors.New("match3: invalid rules")
)

// SwapResult describes what a RequestSwap call did.
type SwapResult struct {
	// Applied is false when the swap was ignored because no moves remain.
	Applied bool
	A, B    Coord

	// Swapped is the grid right after the exchange, before resolution.
	Swapped *Grid
	// Passes holds each resolve pass that matched something.
	Passes []Resolution
	Reward int
	// Settled is the grid after resolution, identical to Swapped when
	// nothing matched.
	Settled *Grid
}

// Matched reports whether the swap produced at least one match.
func (r SwapResult) Matched() bool {
	return len(r.Passes) > 0
}

// Windows returns the number of matched windows across all passes.
func (r SwapResult) Windows() int {
	n := 0
	for _, p := range r.Passes {
		n += p.Matches.Windows
	}
	return n
}

// Session owns the canonical grid and the move/coin counters of one game.
// It is not safe for concurrent use.
type Session struct {
	rules     Rules
	src       TileSource
	grid      *Grid
	movesLeft int
	coins     int
	swaps     int
	windows   int
}

// NewSession validates the rules and starts a game with a random grid.
func NewSession(rules Rules, src TileSource) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: nil tile source", ErrInvalidRules)
	}
	s := &Session{rules: rules, src: src}
	s.Reset()
	return s, nil
}

// NewSessionWithGrid starts a game from a prepared grid. The grid must
// match the rules' shape and hold only alphabet symbols.
func NewSessionWithGrid(rules Rules, src TileSource, grid *Grid) (*Session, error) {
	s, err := NewSession(rules, src)
	if err != nil {
		return nil, err
	}
	if grid.Rows() != rules.Rows || grid.Cols() != rules.Cols {
		return nil, fmt.Errorf("%w: grid %dx%d does not match board %dx%d",
			ErrInvalidRules, grid.Rows(), grid.Cols(), rules.Rows, rules.Cols)
	}
	if !grid.Settled(rules.Kinds) {
		return nil, fmt.Errorf("%w: grid holds tiles outside the alphabet", ErrInvalidRules)
	}
	s.grid = grid.Clone()
	return s, nil
}

// Reset re-seeds the grid and the counters.
func (s *Session) Reset() {
	s.grid = RandomGrid(s.rules.Rows, s.rules.Cols, s.rules.Kinds, s.src)
	s.movesLeft = s.rules.StartingMoves
	s.coins = 0
	s.swaps = 0
	s.windows = 0
}

// Rules returns the rules the session was created with.
func (s *Session) Rules() Rules {
	return s.rules
}

// Grid returns a snapshot of the current grid.
func (s *Session) Grid() *Grid {
	return s.grid.Clone()
}

// MovesLeft returns the remaining move budget.
func (s *Session) MovesLeft() int {
	return s.movesLeft
}

// Coins returns the currency earned so far.
func (s *Session) Coins() int {
	return s.coins
}

// Swaps returns the number of accepted swaps since the last reset.
func (s *Session) Swaps() int {
	return s.swaps
}

// Windows returns the number of matched windows since the last reset.
func (s *Session) Windows() int {
	return s.windows
}

// IsOver reports whether the move budget is exhausted. Swaps are still
// accepted afterwards but ignored.
func (s *Session) IsOver() bool {
	return s.movesLeft == 0
}

// RequestSwap exchanges two cells, spends a move and resolves matches.
//
// Out-of-range coordinates fail with ErrOutOfBounds. With no moves left the
// call is a no-op and returns a result with Applied == false and no error.
// Adjacency is only checked when Rules.EnforceAdjacency is set.
func (s *Session) RequestSwap(a, b Coord) (SwapResult, error) {
	res := SwapResult{A: a, B: b}

	if !s.grid.InBounds(a) {
		return res, fmt.Errorf("%w: %s", ErrOutOfBounds, a)
	}
	if !s.grid.InBounds(b) {
		return res, fmt.Errorf("%w: %s", ErrOutOfBounds, b)
	}
	if s.rules.EnforceAdjacency && !a.Adjacent(b) {
		return res, fmt.Errorf("%w: %s and %s", ErrInvalidSwap, a, b)
	}
	if s.movesLeft <= 0 {
		return res, nil
	}

	swapped := s.grid.Clone()
	swapped.Swap(a, b)
	s.movesLeft = max(s.movesLeft-1, 0)
	s.swaps++

	cascade := Settle(swapped, s.src, s.rules)
	s.grid = cascade.Grid
	s.coins += cascade.Reward

	res.Applied = true
	res.Swapped = swapped
	res.Passes = cascade.Passes
	res.Reward = cascade.Reward
	res.Settled = cascade.Grid.Clone()
	s.windows += res.Windows()
	return res, nil
}
