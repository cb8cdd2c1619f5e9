package match3

import (
	"fmt"
	"time"

	"github.com/vovakirdan/tui-match3/internal/config"
)

// RewardPolicy selects how matched windows are converted to coins.
type RewardPolicy string

const (
	// RewardFixed pays WindowReward for every detected 3-cell window.
	RewardFixed RewardPolicy = "per_window"
	// RewardCombo multiplies the per-window reward by the cascade depth.
	RewardCombo RewardPolicy = "combo"
)

// Rules configures grid shape, budgets and resolution behavior.
type Rules struct {
	Rows          int
	Cols          int
	Kinds         int // Alphabet size
	StartingMoves int

	WindowReward int
	RewardPolicy RewardPolicy

	// CascadeUntilStable re-runs resolution after a refill until no match
	// remains, bounded by MaxCascadePasses. When false exactly one pass runs.
	CascadeUntilStable bool
	MaxCascadePasses   int

	// EnforceAdjacency rejects non-adjacent swaps with ErrInvalidSwap.
	// When false the caller is trusted to gate adjacency.
	EnforceAdjacency bool

	// ResolveDelay is how long a front end shows the swapped grid before
	// the settled one. It has no effect on the engine itself.
	ResolveDelay time.Duration
}

// DefaultRules returns the reference rule set: 8x8, five symbols, 20 moves,
// 50 coins per window, single resolve pass.
func DefaultRules() Rules {
	return Rules{
		Rows:             8,
		Cols:             8,
		Kinds:            5,
		StartingMoves:    20,
		WindowReward:     50,
		RewardPolicy:     RewardFixed,
		MaxCascadePasses: 50,
		ResolveDelay:     300 * time.Millisecond,
	}
}

// RulesFromConfig converts a loaded YAML config into engine rules.
// Zero-valued fields fall back to DefaultRules.
func RulesFromConfig(cfg config.Match3Config) Rules {
	r := DefaultRules()
	if cfg.Board.Rows > 0 {
		r.Rows = cfg.Board.Rows
	}
	if cfg.Board.Cols > 0 {
		r.Cols = cfg.Board.Cols
	}
	if cfg.Board.Kinds > 0 {
		r.Kinds = cfg.Board.Kinds
	}
	if cfg.Gameplay.StartingMoves > 0 {
		r.StartingMoves = cfg.Gameplay.StartingMoves
	}
	if cfg.Gameplay.EnforceAdjacency {
		r.EnforceAdjacency = true
	}
	if cfg.Gameplay.ResolveDelayMS > 0 {
		r.ResolveDelay = time.Duration(cfg.Gameplay.ResolveDelayMS) * time.Millisecond
	}
	if cfg.Reward.PerWindow > 0 {
		r.WindowReward = cfg.Reward.PerWindow
	}
	if cfg.Reward.Policy != "" {
		r.RewardPolicy = RewardPolicy(cfg.Reward.Policy)
	}
	r.CascadeUntilStable = cfg.Cascade.UntilStable
	if cfg.Cascade.MaxPasses > 0 {
		r.MaxCascadePasses = cfg.Cascade.MaxPasses
	}
	return r
}

// Validate checks that the rules describe a playable board.
func (r Rules) Validate() error {
	switch {
	case r.Rows < 1 || r.Cols < 1:
		return fmt.Errorf("%w: board %dx%d", ErrInvalidRules, r.Rows, r.Cols)
	case r.Kinds < 3 || r.Kinds > MaxKinds:
		return fmt.Errorf("%w: kinds %d not in [3, %d]", ErrInvalidRules, r.Kinds, MaxKinds)
	case r.StartingMoves < 0:
		return fmt.Errorf("%w: negative starting moves", ErrInvalidRules)
	case r.WindowReward < 0:
		return fmt.Errorf("%w: negative window reward", ErrInvalidRules)
	case r.RewardPolicy != RewardFixed && r.RewardPolicy != RewardCombo:
		return fmt.Errorf("%w: unknown reward policy %q", ErrInvalidRules, r.RewardPolicy)
	case r.MaxCascadePasses < 1:
		return fmt.Errorf("%w: max cascade passes must be positive", ErrInvalidRules)
	case r.ResolveDelay < 0:
		return fmt.Errorf("%w: negative resolve delay", ErrInvalidRules)
	}
	return nil
}

// reward computes the coins earned by a pass at the given 1-based depth.
func (r Rules) reward(windows, depth int) int {
	base := windows * r.WindowReward
	if r.RewardPolicy == RewardCombo && depth > 1 {
		return base * depth
	}
	return base
}
