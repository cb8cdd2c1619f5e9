// Package config provides YAML-based rules loading and difficulty presets
// for the match-3 engine.
package config

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Board    Match3Board    `yaml:"board"`
	Gameplay Match3Gameplay `yaml:"gameplay"`
	Reward   Match3Reward   `yaml:"reward"`
	Cascade  Match3Cascade  `yaml:"cascade"`
}

// Match3Board defines grid dimensions and alphabet size.
type Match3Board struct {
	Rows  int `yaml:"rows"`
	Cols  int `yaml:"cols"`
	Kinds int `yaml:"kinds"`
}

// Match3Gameplay defines move budget and swap handling.
type Match3Gameplay struct {
	StartingMoves    int  `yaml:"starting_moves"`
	EnforceAdjacency bool `yaml:"enforce_adjacency"`
	ResolveDelayMS   int  `yaml:"resolve_delay_ms"`
}

// Match3Reward defines how matches pay out.
type Match3Reward struct {
	PerWindow int    `yaml:"per_window"`
	Policy    string `yaml:"policy"` // "per_window" or "combo"
}

// Match3Cascade controls repeated resolution after a refill.
type Match3Cascade struct {
	UntilStable bool `yaml:"until_stable"`
	MaxPasses   int  `yaml:"max_passes"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ParsePreset maps a CLI string to a preset. Unknown values yield "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return DifficultyPreset(s)
	default:
		return ""
	}
}
