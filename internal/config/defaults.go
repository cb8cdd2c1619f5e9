package config

import (
	_ "embed"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the default match-3 configuration.
func DefaultMatch3Config() Match3Config {
	return Match3Config{
		Board: Match3Board{
			Rows:  8,
			Cols:  8,
			Kinds: 5,
		},
		Gameplay: Match3Gameplay{
			StartingMoves:    20,
			EnforceAdjacency: false,
			ResolveDelayMS:   300,
		},
		Reward: Match3Reward{
			PerWindow: 50,
			Policy:    "per_window",
		},
		Cascade: Match3Cascade{
			UntilStable: false,
			MaxPasses:   50,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "match3", "match3_cascade":
		return defaultMatch3YAML
	default:
		return nil
	}
}
