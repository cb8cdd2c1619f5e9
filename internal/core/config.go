package core

import "time"

// DefaultTickRate is used whenever a config leaves TickRate unset.
const DefaultTickRate = 60

// RuntimeConfig is what a game learns about its host on Reset.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int   // ticks per second
	Seed     int64 // 0 lets the platform pick one from the clock

	// Difficulty names a preset for this game only. Empty keeps the
	// process-wide default.
	Difficulty string
}

// DefaultConfig returns an 80x24 screen at the default tick rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: DefaultTickRate}
}

func (c RuntimeConfig) rate() int {
	if c.TickRate <= 0 {
		return DefaultTickRate
	}
	return c.TickRate
}

// TickInterval is the wall-clock length of one tick.
func (c RuntimeConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(c.rate())
}

// Ticks converts d to ticks, rounding up so any positive duration lasts at
// least one tick.
func (c RuntimeConfig) Ticks(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	rate := int64(c.rate())
	return int((int64(d)*rate + int64(time.Second) - 1) / int64(time.Second))
}

// GameState is the part of a game's status the platform acts on.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
	// Events lists notable things that happened during the tick, for logging.
	Events []string
}
