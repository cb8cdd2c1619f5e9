package match3

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateResolving   GameStateType = "resolving"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "classic" or "cascade"
	Coins     int
	MovesLeft int
	Swaps     int
	Grid      string // Grid.String() form, pre-resolution while resolving
	Cursor    Coord
	Selected  *Coord
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.pending != nil:
		state = StateResolving
	case g.session.IsOver():
		state = StateGameOver
	}

	var selected *Coord
	if g.hasSelection {
		sel := g.selected
		selected = &sel
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Coins:     g.session.Coins(),
		MovesLeft: g.session.MovesLeft(),
		Swaps:     g.session.Swaps(),
		Grid:      g.displayGrid().String(),
		Cursor:    g.cursor,
		Selected:  selected,
		State:     state,
	}
}
