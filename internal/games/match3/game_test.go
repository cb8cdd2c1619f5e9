package match3

import (
	"strings"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

func frame(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func newTestGame(t *testing.T, rules Rules, seed int64) *Game {
	t.Helper()
	g := NewWithRules(rules)
	cfg := core.DefaultConfig()
	cfg.Seed = seed
	g.Reset(cfg)
	return g
}

func TestGameRegistered(t *testing.T) {
	for _, id := range []string{"match3", "match3_cascade"} {
		g, err := registry.Create(id)
		if err != nil {
			t.Fatalf("registry.Create(%q) failed: %v", id, err)
		}
		if g.ID() != id {
			t.Errorf("ID() = %q, want %q", g.ID(), id)
		}
	}
}

func TestGameDeterminism(t *testing.T) {
	inputs := []core.InputFrame{
		frame(core.ActionSelect),
		frame(core.ActionRight),
		frame(core.ActionSelect),
	}
	for range 30 {
		inputs = append(inputs, frame())
	}
	inputs = append(inputs, frame(core.ActionDown), frame(core.ActionSelect), frame(core.ActionUp), frame(core.ActionSelect))

	run := func() []Snapshot {
		g := newTestGame(t, DefaultRules(), 12345)
		var snaps []Snapshot
		for _, in := range inputs {
			g.Step(in)
			snaps = append(snaps, g.Snapshot())
		}
		return snaps
	}

	a, b := run(), run()
	for i := range a {
		if a[i].Grid != b[i].Grid || a[i].Coins != b[i].Coins || a[i].MovesLeft != b[i].MovesLeft {
			t.Fatalf("snapshots diverge at step %d", i)
		}
	}
}

func TestGameCursorClamp(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 1)

	for range 20 {
		g.Step(frame(core.ActionUp))
		g.Step(frame(core.ActionLeft))
	}
	if g.cursor != C(0, 0) {
		t.Errorf("cursor = %s, want (0,0)", g.cursor)
	}

	for range 20 {
		g.Step(frame(core.ActionDown))
		g.Step(frame(core.ActionRight))
	}
	if g.cursor != C(7, 7) {
		t.Errorf("cursor = %s, want (7,7)", g.cursor)
	}
}

func TestGameSelection(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 1)
	start := g.cursor

	g.Step(frame(core.ActionSelect))
	if !g.hasSelection || g.selected != start {
		t.Fatal("first select should pick the cursor cell")
	}

	g.Step(frame(core.ActionSelect))
	if g.hasSelection {
		t.Fatal("selecting the same cell again should deselect")
	}

	g.Step(frame(core.ActionSelect))
	g.Step(frame(core.ActionRight))
	g.Step(frame(core.ActionRight))
	g.Step(frame(core.ActionSelect))
	if !g.hasSelection || g.selected != C(start.Row, start.Col+2) {
		t.Error("selecting a distant cell should move the selection")
	}
	if g.session.MovesLeft() != 20 {
		t.Error("moving the selection must not spend a move")
	}
}

func TestGameSwapDelay(t *testing.T) {
	rules := DefaultRules()
	g := newTestGame(t, rules, 7)
	delay := core.DefaultConfig().Ticks(rules.ResolveDelay)

	g.Step(frame(core.ActionSelect))
	g.Step(frame(core.ActionRight))
	res := g.Step(frame(core.ActionSelect))

	if len(res.Events) != 1 {
		t.Fatalf("events = %v, want one swap event", res.Events)
	}
	if g.session.MovesLeft() != 19 {
		t.Errorf("MovesLeft = %d, want 19", g.session.MovesLeft())
	}
	if g.Snapshot().State != StateResolving {
		t.Fatalf("state = %s, want resolving", g.Snapshot().State)
	}

	// Input is ignored while resolving
	cursor := g.cursor
	for range delay - 1 {
		g.Step(frame(core.ActionLeft))
	}
	if g.cursor != cursor {
		t.Error("cursor moved during the resolve delay")
	}
	if g.Snapshot().State != StateResolving {
		t.Fatal("resolved too early")
	}

	g.Step(frame())
	snap := g.Snapshot()
	if snap.State != StatePlaying {
		t.Fatalf("state = %s after delay, want playing", snap.State)
	}
	if snap.Grid != g.session.grid.String() {
		t.Error("display grid should be the settled grid")
	}
}

func TestGameOverWhenMovesRunOut(t *testing.T) {
	rules := DefaultRules()
	rules.StartingMoves = 1
	rules.ResolveDelay = 0
	g := newTestGame(t, rules, 3)

	g.Step(frame(core.ActionSelect))
	g.Step(frame(core.ActionDown))
	g.Step(frame(core.ActionSelect))

	st := g.State()
	if !st.GameOver {
		t.Fatal("game should be over after the last move")
	}
	if st.Score != g.session.Coins() {
		t.Errorf("Score = %d, want coins %d", st.Score, g.session.Coins())
	}

	before := g.Snapshot()
	g.Step(frame(core.ActionLeft))
	g.Step(frame(core.ActionSelect))
	if g.cursor != before.Cursor {
		t.Error("input accepted after game over")
	}
}

func TestGamePause(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 1)
	cursor := g.cursor

	g.Step(frame(core.ActionPause))
	g.Step(frame(core.ActionUp))
	if !g.State().Paused || g.cursor != cursor {
		t.Error("paused game should ignore movement")
	}

	g.Step(frame(core.ActionPause))
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestGameHint(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 1)
	g.Step(frame(core.ActionHint))

	if HasMoves(g.session.grid) {
		if g.hintRemaining == 0 {
			t.Error("hint not shown")
		}
		work := g.session.Grid()
		work.Swap(g.hint.A, g.hint.B)
		if DetectMatches(work).Empty() {
			t.Errorf("hint %+v does not create a match", g.hint)
		}
	} else if g.message == "" {
		t.Error("expected a no-moves message")
	}
}

func TestGameRender(t *testing.T) {
	g := newTestGame(t, DefaultRules(), 1)
	scr := core.NewScreen(80, 24)
	g.Render(scr)

	out := scr.String()
	for _, want := range []string{"Coffee Match", "Coins: 0", "Moves: 20"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestGameTooSmall(t *testing.T) {
	g := NewWithRules(DefaultRules())
	cfg := core.DefaultConfig()
	cfg.ScreenW, cfg.ScreenH = 20, 8
	g.Reset(cfg)

	if !g.State().Paused {
		t.Error("a too small screen should pause the game")
	}
	scr := core.NewScreen(20, 8)
	g.Render(scr)
	if !strings.Contains(scr.String(), "Window too small") {
		t.Error("expected too small message")
	}
}

func TestCascadeModeSetsRule(t *testing.T) {
	g := NewCascade()
	g.Reset(core.DefaultConfig())
	if !g.rules.CascadeUntilStable {
		t.Error("cascade mode should resolve until stable")
	}
	if g.ID() != "match3_cascade" {
		t.Errorf("ID() = %q", g.ID())
	}
}

func TestGameDifficultyPerReset(t *testing.T) {
	tests := []struct {
		difficulty string
		moves      int
		kinds      int
	}{
		{"easy", 30, 4},
		{"hard", 12, 6},
	}
	for _, tt := range tests {
		t.Run(tt.difficulty, func(t *testing.T) {
			g := New()
			cfg := core.DefaultConfig()
			cfg.Seed = 3
			cfg.Difficulty = tt.difficulty
			g.Reset(cfg)

			if g.rules.StartingMoves != tt.moves || g.rules.Kinds != tt.kinds {
				t.Errorf("rules = %d moves, %d kinds; want %d, %d",
					g.rules.StartingMoves, g.rules.Kinds, tt.moves, tt.kinds)
			}
			if g.Session().MovesLeft() != tt.moves {
				t.Errorf("MovesLeft() = %d, want %d", g.Session().MovesLeft(), tt.moves)
			}
		})
	}
}
