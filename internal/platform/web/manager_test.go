package web

import (
	"errors"
	"sync"
	"testing"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager(match3.DefaultRules(), 0)

	gs, err := m.Create("", 1)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if gs.Variant != VariantClassic {
		t.Errorf("variant = %q, want %q", gs.Variant, VariantClassic)
	}

	got, err := m.Get(gs.ID)
	if err != nil || got != gs {
		t.Fatalf("Get() = %v, %v", got, err)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}

	if err := m.Delete(gs.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := m.Get(gs.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Get() after delete = %v, want ErrSessionNotFound", err)
	}
	if err := m.Delete(gs.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("second Delete() = %v, want ErrSessionNotFound", err)
	}
}

func TestManagerVariants(t *testing.T) {
	m := NewManager(match3.DefaultRules(), 0)

	tests := []struct {
		variant string
		wantErr error
	}{
		{"", nil},
		{VariantClassic, nil},
		{VariantCascade, nil},
		{"pong", match3.ErrInvalidRules},
	}
	for _, tt := range tests {
		t.Run(tt.variant, func(t *testing.T) {
			_, err := m.Create(tt.variant, 0)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create(%q) error = %v, want %v", tt.variant, err, tt.wantErr)
			}
		})
	}
}

func TestManagerInvalidRules(t *testing.T) {
	rules := match3.DefaultRules()
	rules.Kinds = 2
	m := NewManager(rules, 0)

	if _, err := m.Create("", 0); !errors.Is(err, match3.ErrInvalidRules) {
		t.Errorf("Create() error = %v, want ErrInvalidRules", err)
	}
	if m.Count() != 0 {
		t.Errorf("failed create left %d sessions", m.Count())
	}
}

func TestGameSessionConcurrentSwaps(t *testing.T) {
	m := NewManager(match3.DefaultRules(), 0)
	gs, err := m.Create("", 9)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			col := i % 7
			if _, err := gs.Swap(match3.C(i%8, col), match3.C(i%8, col+1)); err != nil {
				t.Errorf("Swap() failed: %v", err)
			}
			gs.State()
			gs.Hint()
		}(i)
	}
	wg.Wait()

	st := gs.State()
	if st.MovesLeft != 0 || st.Swaps != 20 || !st.Over {
		t.Errorf("after 30 swaps: moves=%d swaps=%d over=%v, want 0 20 true", st.MovesLeft, st.Swaps, st.Over)
	}

	coins, swaps, _, ok := gs.finished()
	if !ok || coins != st.Coins || swaps != 20 {
		t.Errorf("finished() = %d %d %v", coins, swaps, ok)
	}
	if _, _, _, ok := gs.finished(); ok {
		t.Error("finished() reported the same game twice")
	}
}
