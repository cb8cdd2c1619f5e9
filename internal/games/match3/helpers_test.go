package match3

import "testing"

// seqSource yields vals in order, wrapping around. Each value is reduced
// modulo n so it always lands inside the alphabet.
type seqSource struct {
	vals  []int
	calls int
}

func (s *seqSource) Intn(n int) int {
	v := s.vals[s.calls%len(s.vals)] % n
	s.calls++
	return v
}

// stripes returns an 8x8 grid with no 3-windows and no matching swap:
// even rows alternate B/C, odd rows alternate D/E.
func stripes() []string {
	rows := make([]string, 8)
	for r := range rows {
		if r%2 == 0 {
			rows[r] = "BCBCBCBC"
		} else {
			rows[r] = "DEDEDEDE"
		}
	}
	return rows
}

// stripesWithBottom replaces the last row of stripes().
func stripesWithBottom(bottom string) *Grid {
	rows := stripes()
	rows[len(rows)-1] = bottom
	return MustParseGrid(rows...)
}

func testRules(kinds int) Rules {
	r := DefaultRules()
	r.Kinds = kinds
	return r
}

func mustSession(t *testing.T, rules Rules, src TileSource, g *Grid) *Session {
	t.Helper()
	s, err := NewSessionWithGrid(rules, src, g)
	if err != nil {
		t.Fatalf("NewSessionWithGrid() failed: %v", err)
	}
	return s
}
