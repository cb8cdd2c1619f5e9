package match3

// Resolution is the outcome of one match/remove/collapse/refill pass.
type Resolution struct {
	Grid       *Grid // Fully settled grid after the pass
	Matches    Matches
	Reward     int
	MatchedAny bool
	Depth      int // 1 for the pass directly after a swap
}

// Resolve runs a single pass over g without modifying it. If nothing
// matches, the returned grid has identical contents and the reward is 0.
func Resolve(g *Grid, src TileSource, rules Rules) Resolution {
	return resolvePass(g, src, rules, 1)
}

func resolvePass(g *Grid, src TileSource, rules Rules, depth int) Resolution {
	matches := DetectMatches(g)
	if matches.Empty() {
		return Resolution{Grid: g.Clone(), Matches: matches, Depth: depth}
	}

	work := g.Clone()
	for _, c := range matches.Cells {
		work.Set(c, Empty)
	}
	Collapse(work)
	Refill(work, src, rules.Kinds)

	return Resolution{
		Grid:       work,
		Matches:    matches,
		Reward:     rules.reward(matches.Windows, depth),
		MatchedAny: true,
		Depth:      depth,
	}
}

// Collapse lets tiles fall toward the bottom of each column, keeping their
// top-to-bottom order. Vacated cells at the top of the column become Empty.
func Collapse(g *Grid) {
	for c := 0; c < g.cols; c++ {
		write := g.rows - 1
		for r := g.rows - 1; r >= 0; r-- {
			t := g.At(C(r, c))
			if t == Empty {
				continue
			}
			if write != r {
				g.Set(C(write, c), t)
				g.Set(C(r, c), Empty)
			}
			write--
		}
	}
}

// Refill samples a fresh tile for every Empty cell, column by column from
// the top. Returns the number of cells filled.
func Refill(g *Grid, src TileSource, kinds int) int {
	filled := 0
	for c := 0; c < g.cols; c++ {
		for r := 0; r < g.rows; r++ {
			if g.At(C(r, c)) == Empty {
				g.Set(C(r, c), randomTile(src, kinds))
				filled++
			}
		}
	}
	return filled
}

// Cascade is the chain of passes triggered by one swap.
type Cascade struct {
	// Passes holds every pass that matched something, in order.
	Passes []Resolution
	Grid   *Grid
	Reward int
}

// Settle resolves g once, or repeatedly when rules.CascadeUntilStable is set.
// Repetition stops when a pass matches nothing or after
// rules.MaxCascadePasses passes.
func Settle(g *Grid, src TileSource, rules Rules) Cascade {
	out := Cascade{Grid: g.Clone()}

	maxPasses := 1
	if rules.CascadeUntilStable {
		maxPasses = max(rules.MaxCascadePasses, 1)
	}

	for depth := 1; depth <= maxPasses; depth++ {
		res := resolvePass(out.Grid, src, rules, depth)
		if !res.MatchedAny {
			break
		}
		out.Passes = append(out.Passes, res)
		out.Grid = res.Grid
		out.Reward += res.Reward
	}

	return out
}
