package match3

// Move is a pair of cells to swap.
type Move struct {
	A Coord `json:"a"`
	B Coord `json:"b"`
}

// FindMoves lists every adjacent swap that would create at least one match,
// scanning row-major and trying the right then the lower neighbour.
func FindMoves(g *Grid) []Move {
	var moves []Move
	work := g.Clone()

	try := func(a, b Coord) {
		if !work.InBounds(b) || work.At(a) == work.At(b) {
			return
		}
		work.Swap(a, b)
		if formsMatchAt(work, a) || formsMatchAt(work, b) {
			moves = append(moves, Move{A: a, B: b})
		}
		work.Swap(a, b)
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			try(C(r, c), C(r, c+1))
			try(C(r, c), C(r+1, c))
		}
	}
	return moves
}

// Hint returns the first available matching move.
func Hint(g *Grid) (Move, bool) {
	moves := FindMoves(g)
	if len(moves) == 0 {
		return Move{}, false
	}
	return moves[0], true
}

// HasMoves reports whether any adjacent swap creates a match.
func HasMoves(g *Grid) bool {
	_, ok := Hint(g)
	return ok
}

// formsMatchAt reports whether c is covered by a 3-window in g.
func formsMatchAt(g *Grid, c Coord) bool {
	t := g.At(c)
	if t == Empty {
		return false
	}
	return lineLength(g, c, 0, 1) >= 3 || lineLength(g, c, 1, 0) >= 3
}

// lineLength counts identical tiles through c along (dr, dc) in both directions.
func lineLength(g *Grid, c Coord, dr, dc int) int {
	t := g.At(c)
	n := 1
	for p := C(c.Row+dr, c.Col+dc); g.InBounds(p) && g.At(p) == t; p = C(p.Row+dr, p.Col+dc) {
		n++
	}
	for p := C(c.Row-dr, c.Col-dc); g.InBounds(p) && g.At(p) == t; p = C(p.Row-dr, p.Col-dc) {
		n++
	}
	return n
}
