package match3

// Run is a maximal straight line of three or more identical tiles.
type Run struct {
	Start      Coord
	Length     int
	Horizontal bool
	Tile       Tile
}

// Cells returns the coordinates covered by the run, from Start onward.
func (r Run) Cells() []Coord {
	cells := make([]Coord, r.Length)
	for i := range r.Length {
		if r.Horizontal {
			cells[i] = C(r.Start.Row, r.Start.Col+i)
		} else {
			cells[i] = C(r.Start.Row+i, r.Start.Col)
		}
	}
	return cells
}

// Matches is the outcome of scanning a grid for 3-in-a-row windows.
type Matches struct {
	// Cells is the union of every matched coordinate, row-major.
	Cells []Coord
	// Windows counts qualifying 3-cell windows. Overlapping windows along
	// one run each count, so a run of length L contributes L-2.
	Windows int
	// Runs lists the maximal runs, horizontal first.
	Runs []Run

	mask []bool
	cols int
}

// Empty reports whether nothing matched.
func (m Matches) Empty() bool {
	return m.Windows == 0
}

// Contains reports whether c is part of a match.
func (m Matches) Contains(c Coord) bool {
	if m.mask == nil || c.Row < 0 || c.Col < 0 || c.Col >= m.cols {
		return false
	}
	i := c.Row*m.cols + c.Col
	return i < len(m.mask) && m.mask[i]
}

// DetectMatches scans every horizontal and vertical 3-cell window of g
// independently. g is only read.
func DetectMatches(g *Grid) Matches {
	m := Matches{
		mask: make([]bool, g.rows*g.cols),
		cols: g.cols,
	}

	mark := func(c Coord) {
		m.mask[g.index(c)] = true
	}

	// Horizontal windows
	for r := 0; r < g.rows; r++ {
		for c := 0; c+2 < g.cols; c++ {
			a, b, d := C(r, c), C(r, c+1), C(r, c+2)
			if sameTile(g, a, b, d) {
				mark(a)
				mark(b)
				mark(d)
				m.Windows++
			}
		}
	}

	// Vertical windows
	for c := 0; c < g.cols; c++ {
		for r := 0; r+2 < g.rows; r++ {
			a, b, d := C(r, c), C(r+1, c), C(r+2, c)
			if sameTile(g, a, b, d) {
				mark(a)
				mark(b)
				mark(d)
				m.Windows++
			}
		}
	}

	if m.Windows == 0 {
		return m
	}

	for r := 0; r < g.rows; r++ {
		for c := 0; c < g.cols; c++ {
			if m.mask[g.index(C(r, c))] {
				m.Cells = append(m.Cells, C(r, c))
			}
		}
	}
	m.Runs = findRuns(g)
	return m
}

func sameTile(g *Grid, a, b, c Coord) bool {
	t := g.At(a)
	return t != Empty && t == g.At(b) && t == g.At(c)
}

// findRuns collects maximal runs of length >= 3.
func findRuns(g *Grid) []Run {
	var runs []Run

	for r := 0; r < g.rows; r++ {
		start := 0
		for c := 1; c <= g.cols; c++ {
			if c < g.cols && g.At(C(r, c)) == g.At(C(r, start)) {
				continue
			}
			if t := g.At(C(r, start)); t != Empty && c-start >= 3 {
				runs = append(runs, Run{Start: C(r, start), Length: c - start, Horizontal: true, Tile: t})
			}
			start = c
		}
	}

	for c := 0; c < g.cols; c++ {
		start := 0
		for r := 1; r <= g.rows; r++ {
			if r < g.rows && g.At(C(r, c)) == g.At(C(start, c)) {
				continue
			}
			if t := g.At(C(start, c)); t != Empty && r-start >= 3 {
				runs = append(runs, Run{Start: C(start, c), Length: r - start, Tile: t})
			}
			start = r
		}
	}

	return runs
}
