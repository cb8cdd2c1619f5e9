package match3

import (
	"fmt"
	"strings"
)

// Coord addresses a grid cell. Row 0 is the top row, Col 0 the left column.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// C is shorthand for Coord{Row: row, Col: col}.
func C(row, col int) Coord {
	return Coord{Row: row, Col: col}
}

// Adjacent reports whether two coordinates are orthogonal neighbours
// (Manhattan distance exactly 1).
func (c Coord) Adjacent(other Coord) bool {
	return abs(c.Row-other.Row)+abs(c.Col-other.Col) == 1
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is an R×C board of tiles stored in row-major order.
type Grid struct {
	rows  int
	cols  int
	cells []Tile
}

// NewGrid creates a grid with every cell Empty.
func NewGrid(rows, cols int) *Grid {
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Tile, rows*cols),
	}
}

// RandomGrid creates a grid with each cell sampled independently and
// uniformly from an alphabet of the given size.
func RandomGrid(rows, cols, kinds int, src TileSource) *Grid {
	g := NewGrid(rows, cols)
	for i := range g.cells {
		g.cells[i] = randomTile(src, kinds)
	}
	return g
}

// ParseGrid builds a grid from rows of letters ('A' is the first symbol,
// '.' is Empty). All rows must have the same length.
func ParseGrid(rows ...string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("match3: empty grid")
	}
	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, line := range rows {
		if len(line) != cols {
			return nil, fmt.Errorf("match3: row %d has %d cells, want %d", r, len(line), cols)
		}
		for c := 0; c < cols; c++ {
			ch := line[c]
			switch {
			case ch == '.':
				g.Set(C(r, c), Empty)
			case ch >= 'A' && ch < 'A'+MaxKinds:
				g.Set(C(r, c), Tile(ch-'A'+1))
			default:
				return nil, fmt.Errorf("match3: invalid cell %q at %s", ch, C(r, c))
			}
		}
	}
	return g, nil
}

// MustParseGrid is like ParseGrid but panics on malformed input.
func MustParseGrid(rows ...string) *Grid {
	g, err := ParseGrid(rows...)
	if err != nil {
		panic(err)
	}
	return g
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

func (g *Grid) index(c Coord) int {
	return c.Row*g.cols + c.Col
}

// InBounds returns true if the coordinate lies inside the grid.
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// At returns the tile at c, or Empty if c is out of bounds.
func (g *Grid) At(c Coord) Tile {
	if !g.InBounds(c) {
		return Empty
	}
	return g.cells[g.index(c)]
}

// Set places a tile at c. Out-of-bounds coordinates are ignored.
func (g *Grid) Set(c Coord, t Tile) {
	if g.InBounds(c) {
		g.cells[g.index(c)] = t
	}
}

// Swap exchanges the contents of two cells.
func (g *Grid) Swap(a, b Coord) {
	ia, ib := g.index(a), g.index(b)
	g.cells[ia], g.cells[ib] = g.cells[ib], g.cells[ia]
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Tile, len(g.cells))
	copy(cells, g.cells)
	return &Grid{
		rows:  g.rows,
		cols:  g.cols,
		cells: cells,
	}
}

// Equal returns true if both grids have the same shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, t := range g.cells {
		if t != other.cells[i] {
			return false
		}
	}
	return true
}

// Settled reports whether every cell holds a symbol of the alphabet.
func (g *Grid) Settled(kinds int) bool {
	for _, t := range g.cells {
		if !t.Valid(kinds) {
			return false
		}
	}
	return true
}

// Tiles returns the grid as a fresh [row][col] slice.
func (g *Grid) Tiles() [][]Tile {
	out := make([][]Tile, g.rows)
	for r := range out {
		out[r] = make([]Tile, g.cols)
		copy(out[r], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// String renders the grid with one line per row, using Tile.Letter.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for r := 0; r < g.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < g.cols; c++ {
			sb.WriteByte(g.At(C(r, c)).Letter())
		}
	}
	return sb.String()
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
