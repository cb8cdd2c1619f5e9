package match3

// Tile is a symbol occupying one grid cell.
// Tiles carry no identity beyond their symbol.
type Tile uint8

// Empty marks a cell vacated mid-resolution. A settled grid never contains it.
const Empty Tile = 0

// Reference alphabet.
const (
	Coffee Tile = iota + 1
	Milk
	Donut
	Croissant
	Cup
	Cookie
	Muffin
	Tea
)

// MaxKinds is the largest supported alphabet size.
const MaxKinds = 8

var tileNames = [...]string{
	Empty:     "empty",
	Coffee:    "coffee",
	Milk:      "milk",
	Donut:     "donut",
	Croissant: "croissant",
	Cup:       "cup",
	Cookie:    "cookie",
	Muffin:    "muffin",
	Tea:       "tea",
}

// String returns the tile's name.
func (t Tile) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return "unknown"
}

// Letter returns the single-character code used by ParseGrid and Grid.String.
// Empty is '.', symbols are 'A' onwards.
func (t Tile) Letter() byte {
	if t == Empty {
		return '.'
	}
	return 'A' + byte(t) - 1
}

// Valid reports whether t is a symbol of an alphabet with the given size.
func (t Tile) Valid(kinds int) bool {
	return t >= 1 && int(t) <= kinds
}

// TileSource supplies randomness for tile sampling.
// *rand.Rand satisfies it.
type TileSource interface {
	Intn(n int) int
}

// randomTile samples a symbol uniformly from an alphabet of the given size.
func randomTile(src TileSource, kinds int) Tile {
	return Tile(src.Intn(kinds) + 1)
}
