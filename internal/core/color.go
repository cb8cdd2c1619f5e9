package core

// Color is the foreground color of a screen cell. The platform renderer
// decides the actual terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorGreen
	ColorYellow
	ColorMagenta
	ColorCyan
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightWhite
	ColorOrange
	ColorGray

	// NumColors is the number of defined colors.
	NumColors
)

// tileColors tells tile kinds apart. The order is the kind order.
var tileColors = [...]Color{
	ColorOrange,
	ColorBrightWhite,
	ColorMagenta,
	ColorYellow,
	ColorCyan,
	ColorBrightRed,
	ColorGreen,
	ColorBrightBlue,
}

// TileColor returns the color of the kind-th tile kind, counting from 0.
// Kinds past the palette wrap around.
func TileColor(kind int) Color {
	if kind < 0 {
		return ColorDefault
	}
	return tileColors[kind%len(tileColors)]
}
