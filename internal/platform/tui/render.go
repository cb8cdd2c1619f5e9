package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-match3/internal/core"
)

// ansiCodes holds the 256-color code of every core.Color. Tile colors
// (orange, magenta, cyan...) use the brighter 256-color shades so that
// neighbouring kinds stay apart on dark terminals.
var ansiCodes = [core.NumColors]string{
	core.ColorDefault:      "",
	core.ColorGreen:        "77",
	core.ColorYellow:       "220",
	core.ColorMagenta:      "170",
	core.ColorCyan:         "45",
	core.ColorBrightRed:    "203",
	core.ColorBrightGreen:  "10",
	core.ColorBrightYellow: "11",
	core.ColorBrightBlue:   "69",
	core.ColorBrightWhite:  "230",
	core.ColorOrange:       "208",
	core.ColorGray:         "245",
}

var colorStyles = func() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(ansiCodes))
	for c, code := range ansiCodes {
		styles[c] = lipgloss.NewStyle()
		if code != "" {
			styles[c] = styles[c].Foreground(lipgloss.Color(code))
		}
	}
	return styles
}()

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(colorStyles) {
		return colorStyles[c]
	}
	return colorStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string. Runs of cells
// sharing a color are rendered with one style call.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for color, text := range s.Runs(y) {
			if color == core.ColorDefault {
				sb.WriteString(text)
				continue
			}
			sb.WriteString(styleFor(color).Render(text))
		}
	}
	return sb.String()
}
