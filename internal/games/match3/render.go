package match3

import (
	"fmt"

	"github.com/vovakirdan/tui-match3/internal/core"
)

const (
	cellWidth = 3 // marker, glyph, marker
	hudHeight = 3
)

// tileGlyphs are the on-screen letters, one per alphabet symbol.
var tileGlyphs = [...]rune{
	Empty:     ' ',
	Coffee:    'C',
	Milk:      'M',
	Donut:     'D',
	Croissant: 'R',
	Cup:       'U',
	Cookie:    'K',
	Muffin:    'F',
	Tea:       'T',
}

// Glyph returns the rune drawn for a tile.
func (t Tile) Glyph() rune {
	if int(t) < len(tileGlyphs) {
		return tileGlyphs[t]
	}
	return '?'
}

// Color returns the screen color of a tile.
func (t Tile) Color() core.Color {
	if t == Empty {
		return core.ColorDefault
	}
	return core.TileColor(int(t) - 1)
}

// minSize returns the smallest screen that fits the board and HUD.
func (g *Game) minSize() (int, int) {
	boardW := g.rules.Cols*cellWidth + 2
	boardH := g.rules.Rows + 2
	return max(boardW, 34), hudHeight + 1 + boardH + 2
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}

	board := core.CenteredRect(g.screenW, hudHeight+1, g.rules.Cols*cellWidth+2, g.rules.Rows+2)

	g.renderHUD(dst)
	g.renderBoard(dst, board)
	g.renderFooter(dst, board.Bottom())
	cx, cy := board.Center()
	g.renderOverlays(dst, cx, cy)
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

func (g *Game) renderHUD(dst *core.Screen) {
	dst.DrawTextCentered(0, g.Title())

	stats := fmt.Sprintf("Coins: %d   Moves: %d   Swaps: %d",
		g.session.Coins(), g.session.MovesLeft(), g.session.Swaps())
	dst.DrawTextCentered(1, stats)

	if g.lastReward > 0 {
		dst.DrawTextCentered(2, fmt.Sprintf("Last swap: +%d", g.lastReward))
	}
}

// renderBoard draws the grid inside a box. Each cell is three columns wide;
// the outer two carry cursor, selection, hint and match markers.
func (g *Game) renderBoard(dst *core.Screen, board core.Rect) {
	grid := g.displayGrid()
	dst.DrawBox(board)
	inner := board.Inset(1)

	for r := range grid.Rows() {
		for c := range grid.Cols() {
			pos := C(r, c)
			t := grid.At(pos)
			x := inner.X + c*cellWidth
			y := inner.Y + r

			dst.SetColored(x+1, y, t.Glyph(), t.Color())

			left, right, color := g.markers(pos)
			if left != 0 {
				dst.SetColored(x, y, left, color)
				dst.SetColored(x+2, y, right, color)
			}
		}
	}
}

// markers picks the bracket pair shown around a cell, by priority.
func (g *Game) markers(pos Coord) (rune, rune, core.Color) {
	switch {
	case pos == g.cursor:
		return '[', ']', core.ColorBrightWhite
	case g.hasSelection && pos == g.selected:
		return '(', ')', core.ColorBrightYellow
	case g.pending != nil && (pos == g.pending.A || pos == g.pending.B):
		return '~', '~', core.ColorGray
	case g.flashTicks > 0 && g.flash.Contains(pos):
		return '*', '*', core.ColorBrightYellow
	case g.hintRemaining > 0 && (pos == g.hint.A || pos == g.hint.B):
		return '+', '+', core.ColorBrightGreen
	}
	return 0, 0, core.ColorDefault
}

func (g *Game) renderFooter(dst *core.Screen, y int) {
	if g.message != "" {
		dst.DrawTextCentered(y, g.message)
	}
	dst.DrawTextCentered(y+1, g.Controls())
}

func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	if g.paused {
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
		return
	}
	if g.State().GameOver {
		drawOverlay(dst, centerX, centerY,
			"OUT OF MOVES",
			fmt.Sprintf("Coins: %d", g.session.Coins()),
			"Press R to restart")
	}
}

// drawOverlay draws a centered text box.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	boxW := maxLen + 4
	boxH := len(lines) + 2
	boxX := centerX - boxW/2
	boxY := centerY - boxH/2

	box := core.NewRect(boxX, boxY, boxW, boxH)
	dst.Fill(box)
	dst.DrawBox(box)

	for i, line := range lines {
		dst.DrawText(centerX-len(line)/2, boxY+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows: Move | Space: Select | ?: Hint | P: Pause | Q: Quit"
}
