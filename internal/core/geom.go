// Package core holds the platform types shared by the game and its front
// ends: the screen buffer, layout rectangles, input actions and runtime
// settings. It has no Bubble Tea dependency so games stay testable.
package core

// Rect is an axis-aligned screen rectangle. X, Y is the top-left cell.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// CenteredRect places a w×h rectangle at row y, centered in a screen of
// the given width. The left edge never goes below 0.
func CenteredRect(screenW, y, w, h int) Rect {
	return Rect{X: max((screenW-w)/2, 0), Y: y, W: w, H: h}
}

// Right returns the first column past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the first row past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Center returns the middle cell, rounding toward the top-left.
func (r Rect) Center() (x, y int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Inset shrinks the rectangle by n cells on every side, e.g. to get the
// interior of a box border. The size never goes negative.
func (r Rect) Inset(n int) Rect {
	return Rect{X: r.X + n, Y: r.Y + n, W: max(r.W-2*n, 0), H: max(r.H-2*n, 0)}
}

// Contains reports whether the cell (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	return min(max(val, lo), hi)
}
