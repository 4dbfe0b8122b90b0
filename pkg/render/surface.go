package render

import (
	"math"
)

// Color is a CSS color string, usually "#rrggbb".
type Color string

// Palette used by the scenario producers.
const (
	Black  Color = "#000000"
	White  Color = "#ffffff"
	Red    Color = "#d62728"
	Green  Color = "#2ca02c"
	Blue   Color = "#1f77b4"
	Yellow Color = "#f5c542"
	Gray   Color = "#9e9e9e"
	Orange Color = "#ff7f0e"
)

// Rect is an axis-aligned rectangle. The zero Rect is empty.
type Rect struct {
	X, Y int
	W, H int
}

// Contains reports whether (x, y) lies inside r. The right and bottom edges
// are exclusive.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Bounds reports the currently visible region.
type Bounds interface {
	Viewport() Rect
}

// Surface is the renderer port. Implementations are not required to be safe
// for concurrent use; a frame is painted by one goroutine.
type Surface interface {
	Bounds

	// SetColor sets the color used by subsequent primitives.
	SetColor(c Color)

	// FillCircle paints a filled disc centered at (x, y).
	FillCircle(x, y, r int)

	// StrokeCircle paints a circle outline centered at (x, y).
	StrokeCircle(x, y, r int)

	// Text paints s centered at (x, y).
	Text(s string, x, y, size int)

	// Arrow paints a straight arrow from (x1, y1) with its head at (x2, y2).
	Arrow(x1, y1, x2, y2 int)

	// ArcArrow paints the part of the ellipse inscribed in box that starts at
	// angle start and spans extent degrees, with an arrowhead at the end.
	ArcArrow(box Rect, start, extent int)
}

// FixedBounds is a Bounds with a constant viewport.
type FixedBounds Rect

// Viewport implements Bounds.
func (b FixedBounds) Viewport() Rect { return Rect(b) }

// ellipsePoint returns the point at angle deg on the ellipse inscribed in box.
func ellipsePoint(box Rect, deg float64) (float64, float64) {
	rx, ry := float64(box.W)/2, float64(box.H)/2
	cx, cy := float64(box.X)+rx, float64(box.Y)+ry
	rad := deg * math.Pi / 180
	return cx + rx*math.Cos(rad), cy - ry*math.Sin(rad)
}
