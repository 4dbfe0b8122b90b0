package render

import (
	"math"
	"strings"
)

// Braille patterns pack 2x4 dots in one cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
var brailleBits = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a Surface that rasterizes into a grid of braille cells so that
// frames can be shown in a terminal. World coordinates inside the viewport
// are scaled onto the grid's sub-pixels (2 per column, 4 per row). Colors are
// ignored.
type Canvas struct {
	Width, Height int
	view          Rect
	dots          [][]rune
	text          [][]rune
}

// NewCanvas creates a canvas of w columns and h rows showing view.
func NewCanvas(w, h int, view Rect) *Canvas {
	c := &Canvas{Width: w, Height: h, view: view}
	c.dots = make([][]rune, h)
	c.text = make([][]rune, h)
	for i := range c.dots {
		c.dots[i] = make([]rune, w)
		c.text[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Clear resets every cell.
func (c *Canvas) Clear() {
	for i := range c.dots {
		for j := range c.dots[i] {
			c.dots[i][j] = brailleBlank
			c.text[i][j] = 0
		}
	}
}

// Viewport implements Bounds.
func (c *Canvas) Viewport() Rect { return c.view }

// SetColor implements Surface. The canvas is monochrome.
func (c *Canvas) SetColor(Color) {}

// FillCircle implements Surface.
func (c *Canvas) FillCircle(x, y, r int) {
	px, py := c.project(float64(x), float64(y))
	rx, ry := c.scaleX(float64(r)), c.scaleY(float64(r))
	for dy := -ry; dy <= ry; dy++ {
		for dx := -rx; dx <= rx; dx++ {
			if rx == 0 || ry == 0 || sq(float64(dx)/float64(rx))+sq(float64(dy)/float64(ry)) <= 1 {
				c.set(px+dx, py+dy)
			}
		}
	}
}

// StrokeCircle implements Surface.
func (c *Canvas) StrokeCircle(x, y, r int) {
	box := Rect{X: x - r, Y: y - r, W: 2 * r, H: 2 * r}
	c.polyline(box, 0, 360)
}

// Text implements Surface. Text is overlaid on whole cells and clears the
// dots beneath it.
func (c *Canvas) Text(s string, x, y, _ int) {
	px, py := c.project(float64(x), float64(y))
	row := py / 4
	runes := []rune(s)
	col := px/2 - len(runes)/2
	if row < 0 || row >= c.Height {
		return
	}
	for i, r := range runes {
		if cc := col + i; cc >= 0 && cc < c.Width {
			c.text[row][cc] = r
		}
	}
}

// Arrow implements Surface. The head is drawn as a small cross-bar.
func (c *Canvas) Arrow(x1, y1, x2, y2 int) {
	ax, ay := c.project(float64(x1), float64(y1))
	bx, by := c.project(float64(x2), float64(y2))
	c.line(ax, ay, bx, by)

	dx, dy := float64(bx-ax), float64(by-ay)
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	ux, uy := dx/l, dy/l
	const head = 3.0
	for _, side := range []float64{-1, 1} {
		hx := float64(bx) - head*ux + side*head*0.6*-uy
		hy := float64(by) - head*uy + side*head*0.6*ux
		c.line(bx, by, int(math.Round(hx)), int(math.Round(hy)))
	}
}

// ArcArrow implements Surface.
func (c *Canvas) ArcArrow(box Rect, start, extent int) {
	if box.Empty() || extent == 0 {
		return
	}
	c.polyline(box, float64(start), float64(extent))
}

// String returns the grid with text overlaid on the dots.
func (c *Canvas) String() string {
	var b strings.Builder
	for i := range c.dots {
		for j := range c.dots[i] {
			if c.text[i][j] != 0 {
				b.WriteRune(c.text[i][j])
				continue
			}
			b.WriteRune(c.dots[i][j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// polyline approximates an elliptical arc with short segments.
func (c *Canvas) polyline(box Rect, start, extent float64) {
	const segments = 24
	x0, y0 := ellipsePoint(box, start)
	pa, pb := c.project(x0, y0)
	for i := 1; i <= segments; i++ {
		x, y := ellipsePoint(box, start+extent*float64(i)/segments)
		qa, qb := c.project(x, y)
		c.line(pa, pb, qa, qb)
		pa, pb = qa, qb
	}
}

// project maps world coordinates to sub-pixel coordinates.
func (c *Canvas) project(x, y float64) (int, int) {
	if c.view.Empty() {
		return int(x), int(y)
	}
	px := (x - float64(c.view.X)) * float64(c.Width*2) / float64(c.view.W)
	py := (y - float64(c.view.Y)) * float64(c.Height*4) / float64(c.view.H)
	return int(math.Round(px)), int(math.Round(py))
}

func (c *Canvas) scaleX(v float64) int {
	if c.view.Empty() {
		return int(v)
	}
	return int(math.Round(v * float64(c.Width*2) / float64(c.view.W)))
}

func (c *Canvas) scaleY(v float64) int {
	if c.view.Empty() {
		return int(v)
	}
	return int(math.Round(v * float64(c.Height*4) / float64(c.view.H)))
}

func (c *Canvas) set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.dots[row][col] |= brailleBits[y%4][x%2]
}

// line draws a line using Bresenham's algorithm.
func (c *Canvas) line(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), absInt(y1-y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sq(v float64) float64 { return v * v }

var _ Surface = (*Canvas)(nil)
