package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
)

const svgDefs = `  <defs>
    <marker id="head" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="6" markerHeight="6" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="context-stroke"/>
    </marker>
  </defs>
`

// SVGOption configures an SVGSurface.
type SVGOption func(*SVGSurface)

// WithBackground fills the viewport with c before any primitive is drawn.
func WithBackground(c Color) SVGOption { return func(s *SVGSurface) { s.background = c } }

// WithFont sets the font family used by Text.
func WithFont(family string) SVGOption { return func(s *SVGSurface) { s.font = family } }

// WithStrokeWidth sets the stroke width for outlines and arrows.
func WithStrokeWidth(w float64) SVGOption { return func(s *SVGSurface) { s.strokeWidth = w } }

// SVGSurface is a Surface that accumulates SVG elements. Call Bytes to obtain
// the finished document.
type SVGSurface struct {
	view        Rect
	color       Color
	background  Color
	font        string
	strokeWidth float64
	body        bytes.Buffer
}

// NewSVGSurface creates a surface whose viewBox is view.
func NewSVGSurface(view Rect, opts ...SVGOption) *SVGSurface {
	s := &SVGSurface{
		view:        view,
		color:       Black,
		font:        "sans-serif",
		strokeWidth: 2,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Viewport implements Bounds.
func (s *SVGSurface) Viewport() Rect { return s.view }

// SetColor implements Surface.
func (s *SVGSurface) SetColor(c Color) { s.color = c }

// FillCircle implements Surface.
func (s *SVGSurface) FillCircle(x, y, r int) {
	fmt.Fprintf(&s.body, `  <circle cx="%d" cy="%d" r="%d" fill="%s"/>`+"\n", x, y, r, s.color)
}

// StrokeCircle implements Surface.
func (s *SVGSurface) StrokeCircle(x, y, r int) {
	fmt.Fprintf(&s.body, `  <circle cx="%d" cy="%d" r="%d" fill="none" stroke="%s" stroke-width="%.1f"/>`+"\n",
		x, y, r, s.color, s.strokeWidth)
}

// Text implements Surface.
func (s *SVGSurface) Text(str string, x, y, size int) {
	fmt.Fprintf(&s.body, `  <text x="%d" y="%d" font-family="%s" font-size="%d" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		x, y, html.EscapeString(s.font), size, s.color, html.EscapeString(str))
}

// Arrow implements Surface.
func (s *SVGSurface) Arrow(x1, y1, x2, y2 int) {
	fmt.Fprintf(&s.body, `  <line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%.1f" marker-end="url(#head)"/>`+"\n",
		x1, y1, x2, y2, s.color, s.strokeWidth)
}

// ArcArrow implements Surface.
func (s *SVGSurface) ArcArrow(box Rect, start, extent int) {
	if box.Empty() || extent == 0 {
		return
	}
	sx, sy := ellipsePoint(box, float64(start))
	ex, ey := ellipsePoint(box, float64(start+extent))
	large := 0
	if math.Abs(float64(extent)) > 180 {
		large = 1
	}
	// Positive extents run counter-clockwise on screen, which is SVG's
	// negative sweep direction.
	sweep := 0
	if extent < 0 {
		sweep = 1
	}
	fmt.Fprintf(&s.body, `  <path d="M %.1f %.1f A %.1f %.1f 0 %d %d %.1f %.1f" fill="none" stroke="%s" stroke-width="%.1f" marker-end="url(#head)"/>`+"\n",
		sx, sy, float64(box.W)/2, float64(box.H)/2, large, sweep, ex, ey, s.color, s.strokeWidth)
}

// Bytes returns the complete SVG document painted so far.
func (s *SVGSurface) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d" width="%d" height="%d">`+"\n",
		s.view.X, s.view.Y, s.view.W, s.view.H, s.view.W, s.view.H)
	buf.WriteString(svgDefs)
	if s.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
			s.view.X, s.view.Y, s.view.W, s.view.H, s.background)
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

var _ Surface = (*SVGSurface)(nil)
