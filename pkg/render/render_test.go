package render

import (
	"context"
	"strings"
	"testing"
)

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	tests := []struct {
		name string
		x, y int
		want bool
	}{
		{"origin", 0, 0, true},
		{"inside", 50, 25, true},
		{"right edge exclusive", 100, 10, false},
		{"bottom edge exclusive", 10, 50, false},
		{"left of", -1, 10, false},
		{"above", 10, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRectEmpty(t *testing.T) {
	if !(Rect{}).Empty() {
		t.Error("zero Rect should be empty")
	}
	if (Rect{W: 1, H: 1}).Empty() {
		t.Error("1x1 Rect should not be empty")
	}
}

func TestSVGSurface(t *testing.T) {
	s := NewSVGSurface(Rect{W: 200, H: 100}, WithBackground(White))
	s.SetColor(Red)
	s.FillCircle(10, 20, 5)
	s.SetColor(Black)
	s.StrokeCircle(10, 20, 9)
	s.Text("<7>", 10, 20, 14)
	s.Arrow(0, 0, 10, 10)
	s.ArcArrow(Rect{X: 0, Y: 0, W: 40, H: 20}, 180, -180)

	out := string(s.Bytes())

	wants := []string{
		`viewBox="0 0 200 100"`,
		`<circle cx="10" cy="20" r="5" fill="#d62728"/>`,
		`fill="none" stroke="#000000"`,
		`&lt;7&gt;`,
		`marker-end="url(#head)"`,
		`<path d="M 0.0 10.0 A 20.0 10.0 0 0 1 40.0 10.0"`,
		`<rect x="0" y="0" width="200" height="100" fill="#ffffff"/>`,
	}
	for _, w := range wants {
		if !strings.Contains(out, w) {
			t.Errorf("SVG missing %q\n%s", w, out)
		}
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("SVG should be closed")
	}
}

func TestSVGSurfaceSkipsDegenerateArc(t *testing.T) {
	s := NewSVGSurface(Rect{W: 10, H: 10})
	s.ArcArrow(Rect{}, 0, 90)
	s.ArcArrow(Rect{W: 10, H: 10}, 0, 0)
	body := strings.Replace(string(s.Bytes()), svgDefs, "", 1)
	if strings.Contains(body, "<path") {
		t.Errorf("degenerate arcs should not be drawn\n%s", body)
	}
}

func TestCanvas(t *testing.T) {
	c := NewCanvas(20, 5, Rect{W: 40, H: 20})
	blank := c.String()

	c.FillCircle(20, 10, 4)
	if c.String() == blank {
		t.Error("FillCircle should set dots")
	}

	c.Clear()
	if c.String() != blank {
		t.Error("Clear should reset the canvas")
	}

	c.Text("42", 20, 10, 12)
	if !strings.Contains(c.String(), "42") {
		t.Errorf("Text not rendered:\n%s", c.String())
	}

	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d rows, want 5", len(lines))
	}
	for i, l := range lines {
		if n := len([]rune(l)); n != 20 {
			t.Errorf("row %d has %d cells, want 20", i, n)
		}
	}
}

func TestCanvasClipsOutOfRange(t *testing.T) {
	c := NewCanvas(4, 2, Rect{W: 8, H: 8})
	c.Arrow(-100, -100, 100, 100)
	c.Text("hello world", -50, -50, 10)
	c.StrokeCircle(1000, 1000, 3)
	_ = c.String()
}

func TestConvertSVGPassthrough(t *testing.T) {
	in := []byte("<svg/>")
	out, err := Convert(context.Background(), in, FormatSVG, 1)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("Convert() = %q, want passthrough", out)
	}
}

func TestConvertUnknownFormat(t *testing.T) {
	if _, err := Convert(context.Background(), nil, "gif", 1); err == nil {
		t.Error("expected error for unsupported format")
	}
}
