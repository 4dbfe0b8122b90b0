package viz

import (
	"sync"

	"github.com/matzehuels/algoviz/pkg/render"
)

// mapHost is a minimal Host for tests.
type mapHost struct {
	mu       sync.Mutex
	nodes    map[Key]*Node
	children map[Key][2]Key
}

func newMapHost(nodes ...*Node) *mapHost {
	h := &mapHost{nodes: map[Key]*Node{}, children: map[Key][2]Key{}}
	for _, n := range nodes {
		h.nodes[n.Key()] = n
	}
	return h
}

func (h *mapHost) Node(k Key) (*Node, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, ok := h.nodes[k]
	return n, ok
}

func (h *mapHost) Nodes() []*Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*Node, 0, len(h.nodes))
	for _, n := range h.nodes {
		out = append(out, n)
	}
	return out
}

func (h *mapHost) Child(from Key, side Side) (Key, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.children[from][side], nil
}

func (h *mapHost) SetChild(from Key, side Side, to Key) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	c := h.children[from]
	c[side] = to
	h.children[from] = c
	return nil
}

// cmdLog is a Recorder that keeps every command.
type cmdLog struct {
	mu   sync.Mutex
	cmds []Command
}

func (l *cmdLog) Record(c Command) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cmds = append(l.cmds, c)
	return nil
}

func (l *cmdLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cmds)
}

// op is one recorded Surface call.
type op struct {
	name string
	text string
	args []int
}

// fakeSurface records every primitive.
type fakeSurface struct {
	view render.Rect
	ops  []op
}

func (f *fakeSurface) Viewport() render.Rect         { return f.view }
func (f *fakeSurface) SetColor(render.Color)         {}
func (f *fakeSurface) FillCircle(x, y, r int)        { f.add("fill", "", x, y, r) }
func (f *fakeSurface) StrokeCircle(x, y, r int)      { f.add("stroke", "", x, y, r) }
func (f *fakeSurface) Text(s string, x, y, size int) { f.add("text", s, x, y, size) }
func (f *fakeSurface) Arrow(x1, y1, x2, y2 int)      { f.add("arrow", "", x1, y1, x2, y2) }

func (f *fakeSurface) ArcArrow(b render.Rect, start, extent int) {
	f.add("arc", "", b.X, b.Y, b.W, b.H, start, extent)
}

func (f *fakeSurface) add(name, text string, args ...int) {
	f.ops = append(f.ops, op{name: name, text: text, args: args})
}

func (f *fakeSurface) count(name string) int {
	n := 0
	for _, o := range f.ops {
		if o.name == name {
			n++
		}
	}
	return n
}
