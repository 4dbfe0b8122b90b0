package viz

import (
	"sync"

	"github.com/matzehuels/algoviz/pkg/render"
)

// Drawing constants shared by every node.
const (
	Radius   = 18
	RingGap  = 4
	FontSize = 14

	// XSpan and YSpan are the gaps left between neighbouring nodes.
	XSpan = 12
	YSpan = 2 * Radius

	arrowInset = 3 * Radius / 2
	arrowLen   = 2 * Radius
)

// Node is an animated visual entity. Its position moves one discrete step
// toward its target on every animation tick.
//
// A Node is owned by its Host. Commands and other nodes refer to it only by
// Key. All methods are safe for concurrent use; the ticker goroutine and the
// goroutine running structural operations may touch the same node.
type Node struct {
	mu sync.Mutex

	key      Key
	x, y     int
	tox, toy int
	steps    int
	state    State

	fg, bg render.Color
	marked bool

	pointer Key
	arrow   ArrowMode
	angle   int
	arc     bool

	bounds render.Bounds

	// moved is closed and replaced whenever the position or the target
	// changes, waking goroutines blocked in SetTarget.
	moved chan struct{}
}

// NodeOption configures a Node at construction.
type NodeOption func(*Node)

// WithBounds attaches the viewport used by SetTarget to decide whether a move
// crosses the visible region. Without bounds SetTarget never blocks.
func WithBounds(b render.Bounds) NodeOption { return func(n *Node) { n.bounds = b } }

// WithColors sets the foreground (outline, text) and background colors.
func WithColors(fg, bg render.Color) NodeOption {
	return func(n *Node) { n.fg, n.bg = fg, bg }
}

// WithState sets the initial visibility state.
func WithState(s State) NodeOption { return func(n *Node) { n.state = s } }

// NewNode creates a node at rest at (x, y).
func NewNode(key Key, x, y int, opts ...NodeOption) *Node {
	n := &Node{
		key:   key,
		x:     x,
		y:     y,
		tox:   x,
		toy:   y,
		state: Up,
		fg:    render.Black,
		bg:    render.White,
		moved: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Key returns the node's logical key.
func (n *Node) Key() Key { return n.key }

// Position returns the current position.
func (n *Node) Position() (x, y int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.x, n.y
}

// Target returns the destination and the number of ticks left to reach it.
func (n *Node) Target() (x, y, steps int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tox, n.toy, n.steps
}

// State returns the visibility state.
func (n *Node) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Background returns the background color.
func (n *Node) Background() render.Color {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.bg
}

// SetForeground changes the outline and text color. It is not recorded.
func (n *Node) SetForeground(c render.Color) {
	n.mu.Lock()
	n.fg = c
	n.mu.Unlock()
}

// Mark turns on the highlight ring.
func (n *Node) Mark() { n.setMarked(true) }

// Unmark turns off the highlight ring.
func (n *Node) Unmark() { n.setMarked(false) }

func (n *Node) setMarked(v bool) {
	n.mu.Lock()
	n.marked = v
	n.mu.Unlock()
}

// ContainsPoint reports whether (x, y) hits the node's disc.
func (n *Node) ContainsPoint(x, y int) bool {
	n.mu.Lock()
	dx, dy := x-n.x, y-n.y
	n.mu.Unlock()
	return dx*dx+dy*dy <= Radius*Radius
}

// Step advances the node one tick toward its target. The displacement is
// (target - current) / remaining with integer truncation, so the node lands
// exactly on the target when the counter reaches zero. It reports whether
// the node moved.
func (n *Node) Step() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.steps <= 0 {
		return false
	}
	n.x += (n.tox - n.x) / n.steps
	n.y += (n.toy - n.y) / n.steps
	n.steps--
	if n.state == Up && n.inView(n.x, n.y) {
		n.state = Alive
	}
	n.notifyLocked()
	return true
}

// Snapshot is a copy of every node field, used for persistence and for
// comparing states.
type Snapshot struct {
	Key        Key          `json:"key" yaml:"key"`
	X          int          `json:"x" yaml:"x"`
	Y          int          `json:"y" yaml:"y"`
	ToX        int          `json:"tox" yaml:"tox"`
	ToY        int          `json:"toy" yaml:"toy"`
	Steps      int          `json:"steps,omitempty" yaml:"steps,omitempty"`
	State      State        `json:"state" yaml:"state"`
	Foreground render.Color `json:"fg,omitempty" yaml:"fg,omitempty"`
	Background render.Color `json:"bg,omitempty" yaml:"bg,omitempty"`
	Marked     bool         `json:"marked,omitempty" yaml:"marked,omitempty"`
	Pointer    Key          `json:"pointer,omitzero" yaml:"pointer,omitempty"`
	Arrow      ArrowMode    `json:"arrow,omitempty" yaml:"arrow,omitempty"`
	Angle      int          `json:"angle,omitempty" yaml:"angle,omitempty"`
	Arc        bool         `json:"arc,omitempty" yaml:"arc,omitempty"`
}

// Snapshot returns a copy of the node's state.
func (n *Node) Snapshot() Snapshot {
	n.mu.Lock()
	defer n.mu.Unlock()
	return Snapshot{
		Key:        n.key,
		X:          n.x,
		Y:          n.y,
		ToX:        n.tox,
		ToY:        n.toy,
		Steps:      n.steps,
		State:      n.state,
		Foreground: n.fg,
		Background: n.bg,
		Marked:     n.marked,
		Pointer:    n.pointer,
		Arrow:      n.arrow,
		Angle:      n.angle,
		Arc:        n.arc,
	}
}

// FromSnapshot rebuilds a node from a snapshot.
func FromSnapshot(s Snapshot, opts ...NodeOption) *Node {
	n := NewNode(s.Key, s.X, s.Y, opts...)
	n.tox, n.toy = s.ToX, s.ToY
	n.steps = max(s.Steps, 0)
	n.state = s.State
	if s.Foreground != "" {
		n.fg = s.Foreground
	}
	if s.Background != "" {
		n.bg = s.Background
	}
	n.marked = s.Marked
	n.pointer = s.Pointer
	n.arrow = s.Arrow
	n.angle = s.Angle
	n.arc = s.Arc
	return n
}

func (n *Node) viewport() (render.Rect, bool) {
	if n.bounds == nil {
		return render.Rect{}, false
	}
	v := n.bounds.Viewport()
	return v, !v.Empty()
}

// inView reports whether (x, y) is visible. Without bounds everything is.
func (n *Node) inView(x, y int) bool {
	v, ok := n.viewport()
	return !ok || v.Contains(x, y)
}

func (n *Node) notifyLocked() {
	close(n.moved)
	n.moved = make(chan struct{})
}
