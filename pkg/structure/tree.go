package structure

import (
	"sync"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// Header is the key of the hidden node whose right child is the root.
var Header = viz.Absent

// Layout places tree nodes on screen. Depth zero is the root.
type Layout struct {
	OriginX int `json:"origin_x" yaml:"origin_x" toml:"origin_x"`
	OriginY int `json:"origin_y" yaml:"origin_y" toml:"origin_y"`
	DX      int `json:"dx" yaml:"dx" toml:"dx"`
	DY      int `json:"dy" yaml:"dy" toml:"dy"`
	// Steps is the tick budget of every move the producer issues.
	Steps int `json:"steps" yaml:"steps" toml:"steps"`
}

// DefaultLayout fits roughly sixteen keys into an 800x600 viewport.
func DefaultLayout() Layout {
	return Layout{OriginX: 2 * viz.Radius, OriginY: 4 * viz.Radius, DX: 2*viz.Radius + viz.XSpan, DY: 2*viz.Radius + viz.YSpan, Steps: 12}
}

// Entry is the persisted state of one node: its snapshot and child edges.
type Entry struct {
	viz.Snapshot `yaml:",inline"`
	Left         viz.Key `json:"left,omitzero" yaml:"left,omitempty"`
	Right        viz.Key `json:"right,omitzero" yaml:"right,omitempty"`
}

// Tree is a keyed node table with binary child edges.
type Tree struct {
	mu       sync.RWMutex
	nodes    map[viz.Key]*viz.Node
	order    []viz.Key
	children map[viz.Key][2]viz.Key

	bounds render.Bounds
	layout Layout
}

// Option configures a Tree.
type Option func(*Tree)

// WithBounds sets the viewport handed to every node.
func WithBounds(b render.Bounds) Option { return func(t *Tree) { t.bounds = b } }

// WithLayout overrides DefaultLayout.
func WithLayout(l Layout) Option { return func(t *Tree) { t.layout = l } }

// NewTree returns an empty tree holding only the header node.
func NewTree(opts ...Option) *Tree {
	t := &Tree{
		nodes:    map[viz.Key]*viz.Node{},
		children: map[viz.Key][2]viz.Key{},
		layout:   DefaultLayout(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.insertLocked(viz.NewNode(Header, 0, 0, viz.WithState(viz.Invisible)))
	return t
}

// FromEntries rebuilds a tree from persisted entries. The header entry, if
// present, restores the root edge.
func FromEntries(entries []Entry, opts ...Option) (*Tree, error) {
	t := NewTree(opts...)
	for i, e := range entries {
		if e.Key.IsNone() {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "node %d has no key", i)
		}
		if e.Key == Header {
			t.children[Header] = [2]viz.Key{e.Left, e.Right}
			continue
		}
		if _, dup := t.nodes[e.Key]; dup {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "duplicate node key %s", e.Key)
		}
		t.insertLocked(viz.FromSnapshot(e.Snapshot, t.nodeOptions()...))
		if !e.Left.IsNone() || !e.Right.IsNone() {
			t.children[e.Key] = [2]viz.Key{e.Left, e.Right}
		}
	}
	for from, c := range t.children {
		for _, to := range c {
			if _, ok := t.nodes[to]; !to.IsNone() && !ok {
				return nil, errors.New(errors.ErrCodeUnresolvedReference, "edge %s -> %s: unknown node", from, to)
			}
		}
	}
	return t, nil
}

// AddNode creates a node for k off screen. The node is not linked anywhere.
func (t *Tree) AddNode(k viz.Key, opts ...viz.NodeOption) (*viz.Node, error) {
	if k.IsNone() || k == Header {
		return nil, errors.New(errors.ErrCodeInvalidInput, "key %s is reserved", k)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, dup := t.nodes[k]; dup {
		return nil, errors.New(errors.ErrCodeInvalidInput, "node %s already exists", k)
	}
	x, y := t.offscreen()
	n := viz.NewNode(k, x, y, append(t.nodeOptions(), opts...)...)
	t.insertLocked(n)
	return n, nil
}

// Node implements viz.Lookup.
func (t *Tree) Node(k viz.Key) (*viz.Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n, ok := t.nodes[k]
	return n, ok
}

// Nodes returns every node, the header included, in creation order.
func (t *Tree) Nodes() []*viz.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*viz.Node, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.nodes[k])
	}
	return out
}

// Len returns the number of nodes excluding the header.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes) - 1
}

// Child implements viz.Host.
func (t *Tree) Child(from viz.Key, side viz.Side) (viz.Key, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.nodes[from]; !ok {
		return viz.None, errors.New(errors.ErrCodeNotFound, "node %s not found", from)
	}
	return t.children[from][side], nil
}

// SetChild implements viz.Host.
func (t *Tree) SetChild(from viz.Key, side viz.Side, to viz.Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.nodes[from]; !ok {
		return errors.New(errors.ErrCodeNotFound, "node %s not found", from)
	}
	c := t.children[from]
	c[side] = to
	if c == [2]viz.Key{} {
		delete(t.children, from)
	} else {
		t.children[from] = c
	}
	return nil
}

// Link sets the child of from on side to to, recording a Link command that
// remembers the replaced child.
func (t *Tree) Link(rec viz.Recorder, from viz.Key, side viz.Side, to viz.Key) error {
	prev, err := t.Child(from, side)
	if err != nil {
		return err
	}
	if !to.IsNone() {
		if _, ok := t.Node(to); !ok {
			return errors.New(errors.ErrCodeNotFound, "node %s not found", to)
		}
	}
	if rec != nil {
		if err := rec.Record(viz.Link{From: from, Side: side, To: to, Prev: prev}); err != nil {
			return err
		}
	}
	return t.SetChild(from, side, to)
}

// Root returns the root key, or None for an empty tree.
func (t *Tree) Root() viz.Key {
	k, _ := t.Child(Header, viz.Right)
	return k
}

// InOrder returns the keys reachable from the root in symmetric order.
func (t *Tree) InOrder() []viz.Key {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []viz.Key
	t.walk(t.children[Header][viz.Right], 0, func(k viz.Key, _ int) { out = append(out, k) })
	return out
}

// Entries returns the persisted state of every node, the header first.
func (t *Tree) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Entry, 0, len(t.order))
	for _, k := range t.order {
		c := t.children[k]
		out = append(out, Entry{Snapshot: t.nodes[k].Snapshot(), Left: c[viz.Left], Right: c[viz.Right]})
	}
	return out
}

// Edges returns every parent/child pair, excluding the header edge, sorted
// by parent creation order and then side.
func (t *Tree) Edges() [][2]viz.Key {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out [][2]viz.Key
	for _, k := range t.order {
		if k == Header {
			continue
		}
		for _, c := range t.children[k] {
			if !c.IsNone() {
				out = append(out, [2]viz.Key{k, c})
			}
		}
	}
	return out
}

// Viewport returns the tree's bounds, or an empty rect without bounds.
func (t *Tree) Viewport() render.Rect {
	if t.bounds == nil {
		return render.Rect{}
	}
	return t.bounds.Viewport()
}

// walk visits the subtree at k in order. It must run with t.mu held.
func (t *Tree) walk(k viz.Key, depth int, visit func(viz.Key, int)) {
	if k.IsNone() || depth > len(t.nodes) {
		return
	}
	c := t.children[k]
	t.walk(c[viz.Left], depth+1, visit)
	visit(k, depth)
	t.walk(c[viz.Right], depth+1, visit)
}

func (t *Tree) insertLocked(n *viz.Node) {
	t.nodes[n.Key()] = n
	t.order = append(t.order, n.Key())
}

func (t *Tree) nodeOptions() []viz.NodeOption {
	if t.bounds == nil {
		return nil
	}
	return []viz.NodeOption{viz.WithBounds(t.bounds)}
}

// offscreen returns a spawn point above and left of the viewport.
func (t *Tree) offscreen() (int, int) {
	v := t.Viewport()
	return v.X - 3*viz.Radius, v.Y - 3*viz.Radius
}

var _ viz.Host = (*Tree)(nil)
