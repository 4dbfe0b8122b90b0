package structure

import (
	"context"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// Highlight colors used by the producer.
const (
	ColorVisit = render.Yellow
	ColorFound = render.Green
	ColorIdle  = render.White
)

const spawnMargin = viz.RingGap + 2

// Insert adds the node keyed k to the search tree. The node flies in from
// its current position, compares itself against every node on the search
// path and is linked below the last one. The tree is then laid out again.
//
// Every mutation is recorded on rec. Insert blocks while the node enters
// the viewport, so a Ticker must be running.
func (t *Tree) Insert(ctx context.Context, rec viz.Recorder, k viz.Key) error {
	n, ok := t.Node(k)
	if !ok || k == Header {
		return errors.New(errors.ErrCodeNotFound, "node %s not found", k)
	}
	if _, _, found := t.parentOf(k); found {
		return errors.New(errors.ErrCodeInvalidInput, "key %s is already in the tree", k)
	}

	// A node removed earlier is Invisible and would never be drawn again.
	if n.State() == viz.Invisible {
		if err := n.SetState(rec, viz.Up); err != nil {
			return err
		}
	}

	sx, sy := t.spawn()
	if err := n.SetTarget(ctx, rec, sx, sy, t.layout.Steps); err != nil {
		return err
	}

	parent, side := Header, viz.Right
	for cur := t.Root(); !cur.IsNone(); {
		if err := t.visit(ctx, rec, n, cur); err != nil {
			return err
		}
		parent, side = cur, viz.Right
		if k.Less(cur) {
			side = viz.Left
		}
		next, err := t.Child(cur, side)
		if err != nil {
			return err
		}
		cur = next
	}

	if err := n.ClearArrow(rec); err != nil {
		return err
	}
	if err := t.Link(rec, parent, side, k); err != nil {
		return err
	}
	return t.Relayout(ctx, rec)
}

// Search walks the search path for k, highlighting every visited node. A
// hit is left colored ColorFound.
func (t *Tree) Search(rec viz.Recorder, k viz.Key) (bool, error) {
	for cur := t.Root(); !cur.IsNone(); {
		cn, ok := t.Node(cur)
		if !ok {
			return false, errors.New(errors.ErrCodeInternal, "dangling edge to %s", cur)
		}
		if cur == k {
			return true, cn.SetBackground(rec, ColorFound)
		}
		if err := cn.SetBackground(rec, ColorVisit); err != nil {
			return false, err
		}
		if err := cn.SetBackground(rec, ColorIdle); err != nil {
			return false, err
		}
		side := viz.Right
		if k.Less(cur) {
			side = viz.Left
		}
		next, err := t.Child(cur, side)
		if err != nil {
			return false, err
		}
		cur = next
	}
	return false, nil
}

// Remove unlinks k from the search tree and drops its node out of view. A
// node with two children is replaced by its in-order successor. Remove
// blocks until the node has left the viewport.
func (t *Tree) Remove(ctx context.Context, rec viz.Recorder, k viz.Key) error {
	n, ok := t.Node(k)
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "node %s not found", k)
	}
	parent, side, found := t.parentOf(k)
	if !found {
		return errors.New(errors.ErrCodeNotFound, "key %s is not in the tree", k)
	}
	left, _ := t.Child(k, viz.Left)
	right, _ := t.Child(k, viz.Right)

	var repl viz.Key
	switch {
	case left.IsNone():
		repl = right
	case right.IsNone():
		repl = left
	default:
		succ, sp, sside := t.minimum(k, right)
		succRight, _ := t.Child(succ, viz.Right)
		if err := t.Link(rec, sp, sside, succRight); err != nil {
			return err
		}
		if err := t.Link(rec, succ, viz.Left, left); err != nil {
			return err
		}
		// The successor's parent may have been k itself; re-read.
		right, _ = t.Child(k, viz.Right)
		if err := t.Link(rec, succ, viz.Right, right); err != nil {
			return err
		}
		repl = succ
	}

	if err := t.Link(rec, parent, side, repl); err != nil {
		return err
	}
	for _, s := range []viz.Side{viz.Left, viz.Right} {
		if c, _ := t.Child(k, s); !c.IsNone() {
			if err := t.Link(rec, k, s, viz.None); err != nil {
				return err
			}
		}
	}

	if err := t.dismiss(ctx, rec, n); err != nil {
		return err
	}
	return t.Relayout(ctx, rec)
}

// dismiss drops n below the viewport, or parks it off screen when the tree
// has no bounds.
func (t *Tree) dismiss(ctx context.Context, rec viz.Recorder, n *viz.Node) error {
	if t.bounds != nil {
		return n.GoDown(ctx, rec)
	}
	x, y := t.offscreen()
	return n.SetTarget(ctx, rec, x, y, t.layout.Steps)
}

// Relayout moves every linked node to its layout slot: the in-order index
// selects the column and the depth selects the row. Nodes already heading
// to their slot are left alone.
func (t *Tree) Relayout(ctx context.Context, rec viz.Recorder) error {
	type slot struct {
		n    *viz.Node
		x, y int
	}
	v := t.Viewport()
	l := t.layout

	t.mu.RLock()
	var slots []slot
	col := 0
	t.walk(t.children[Header][viz.Right], 0, func(k viz.Key, depth int) {
		slots = append(slots, slot{n: t.nodes[k], x: v.X + l.OriginX + col*l.DX, y: v.Y + l.OriginY + depth*l.DY})
		col++
	})
	t.mu.RUnlock()

	for _, s := range slots {
		if x, y, _ := s.n.Target(); x == s.x && y == s.y {
			continue
		}
		if err := s.n.SetTarget(ctx, rec, s.x, s.y, l.Steps); err != nil {
			return err
		}
	}
	return nil
}

// visit points n at cur and parks it above cur while cur is highlighted.
func (t *Tree) visit(ctx context.Context, rec viz.Recorder, n *viz.Node, cur viz.Key) error {
	cn, ok := t.Node(cur)
	if !ok {
		return errors.New(errors.ErrCodeInternal, "dangling edge to %s", cur)
	}
	if err := cn.SetBackground(rec, ColorVisit); err != nil {
		return err
	}
	if err := n.PointAbove(rec, cur); err != nil {
		return err
	}
	cx, cy, _ := cn.Target()
	if err := n.SetTarget(ctx, rec, cx+2*viz.Radius, cy-2*viz.Radius, t.layout.Steps); err != nil {
		return err
	}
	return cn.SetBackground(rec, ColorIdle)
}

// parentOf finds the parent edge pointing at k.
func (t *Tree) parentOf(k viz.Key) (viz.Key, viz.Side, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for from, c := range t.children {
		for s, to := range c {
			if to == k {
				return from, viz.Side(s), true
			}
		}
	}
	return viz.None, viz.Left, false
}

// minimum returns the leftmost key of the subtree rooted at k, which hangs
// off parent, and the edge pointing at it.
func (t *Tree) minimum(parent, k viz.Key) (viz.Key, viz.Key, viz.Side) {
	side := viz.Right
	for {
		next, _ := t.Child(k, viz.Left)
		if next.IsNone() {
			return k, parent, side
		}
		parent, k, side = k, next, viz.Left
	}
}

// spawn is where inserted nodes enter: top center of the viewport.
func (t *Tree) spawn() (int, int) {
	v := t.Viewport()
	return v.X + v.W/2, v.Y + viz.Radius + spawnMargin
}
