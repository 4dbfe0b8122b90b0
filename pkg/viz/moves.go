package viz

import (
	"context"
	"fmt"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
)

// distanceStep is the number of pixels covered per tick by the moves whose
// duration scales with the distance travelled.
const distanceStep = 20

// GoAbove sends the node to the slot one level above other's target.
func (n *Node) GoAbove(ctx context.Context, rec Recorder, other *Node, steps int) error {
	x, y, _ := other.Target()
	return n.SetTarget(ctx, rec, x, y-2*Radius-YSpan, steps)
}

// GoNextTo sends the node to the slot right of other's target.
func (n *Node) GoNextTo(ctx context.Context, rec Recorder, other *Node, steps int) error {
	x, y, _ := other.Target()
	return n.SetTarget(ctx, rec, x+2*Radius+XSpan, y, steps)
}

// GoToRoot sends the node to the root slot at (rootX, rootY). The farther the
// node is vertically, the longer the move takes.
func (n *Node) GoToRoot(ctx context.Context, rec Recorder, rootX, rootY int) error {
	_, y := n.Position()
	return n.SetTarget(ctx, rec, rootX, rootY, travelSteps(y, rootY))
}

// GoAboveRoot sends the node to the slot above the root at (rootX, rootY).
func (n *Node) GoAboveRoot(ctx context.Context, rec Recorder, rootX, rootY int) error {
	_, y := n.Position()
	toy := rootY - 2*Radius - YSpan
	return n.SetTarget(ctx, rec, rootX, toy, travelSteps(y, toy))
}

// GoDown drops the node below the bottom edge of the viewport. It returns once
// the node has left the view, at which point an Alive node is Invisible.
func (n *Node) GoDown(ctx context.Context, rec Recorder) error {
	return n.exit(ctx, rec, func(x int, v render.Rect) int { return x })
}

// GoLeft is GoDown ending beyond the left edge.
func (n *Node) GoLeft(ctx context.Context, rec Recorder) error {
	return n.exit(ctx, rec, func(_ int, v render.Rect) int { return v.X - v.W - Radius })
}

// GoRight is GoDown ending beyond the right edge.
func (n *Node) GoRight(ctx context.Context, rec Recorder) error {
	return n.exit(ctx, rec, func(_ int, v render.Rect) int { return v.X + v.W + Radius })
}

func (n *Node) exit(ctx context.Context, rec Recorder, toX func(x int, v render.Rect) int) error {
	n.mu.Lock()
	v, bounded := n.viewport()
	x, y := n.x, n.y
	n.mu.Unlock()
	if !bounded {
		return errors.New(errors.ErrCodeUnsupported, "node %s has no viewport to leave", n.key)
	}
	down := v.Y + v.H + Radius
	return n.SetTarget(ctx, rec, toX(x, v), down, travelSteps(y, down))
}

func travelSteps(from, to int) int {
	return absInt(to-from) / distanceStep
}

// KeyColor is the background that shades integer keys from yellow (small) to
// red (1000 and above). Other keys get White.
func KeyColor(k Key) render.Color {
	v, ok := k.Int()
	if !ok {
		return render.White
	}
	g := min(max(255-v/10, 0), 255)
	return render.Color(fmt.Sprintf("#ff%02x00", g))
}

// SetKeyBackground sets the background to KeyColor of the node's key. It is
// recorded like SetBackground.
func (n *Node) SetKeyBackground(rec Recorder) error {
	return n.SetBackground(rec, KeyColor(n.key))
}
