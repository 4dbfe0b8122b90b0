package viz

import (
	"context"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
)

// SetTarget sends the node toward (x, y) over steps ticks. A step budget below
// one is raised to one so the node always converges on the next tick.
//
// With a non-nil rec a Move command carrying the previous target is recorded
// alongside the new one. The previous target is read and replaced under one
// hold of the node's lock, so a concurrent Step cannot change it in between.
// If rec fails the previous target is restored.
//
// When the node has bounds, SetTarget blocks in two cases:
//
//   - the node is Alive and the target lies outside the viewport: it returns
//     once the current position has left the viewport, and the node is then
//     set Invisible (recorded as a SetState command);
//   - the node is outside the viewport and the target lies inside: it returns
//     once the node has reached the target.
//
// The wait relies on another goroutine calling Step, usually a Ticker. If ctx
// ends first, the node is snapped to its terminal state (Invisible, or at the
// target) and an INTERRUPTED error wrapping ctx.Err() is returned.
func (n *Node) SetTarget(ctx context.Context, rec Recorder, x, y, steps int) error {
	steps = max(steps, 1)

	n.mu.Lock()
	cmd := Move{Node: n.key, FromX: n.tox, FromY: n.toy, FromSteps: n.steps, ToX: x, ToY: y, Steps: steps}
	view, bounded := n.viewport()
	leaving := bounded && n.state == Alive && !view.Contains(x, y)
	entering := bounded && !view.Contains(n.x, n.y) && view.Contains(x, y)
	n.applyMoveLocked(x, y, steps)
	n.mu.Unlock()

	if err := record(rec, cmd); err != nil {
		n.applyMove(cmd.FromX, cmd.FromY, cmd.FromSteps)
		return err
	}

	switch {
	case leaving:
		err := n.waitUntil(ctx, func() bool { return !view.Contains(n.x, n.y) })
		if err != nil {
			n.snapToTarget()
		}
		if serr := n.SetState(rec, Invisible); serr != nil && err == nil {
			return serr
		}
		return interrupted(err)
	case entering:
		err := n.waitUntil(ctx, func() bool { return n.steps == 0 })
		if err != nil {
			n.snapToTarget()
		}
		return interrupted(err)
	}
	return nil
}

// SetState changes the visibility state, recording a SetState command.
func (n *Node) SetState(rec Recorder, s State) error {
	n.mu.Lock()
	cmd := SetState{Node: n.key, From: n.state, To: s}
	n.state = s
	n.mu.Unlock()
	if err := record(rec, cmd); err != nil {
		n.applyState(cmd.From)
		return err
	}
	return nil
}

// SetBackground changes the background color. Nothing is recorded when c is
// already the current color.
func (n *Node) SetBackground(rec Recorder, c render.Color) error {
	n.mu.Lock()
	if n.bg == c {
		n.mu.Unlock()
		return nil
	}
	cmd := Recolor{Node: n.key, From: n.bg, To: c}
	n.bg = c
	n.mu.Unlock()
	if err := record(rec, cmd); err != nil {
		n.applyBackground(cmd.From)
		return err
	}
	return nil
}

// PointAbove draws an arrow pointing down at other. It is recorded.
func (n *Node) PointAbove(rec Recorder, other Key) error {
	return n.changeArrow(rec, ArrowSpec{Pointer: other, Mode: ArrowAbove})
}

// PointAngle draws an arrow leaving the node at angle degrees, measured
// clockwise from east. It is recorded.
func (n *Node) PointAngle(rec Recorder, angle int) error {
	return n.changeArrow(rec, ArrowSpec{Mode: ArrowFixed, Angle: angle})
}

// ClearArrow removes the arrow. It is recorded.
func (n *Node) ClearArrow(rec Recorder) error {
	return n.changeArrow(rec, ArrowSpec{})
}

// PointTo draws an arrow from the node to other. It is a transient hint and
// is not recorded.
func (n *Node) PointTo(other Key) {
	n.applyArrow(ArrowSpec{Pointer: other, Mode: ArrowTo})
}

// SetArc draws an arc from the node to other. It is not recorded.
func (n *Node) SetArc(other Key) {
	n.applyArc(ArcSpec{Pointer: other, On: true})
}

// ClearArc removes the arc. It is recorded.
func (n *Node) ClearArc(rec Recorder) error {
	n.mu.Lock()
	cmd := Arc{Node: n.key, From: ArcSpec{Pointer: n.pointer, On: n.arc}, To: ArcSpec{Pointer: n.pointer}}
	n.arc = false
	n.mu.Unlock()
	if err := record(rec, cmd); err != nil {
		n.applyArc(cmd.From)
		return err
	}
	return nil
}

func (n *Node) changeArrow(rec Recorder, to ArrowSpec) error {
	n.mu.Lock()
	cmd := Arrow{Node: n.key, From: ArrowSpec{Pointer: n.pointer, Mode: n.arrow, Angle: n.angle}, To: to}
	n.pointer, n.arrow, n.angle = to.Pointer, to.Mode, to.Angle
	n.mu.Unlock()
	if err := record(rec, cmd); err != nil {
		n.applyArrow(cmd.From)
		return err
	}
	return nil
}

func (n *Node) applyMove(x, y, steps int) {
	n.mu.Lock()
	n.applyMoveLocked(x, y, steps)
	n.mu.Unlock()
}

func (n *Node) applyMoveLocked(x, y, steps int) {
	n.tox, n.toy = x, y
	n.steps = max(steps, 0)
	n.notifyLocked()
}

func (n *Node) applyState(s State) {
	n.mu.Lock()
	n.state = s
	n.mu.Unlock()
}

func (n *Node) applyBackground(c render.Color) {
	n.mu.Lock()
	n.bg = c
	n.mu.Unlock()
}

func (n *Node) applyArrow(a ArrowSpec) {
	n.mu.Lock()
	n.pointer, n.arrow, n.angle = a.Pointer, a.Mode, a.Angle
	n.mu.Unlock()
}

func (n *Node) applyArc(a ArcSpec) {
	n.mu.Lock()
	n.pointer, n.arc = a.Pointer, a.On
	n.mu.Unlock()
}

func (n *Node) snapToTarget() {
	n.mu.Lock()
	n.x, n.y = n.tox, n.toy
	n.steps = 0
	if n.state == Up && n.inView(n.x, n.y) {
		n.state = Alive
	}
	n.notifyLocked()
	n.mu.Unlock()
}

// waitUntil blocks until cond holds. cond runs with n.mu held and is
// re-evaluated every time the node moves or is retargeted.
func (n *Node) waitUntil(ctx context.Context, cond func() bool) error {
	for {
		n.mu.Lock()
		if cond() {
			n.mu.Unlock()
			return nil
		}
		ch := n.moved
		n.mu.Unlock()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
		}
	}
}

func record(rec Recorder, c Command) error {
	if rec == nil {
		return nil
	}
	return rec.Record(c)
}

func interrupted(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInterrupted, err, "motion wait interrupted")
}
