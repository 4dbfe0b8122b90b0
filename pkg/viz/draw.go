package viz

import (
	"math"

	"github.com/matzehuels/algoviz/pkg/render"
)

// Render paints the node onto s. Invisible nodes and nodes keyed Absent paint
// nothing. Pointer keys are resolved through l; a pointer that no longer
// resolves simply draws no arrow or arc.
func (n *Node) Render(s render.Surface, l Lookup) {
	snap := n.Snapshot()
	if snap.State == Invisible || snap.Key == Absent {
		return
	}

	s.SetColor(snap.Background)
	s.FillCircle(snap.X, snap.Y, Radius)
	s.SetColor(snap.Foreground)
	s.StrokeCircle(snap.X, snap.Y, Radius)
	if snap.Marked {
		s.StrokeCircle(snap.X, snap.Y, Radius+RingGap)
	}
	if label := snap.Key.Label(); label != "" {
		s.Text(label, snap.X, snap.Y, FontSize)
	}

	var px, py int
	var hasPointer bool
	if !snap.Pointer.IsNone() && l != nil {
		if p, ok := l.Node(snap.Pointer); ok && p != n {
			px, py = p.Position()
			hasPointer = true
		}
	}

	if x1, y1, x2, y2, ok := arrowGeometry(snap, px, py, hasPointer); ok {
		s.Arrow(x1, y1, x2, y2)
	}

	if snap.Arc && hasPointer {
		if box, start, extent, ok := arcGeometry(snap.X, snap.Y, px, py); ok {
			s.ArcArrow(box, start, extent)
		}
	}
}

// arrowGeometry returns the arrow segment for the snapshot's arrow mode.
//
// A fixed angle is measured clockwise on screen from east and the arrow points
// outward, away from the node. ArrowAbove points from the node toward the slot
// one level above the pointer. ArrowTo joins the two nodes, inset at both ends.
func arrowGeometry(snap Snapshot, px, py int, hasPointer bool) (x1, y1, x2, y2 int, ok bool) {
	var dx, dy float64
	switch snap.Arrow {
	case ArrowFixed:
		rad := float64(snap.Angle) * math.Pi / 180
		dx, dy = math.Cos(rad), math.Sin(rad)
	case ArrowAbove:
		if !hasPointer {
			return 0, 0, 0, 0, false
		}
		dx, dy = float64(px-snap.X), float64(py-2*Radius-YSpan-snap.Y)
	case ArrowTo:
		if !hasPointer {
			return 0, 0, 0, 0, false
		}
		dx, dy = float64(px-snap.X), float64(py-snap.Y)
	default:
		return 0, 0, 0, 0, false
	}

	if snap.Arrow != ArrowFixed {
		d := math.Hypot(dx, dy)
		if d == 0 {
			return 0, 0, 0, 0, false
		}
		dx, dy = dx/d, dy/d
		if snap.Arrow == ArrowTo && d <= 2*arrowInset {
			return 0, 0, 0, 0, false
		}
	}

	x1 = snap.X + round(arrowInset*dx)
	y1 = snap.Y + round(arrowInset*dy)
	if snap.Arrow == ArrowTo {
		return x1, y1, px - round(arrowInset*dx), py - round(arrowInset*dy), true
	}
	return x1, y1, x1 + round(arrowLen*dx), y1 + round(arrowLen*dy), true
}

// arcGeometry returns a quarter ellipse anchored at the pointer's x. It runs
// from the pointer's side up to the slot above the node and assumes the
// pointer sits above the node.
func arcGeometry(x, y, px, py int) (render.Rect, int, int, bool) {
	a, b := absInt(x-px), absInt(y-py)
	if a == 0 || b == 0 {
		return render.Rect{}, 0, 0, false
	}
	top := y - Radius - YSpan
	box := render.Rect{X: px - a, Y: top - b, W: 2 * a, H: 2 * b}
	if x > px {
		return box, 0, 90, true
	}
	return box, 180, 90, true
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
