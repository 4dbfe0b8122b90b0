package structure

import (
	"math"

	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// EdgeColor is the stroke color of child edges.
const EdgeColor = render.Gray

// Render paints the child edges, then every node, onto s. Edges touching a
// node that is not drawn are skipped.
func (t *Tree) Render(s render.Surface) {
	for _, e := range t.Edges() {
		a, okA := t.Node(e[0])
		b, okB := t.Node(e[1])
		if !okA || !okB || !drawn(a) || !drawn(b) {
			continue
		}
		ax, ay := a.Position()
		bx, by := b.Position()
		dx, dy := float64(bx-ax), float64(by-ay)
		d := math.Hypot(dx, dy)
		if d <= 2*viz.Radius {
			continue
		}
		ux, uy := dx/d*viz.Radius, dy/d*viz.Radius
		s.SetColor(EdgeColor)
		s.Arrow(ax+int(math.Round(ux)), ay+int(math.Round(uy)), bx-int(math.Round(ux)), by-int(math.Round(uy)))
	}
	for _, n := range t.Nodes() {
		n.Render(s, t)
	}
}

func drawn(n *viz.Node) bool {
	return n.State() != viz.Invisible && n.Key() != viz.Absent
}
