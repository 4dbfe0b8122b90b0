package scenario

import (
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/structure"
	"github.com/matzehuels/algoviz/pkg/viz"
)

// settleLimit bounds the ticks At spends moving nodes onto their targets.
const settleLimit = 10000

// At rebuilds the host of d bounded by view, seeks to step and settles every
// node on its target. A negative step selects the end of the scenario.
func (d *Document) At(step int, view render.Rect, opts ...structure.Option) (*structure.Tree, *Scenario, error) {
	opts = append(opts, structure.WithBounds(render.FixedBounds(view)))
	tree, s, err := d.Build(opts...)
	if err != nil {
		return nil, nil, err
	}
	if step < 0 {
		step = s.Len()
	}
	if _, err := s.Seek(step); err != nil {
		return nil, nil, err
	}
	viz.NewTicker(tree, 0).Settle(settleLimit)
	return tree, s, nil
}

// Frame renders the host of d at step as an SVG document covering view.
func (d *Document) Frame(step int, view render.Rect, opts ...structure.Option) ([]byte, error) {
	tree, _, err := d.At(step, view, opts...)
	if err != nil {
		return nil, err
	}
	surface := render.NewSVGSurface(view)
	tree.Render(surface)
	return surface.Bytes(), nil
}
