package viz

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/matzehuels/algoviz/pkg/render"
)

func TestMotionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("a node lands exactly on its target after steps ticks", prop.ForAll(
		func(x, y, tox, toy, steps int) bool {
			n := NewNode(IntKey(1), x, y)
			n.applyMove(tox, toy, steps)
			for i := 0; i < steps; i++ {
				if !n.Step() {
					return false
				}
			}
			gx, gy := n.Position()
			return gx == tox && gy == toy && !n.Step()
		},
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.IntRange(-2000, 2000),
		gen.IntRange(1, 200),
	))

	properties.Property("motion is monotone along each axis", prop.ForAll(
		func(x, tox, steps int) bool {
			n := NewNode(IntKey(1), x, 0)
			n.applyMove(tox, 0, steps)
			prev := x
			for n.Step() {
				cur, _ := n.Position()
				if (tox >= x && cur < prev) || (tox < x && cur > prev) {
					return false
				}
				prev = cur
			}
			return true
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
		gen.IntRange(1, 100),
	))

	properties.TestingRun(t)
}

func TestCommandProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	colors := []any{render.Black, render.White, render.Red, render.Green, render.Blue}
	states := []any{Up, Alive, Invisible}

	properties.Property("unexecute after execute restores every node", prop.ForAll(
		func(tox, toy, steps int, st State, bg render.Color, angle int) bool {
			a, b := IntKey(1), IntKey(2)
			na := NewNode(a, 0, 0)
			h := newMapHost(na, NewNode(b, 10, 10))
			cmds := []Command{
				Move{Node: a, ToX: tox, ToY: toy, Steps: steps},
				SetState{Node: a, From: Up, To: st},
				Recolor{Node: a, From: render.White, To: bg},
				Arrow{Node: a, To: ArrowSpec{Mode: ArrowFixed, Angle: angle}},
				Arc{Node: a, To: ArcSpec{Pointer: b, On: true}},
				Link{From: a, Side: Right, To: b},
			}
			before := na.Snapshot()
			for _, c := range cmds {
				if Execute(h, c) != nil {
					return false
				}
			}
			for i := len(cmds) - 1; i >= 0; i-- {
				if Unexecute(h, cmds[i]) != nil {
					return false
				}
			}
			child, _ := h.Child(a, Right)
			return na.Snapshot() == before && child.IsNone()
		},
		gen.IntRange(-500, 500),
		gen.IntRange(-500, 500),
		gen.IntRange(0, 50),
		gen.OneConstOf(states...),
		gen.OneConstOf(colors...),
		gen.IntRange(0, 359),
	))

	properties.TestingRun(t)
}
