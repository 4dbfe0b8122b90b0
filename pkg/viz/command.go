package viz

import (
	"fmt"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
)

// Action is the discriminator of a command variant. It is also the "action"
// tag of the exchange format.
type Action string

// Command variants.
const (
	ActionLink  Action = "link"
	ActionState Action = "state"
	ActionColor Action = "color"
	ActionMove  Action = "move"
	ActionArrow Action = "arrow"
	ActionArc   Action = "arc"
)

// Actions lists every command variant.
func Actions() []Action {
	return []Action{ActionLink, ActionState, ActionColor, ActionMove, ActionArrow, ActionArc}
}

// Command is a reversible change to one or more nodes. The set of variants is
// closed: Link, SetState, Recolor, Move, Arrow and Arc. Each carries both the
// old and the new value so it can be applied in either direction without
// looking anything up besides the nodes it names.
type Command interface {
	// Action returns the variant tag.
	Action() Action
	// Refs returns every node key the command names, excluding None.
	Refs() []Key

	command()
}

// Recorder receives commands emitted by node and host mutations. Passing a nil
// Recorder applies mutations without recording them.
type Recorder interface {
	Record(c Command) error
}

// Lookup resolves keys to nodes.
type Lookup interface {
	Node(k Key) (*Node, bool)
}

// Host owns the nodes of a visualized structure and the directed child edges
// between them.
type Host interface {
	Lookup

	// Child returns the key linked from `from` on side, or None.
	Child(from Key, side Side) (Key, error)

	// SetChild links `from` to `to` on side. A None `to` removes the edge.
	SetChild(from Key, side Side, to Key) error
}

// Link sets the child of From on Side to To. Prev is the child it replaced,
// restored on reversal. A None To removes the edge.
type Link struct {
	From Key
	Side Side
	To   Key
	Prev Key
}

// SetState changes the visibility state of Node from From to To.
type SetState struct {
	Node     Key
	From, To State
}

// Recolor changes the background color of Node from From to To.
type Recolor struct {
	Node     Key
	From, To render.Color
}

// Move changes the target and step budget of Node. Reversal restores the
// previous target and budget; the current position is left untouched.
type Move struct {
	Node      Key
	FromX     int
	FromY     int
	FromSteps int
	ToX       int
	ToY       int
	Steps     int
}

// ArrowSpec is the arrow part of a node's directional indicator.
type ArrowSpec struct {
	Pointer Key
	Mode    ArrowMode
	Angle   int
}

// Arrow changes the arrow of Node from From to To.
type Arrow struct {
	Node     Key
	From, To ArrowSpec
}

// ArcSpec is the arc part of a node's directional indicator.
type ArcSpec struct {
	Pointer Key
	On      bool
}

// Arc changes the arc of Node from From to To.
type Arc struct {
	Node     Key
	From, To ArcSpec
}

func (Link) Action() Action     { return ActionLink }
func (SetState) Action() Action { return ActionState }
func (Recolor) Action() Action  { return ActionColor }
func (Move) Action() Action     { return ActionMove }
func (Arrow) Action() Action    { return ActionArrow }
func (Arc) Action() Action      { return ActionArc }

func (c Link) Refs() []Key     { return refs(c.From, c.To, c.Prev) }
func (c SetState) Refs() []Key { return refs(c.Node) }
func (c Recolor) Refs() []Key  { return refs(c.Node) }
func (c Move) Refs() []Key     { return refs(c.Node) }
func (c Arrow) Refs() []Key    { return refs(c.Node, c.From.Pointer, c.To.Pointer) }
func (c Arc) Refs() []Key      { return refs(c.Node, c.From.Pointer, c.To.Pointer) }

func (Link) command()     {}
func (SetState) command() {}
func (Recolor) command()  {}
func (Move) command()     {}
func (Arrow) command()    {}
func (Arc) command()      {}

func (c Link) String() string {
	if c.To.IsNone() {
		return fmt.Sprintf("unlink %s.%s (was %s)", c.From, c.Side, c.Prev)
	}
	return fmt.Sprintf("link %s.%s -> %s (was %s)", c.From, c.Side, c.To, c.Prev)
}

func (c SetState) String() string {
	return fmt.Sprintf("state %s: %s -> %s", c.Node, c.From, c.To)
}

func (c Recolor) String() string {
	return fmt.Sprintf("color %s: %s -> %s", c.Node, c.From, c.To)
}

func (c Move) String() string {
	return fmt.Sprintf("move %s: (%d,%d)/%d -> (%d,%d)/%d", c.Node, c.FromX, c.FromY, c.FromSteps, c.ToX, c.ToY, c.Steps)
}

func (c Arrow) String() string {
	return fmt.Sprintf("arrow %s: %s %s -> %s %s", c.Node, c.From.Mode, c.From.Pointer, c.To.Mode, c.To.Pointer)
}

func (c Arc) String() string {
	return fmt.Sprintf("arc %s: %v %s -> %v %s", c.Node, c.From.On, c.From.Pointer, c.To.On, c.To.Pointer)
}

func refs(keys ...Key) []Key {
	out := keys[:0:0]
	for _, k := range keys {
		if !k.IsNone() {
			out = append(out, k)
		}
	}
	return out
}

// Execute applies c to the nodes of h.
func Execute(h Host, c Command) error { return apply(h, c, true) }

// Unexecute reverses c on the nodes of h.
func Unexecute(h Host, c Command) error { return apply(h, c, false) }

func apply(h Host, c Command, forward bool) error {
	switch c := c.(type) {
	case Link:
		to := pick(forward, c.To, c.Prev)
		if !to.IsNone() {
			// A missing target degrades to "no child".
			if _, ok := h.Node(to); !ok {
				to = None
			}
		}
		return h.SetChild(c.From, c.Side, to)
	case SetState:
		n, err := resolve(h, c.Node)
		if err != nil {
			return err
		}
		n.applyState(pick(forward, c.To, c.From))
	case Recolor:
		n, err := resolve(h, c.Node)
		if err != nil {
			return err
		}
		n.applyBackground(pick(forward, c.To, c.From))
	case Move:
		n, err := resolve(h, c.Node)
		if err != nil {
			return err
		}
		if forward {
			n.applyMove(c.ToX, c.ToY, c.Steps)
		} else {
			n.applyMove(c.FromX, c.FromY, c.FromSteps)
		}
	case Arrow:
		n, err := resolve(h, c.Node)
		if err != nil {
			return err
		}
		n.applyArrow(pick(forward, c.To, c.From))
	case Arc:
		n, err := resolve(h, c.Node)
		if err != nil {
			return err
		}
		n.applyArc(pick(forward, c.To, c.From))
	default:
		return errors.New(errors.ErrCodeUnknownAction, "unknown command %T", c)
	}
	return nil
}

func pick[T any](forward bool, to, from T) T {
	if forward {
		return to
	}
	return from
}

func resolve(h Lookup, k Key) (*Node, error) {
	n, ok := h.Node(k)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "node %s not found", k)
	}
	return n, nil
}
