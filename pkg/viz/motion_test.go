package viz

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
)

var testView = render.FixedBounds{X: 0, Y: 0, W: 400, H: 300}

// runTicker ticks h every millisecond until the test ends.
func runTicker(t *testing.T, h Stepper) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = NewTicker(h, time.Millisecond).Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
}

func TestSetTargetUnboundedReturnsImmediately(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	rec := &cmdLog{}
	if err := n.SetTarget(context.Background(), rec, 30, 40, 0); err != nil {
		t.Fatalf("SetTarget() error = %v", err)
	}
	if x, y, steps := n.Target(); x != 30 || y != 40 || steps != 1 {
		t.Errorf("target = (%d,%d)/%d, want (30,40)/1", x, y, steps)
	}
	if rec.len() != 1 {
		t.Fatalf("recorded %d commands, want 1", rec.len())
	}
	mv, ok := rec.cmds[0].(Move)
	if !ok {
		t.Fatalf("recorded %T, want Move", rec.cmds[0])
	}
	if mv.FromX != 0 || mv.FromY != 0 || mv.Steps != 1 {
		t.Errorf("Move = %+v", mv)
	}
}

func TestSetTargetNilRecorder(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	if err := n.SetTarget(context.Background(), nil, 5, 5, 2); err != nil {
		t.Fatalf("SetTarget() error = %v", err)
	}
	if x, y, _ := n.Target(); x != 5 || y != 5 {
		t.Errorf("target = (%d,%d)", x, y)
	}
}

func TestSetTargetEntering(t *testing.T) {
	n := NewNode(IntKey(1), -50, 100, WithBounds(testView))
	h := newMapHost(n)
	runTicker(t, h)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.SetTarget(ctx, &cmdLog{}, 100, 100, 5); err != nil {
		t.Fatalf("SetTarget() error = %v", err)
	}
	if x, y := n.Position(); x != 100 || y != 100 {
		t.Errorf("position = (%d,%d), want (100,100)", x, y)
	}
	if got := n.State(); got != Alive {
		t.Errorf("state = %v, want alive", got)
	}
}

func TestSetTargetLeaving(t *testing.T) {
	n := NewNode(IntKey(1), 100, 100, WithBounds(testView), WithState(Alive))
	h := newMapHost(n)
	runTicker(t, h)

	rec := &cmdLog{}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.SetTarget(ctx, rec, -100, 100, 4); err != nil {
		t.Fatalf("SetTarget() error = %v", err)
	}
	if x, y := n.Position(); testView.Viewport().Contains(x, y) {
		t.Errorf("position (%d,%d) still inside the viewport", x, y)
	}
	if got := n.State(); got != Invisible {
		t.Errorf("state = %v, want invisible", got)
	}
	if rec.len() != 2 {
		t.Fatalf("recorded %d commands, want 2", rec.len())
	}
	if _, ok := rec.cmds[0].(Move); !ok {
		t.Errorf("first command = %T, want Move", rec.cmds[0])
	}
	if st, ok := rec.cmds[1].(SetState); !ok || st.From != Alive || st.To != Invisible {
		t.Errorf("second command = %v, want alive -> invisible", rec.cmds[1])
	}
}

func TestSetTargetInterrupted(t *testing.T) {
	tests := []struct {
		name      string
		node      *Node
		x, y      int
		wantState State
	}{
		{
			name:      "leaving",
			node:      NewNode(IntKey(1), 100, 100, WithBounds(testView), WithState(Alive)),
			x:         -100,
			y:         100,
			wantState: Invisible,
		},
		{
			name:      "entering",
			node:      NewNode(IntKey(2), -100, 100, WithBounds(testView)),
			x:         50,
			y:         50,
			wantState: Alive,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			err := tt.node.SetTarget(ctx, nil, tt.x, tt.y, 10)
			if !errors.Is(err, errors.ErrCodeInterrupted) {
				t.Fatalf("SetTarget() error = %v, want INTERRUPTED", err)
			}
			if x, y := tt.node.Position(); x != tt.x || y != tt.y {
				t.Errorf("position = (%d,%d), want snapped to (%d,%d)", x, y, tt.x, tt.y)
			}
			if _, _, steps := tt.node.Target(); steps != 0 {
				t.Errorf("steps = %d, want 0", steps)
			}
			if got := tt.node.State(); got != tt.wantState {
				t.Errorf("state = %v, want %v", got, tt.wantState)
			}
		})
	}
}

func TestSetBackground(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	rec := &cmdLog{}

	if err := n.SetBackground(rec, render.White); err != nil {
		t.Fatal(err)
	}
	if rec.len() != 0 {
		t.Errorf("unchanged color recorded %d commands, want 0", rec.len())
	}

	if err := n.SetBackground(rec, render.Green); err != nil {
		t.Fatal(err)
	}
	if rec.len() != 1 {
		t.Fatalf("recorded %d commands, want 1", rec.len())
	}
	if c := rec.cmds[0].(Recolor); c.From != render.White || c.To != render.Green {
		t.Errorf("Recolor = %+v", c)
	}
	if got := n.Background(); got != render.Green {
		t.Errorf("Background() = %s, want green", got)
	}
}

func TestRecordedIndicators(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	h := newMapHost(n, NewNode(IntKey(2), 50, 50))
	rec := &cmdLog{}
	before := n.Snapshot()

	if err := n.PointAbove(rec, IntKey(2)); err != nil {
		t.Fatal(err)
	}
	if err := n.ClearArrow(rec); err != nil {
		t.Fatal(err)
	}
	n.SetArc(IntKey(2))
	if err := n.ClearArc(rec); err != nil {
		t.Fatal(err)
	}
	if rec.len() != 3 {
		t.Fatalf("recorded %d commands, want 3", rec.len())
	}

	// SetArc is not recorded, so undoing everything brings the arc back.
	for i := len(rec.cmds) - 1; i >= 0; i-- {
		if err := Unexecute(h, rec.cmds[i]); err != nil {
			t.Fatal(err)
		}
	}
	got := n.Snapshot()
	if got.Arrow != before.Arrow || !got.Arc {
		t.Errorf("after undo: arrow=%v arc=%v, want %v/true", got.Arrow, got.Arc, before.Arrow)
	}
}

func TestSetTargetRecorderError(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	err := n.SetTarget(context.Background(), failingRecorder{}, 10, 10, 2)
	if !errors.Is(err, errors.ErrCodeIllegalRecordingState) {
		t.Fatalf("SetTarget() error = %v", err)
	}
	if x, y, _ := n.Target(); x != 0 || y != 0 {
		t.Errorf("target changed to (%d,%d) despite the recorder error", x, y)
	}
}

type failingRecorder struct{}

func (failingRecorder) Record(Command) error {
	return errors.New(errors.ErrCodeIllegalRecordingState, "not recording")
}

// steppingRecorder advances the node by one tick while a command is being
// recorded, like a ticker firing in the middle of SetTarget.
type steppingRecorder struct {
	cmdLog
	n *Node
}

func (r *steppingRecorder) Record(c Command) error {
	r.n.Step()
	return r.cmdLog.Record(c)
}

func TestSetTargetRecordsReplacedTarget(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	n.applyMove(100, 0, 5)
	rec := &steppingRecorder{n: n}

	if err := n.SetTarget(context.Background(), rec, 0, 200, 4); err != nil {
		t.Fatal(err)
	}
	mv := rec.cmds[0].(Move)
	if mv.FromX != 100 || mv.FromY != 0 || mv.FromSteps != 5 {
		t.Errorf("Move from = (%d,%d)/%d, want (100,0)/5", mv.FromX, mv.FromY, mv.FromSteps)
	}
	// The tick taken during recording belongs to the new target.
	if x, y, steps := n.Target(); x != 0 || y != 200 || steps != 3 {
		t.Errorf("target = (%d,%d)/%d, want (0,200)/3", x, y, steps)
	}

	if err := Unexecute(newMapHost(n), mv); err != nil {
		t.Fatal(err)
	}
	if x, y, steps := n.Target(); x != 100 || y != 0 || steps != 5 {
		t.Errorf("after undo target = (%d,%d)/%d, want (100,0)/5", x, y, steps)
	}
}

func TestRecorderErrorRestoresNode(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	before := n.Snapshot()

	if err := n.SetState(failingRecorder{}, Invisible); err == nil {
		t.Error("SetState() error = nil")
	}
	if err := n.SetBackground(failingRecorder{}, render.Red); err == nil {
		t.Error("SetBackground() error = nil")
	}
	if err := n.PointAngle(failingRecorder{}, 90); err == nil {
		t.Error("PointAngle() error = nil")
	}
	n.SetArc(IntKey(2))
	if err := n.ClearArc(failingRecorder{}); err == nil {
		t.Error("ClearArc() error = nil")
	}

	got := n.Snapshot()
	if got.State != before.State || got.Background != before.Background || got.Arrow != before.Arrow || !got.Arc {
		t.Errorf("snapshot = %+v, want the state before the failed calls", got)
	}
}

func TestPointAngleRecorded(t *testing.T) {
	n := NewNode(IntKey(1), 0, 0)
	n.PointTo(IntKey(2))
	rec := &cmdLog{}

	if err := n.PointAngle(rec, 90); err != nil {
		t.Fatal(err)
	}
	s := n.Snapshot()
	if s.Arrow != ArrowFixed || s.Angle != 90 || !s.Pointer.IsNone() {
		t.Errorf("after PointAngle: %+v", s)
	}
	if rec.len() != 1 {
		t.Fatalf("recorded %d commands, want 1", rec.len())
	}
	if err := Unexecute(newMapHost(n), rec.cmds[0]); err != nil {
		t.Fatal(err)
	}
	if s = n.Snapshot(); s.Arrow != ArrowTo || s.Pointer != IntKey(2) {
		t.Errorf("after undo: %+v", s)
	}
}
