package structure

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/algoviz/pkg/errors"
	"github.com/matzehuels/algoviz/pkg/render"
	"github.com/matzehuels/algoviz/pkg/viz"
)

type recorder struct {
	mu   sync.Mutex
	cmds []viz.Command
}

func (r *recorder) Record(c viz.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, c)
	return nil
}

func keys(vs ...int) []viz.Key {
	out := make([]viz.Key, len(vs))
	for i, v := range vs {
		out[i] = viz.IntKey(v)
	}
	return out
}

func newTree(t *testing.T, vs ...int) *Tree {
	t.Helper()
	tr := NewTree()
	for _, k := range keys(vs...) {
		if _, err := tr.AddNode(k); err != nil {
			t.Fatalf("AddNode(%v) error = %v", k, err)
		}
	}
	return tr
}

func insertAll(t *testing.T, tr *Tree, rec viz.Recorder, vs ...int) {
	t.Helper()
	for _, k := range keys(vs...) {
		if err := tr.Insert(context.Background(), rec, k); err != nil {
			t.Fatalf("Insert(%v) error = %v", k, err)
		}
	}
}

func TestAddNode(t *testing.T) {
	tr := newTree(t, 1)
	if tr.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tr.Len())
	}
	tests := []struct {
		name string
		key  viz.Key
	}{
		{"duplicate", viz.IntKey(1)},
		{"none", viz.None},
		{"header", Header},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tr.AddNode(tt.key); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("AddNode(%v) error = %v, want INVALID_INPUT", tt.key, err)
			}
		})
	}
}

func TestInsertBuildsSearchTree(t *testing.T) {
	tr := newTree(t, 5, 3, 8, 1, 4, 9)
	insertAll(t, tr, nil, 5, 3, 8, 1, 4, 9)

	if got := tr.Root(); got != viz.IntKey(5) {
		t.Errorf("Root() = %v, want 5", got)
	}
	if got, want := tr.InOrder(), keys(1, 3, 4, 5, 8, 9); !slices.Equal(got, want) {
		t.Errorf("InOrder() = %v, want %v", got, want)
	}
	if l, _ := tr.Child(viz.IntKey(3), viz.Left); l != viz.IntKey(1) {
		t.Errorf("3.left = %v, want 1", l)
	}
	if r, _ := tr.Child(viz.IntKey(3), viz.Right); r != viz.IntKey(4) {
		t.Errorf("3.right = %v, want 4", r)
	}
	if len(tr.Edges()) != 5 {
		t.Errorf("Edges() = %d, want 5", len(tr.Edges()))
	}
}

func TestInsertErrors(t *testing.T) {
	tr := newTree(t, 5)
	insertAll(t, tr, nil, 5)
	if err := tr.Insert(context.Background(), nil, viz.IntKey(5)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("duplicate Insert() error = %v, want INVALID_INPUT", err)
	}
	if err := tr.Insert(context.Background(), nil, viz.IntKey(6)); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Insert(unknown) error = %v, want NOT_FOUND", err)
	}
}

func TestRelayoutPositions(t *testing.T) {
	tr := newTree(t, 2, 1, 3)
	insertAll(t, tr, nil, 2, 1, 3)
	l := DefaultLayout()
	want := map[viz.Key][2]int{
		viz.IntKey(1): {l.OriginX, l.OriginY + l.DY},
		viz.IntKey(2): {l.OriginX + l.DX, l.OriginY},
		viz.IntKey(3): {l.OriginX + 2*l.DX, l.OriginY + l.DY},
	}
	for k, w := range want {
		n, _ := tr.Node(k)
		if x, y, _ := n.Target(); x != w[0] || y != w[1] {
			t.Errorf("%v target = (%d,%d), want (%d,%d)", k, x, y, w[0], w[1])
		}
	}
}

func TestSearch(t *testing.T) {
	tr := newTree(t, 5, 3, 8)
	insertAll(t, tr, nil, 5, 3, 8)

	rec := &recorder{}
	found, err := tr.Search(rec, viz.IntKey(8))
	if err != nil || !found {
		t.Fatalf("Search(8) = %v, %v", found, err)
	}
	n, _ := tr.Node(viz.IntKey(8))
	if n.Background() != ColorFound {
		t.Errorf("hit color = %s, want %s", n.Background(), ColorFound)
	}
	if len(rec.cmds) != 3 {
		t.Errorf("recorded %d commands, want 3 (visit 5, idle 5, found 8)", len(rec.cmds))
	}

	found, err = tr.Search(nil, viz.IntKey(4))
	if err != nil || found {
		t.Errorf("Search(4) = %v, %v, want miss", found, err)
	}
}

func TestRemove(t *testing.T) {
	full := []int{5, 3, 8, 1, 4, 9, 7}
	tests := []struct {
		name   string
		insert []int
		remove int
		want   []viz.Key
		root   viz.Key
	}{
		{"leaf", full, 1, keys(3, 4, 5, 7, 8, 9), viz.IntKey(5)},
		{"one child", full[:6], 8, keys(1, 3, 4, 5, 9), viz.IntKey(5)},
		{"two children", full, 3, keys(1, 4, 5, 7, 8, 9), viz.IntKey(5)},
		{"root", full, 5, keys(1, 3, 4, 7, 8, 9), viz.IntKey(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTree(t, tt.insert...)
			insertAll(t, tr, nil, tt.insert...)

			if err := tr.Remove(context.Background(), nil, viz.IntKey(tt.remove)); err != nil {
				t.Fatalf("Remove() error = %v", err)
			}
			if got := tr.InOrder(); !slices.Equal(got, tt.want) {
				t.Errorf("InOrder() = %v, want %v", got, tt.want)
			}
			if got := tr.Root(); got != tt.root {
				t.Errorf("Root() = %v, want %v", got, tt.root)
			}
			for _, s := range []viz.Side{viz.Left, viz.Right} {
				if c, _ := tr.Child(viz.IntKey(tt.remove), s); !c.IsNone() {
					t.Errorf("removed node still has %v child %v", s, c)
				}
			}
		})
	}

	tr := newTree(t, 1)
	if err := tr.Remove(context.Background(), nil, viz.IntKey(1)); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Remove(unlinked) error = %v, want NOT_FOUND", err)
	}
}

func TestRecordedInsertReplays(t *testing.T) {
	tr := newTree(t, 5, 3, 8, 4)
	initial := tr.Entries()

	rec := &recorder{}
	insertAll(t, tr, rec, 5, 3, 8, 4)
	final := tr.Entries()

	for i := len(rec.cmds) - 1; i >= 0; i-- {
		if err := viz.Unexecute(tr, rec.cmds[i]); err != nil {
			t.Fatalf("Unexecute(%v) error = %v", rec.cmds[i], err)
		}
	}
	if got := tr.Entries(); !slices.Equal(got, initial) {
		t.Errorf("after rewinding:\n got %+v\nwant %+v", got, initial)
	}

	for _, c := range rec.cmds {
		if err := viz.Execute(tr, c); err != nil {
			t.Fatalf("Execute(%v) error = %v", c, err)
		}
	}
	if got := tr.Entries(); !slices.Equal(got, final) {
		t.Errorf("after replay:\n got %+v\nwant %+v", got, final)
	}
}

func TestFromEntries(t *testing.T) {
	tr := newTree(t, 2, 1, 3)
	insertAll(t, tr, nil, 2, 1, 3)

	back, err := FromEntries(tr.Entries())
	if err != nil {
		t.Fatalf("FromEntries() error = %v", err)
	}
	if !slices.Equal(back.Entries(), tr.Entries()) {
		t.Errorf("entries differ after rebuild")
	}
	if back.Root() != viz.IntKey(2) {
		t.Errorf("Root() = %v, want 2", back.Root())
	}

	dup := append(tr.Entries(), tr.Entries()[1])
	if _, err := FromEntries(dup); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("duplicate FromEntries() error = %v, want INVALID_FORMAT", err)
	}

	dangling := []Entry{{Snapshot: viz.Snapshot{Key: viz.IntKey(1)}, Left: viz.IntKey(42)}}
	if _, err := FromEntries(dangling); !errors.Is(err, errors.ErrCodeUnresolvedReference) {
		t.Errorf("dangling FromEntries() error = %v, want UNRESOLVED_REFERENCE", err)
	}
}

func TestInsertWithTicker(t *testing.T) {
	view := render.FixedBounds{X: 0, Y: 0, W: 800, H: 600}
	tr := NewTree(WithBounds(view))
	for _, k := range keys(5, 3) {
		if _, err := tr.AddNode(k); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tickCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = viz.NewTicker(tr, time.Millisecond).Run(tickCtx)
	}()
	defer func() {
		stop()
		<-done
	}()

	insertAll(t, tr, nil, 5, 3)
	for _, k := range keys(5, 3) {
		n, _ := tr.Node(k)
		if n.State() != viz.Alive {
			t.Errorf("%v state = %v, want alive", k, n.State())
		}
	}

	if err := tr.Remove(ctx, nil, viz.IntKey(3)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	n, _ := tr.Node(viz.IntKey(3))
	if n.State() != viz.Invisible {
		t.Errorf("removed node state = %v, want invisible", n.State())
	}
}

func TestReinsertAfterRemove(t *testing.T) {
	view := render.FixedBounds{X: 0, Y: 0, W: 800, H: 600}
	tr := NewTree(WithBounds(view))
	for _, k := range keys(5, 3) {
		if _, err := tr.AddNode(k); err != nil {
			t.Fatal(err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tickCtx, stop := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = viz.NewTicker(tr, time.Millisecond).Run(tickCtx)
	}()

	rec := &recorder{}
	insertAll(t, tr, rec, 5, 3)
	if err := tr.Remove(ctx, rec, viz.IntKey(3)); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	mark := len(rec.cmds)
	if err := tr.Insert(ctx, rec, viz.IntKey(3)); err != nil {
		t.Fatalf("second Insert() error = %v", err)
	}
	stop()
	<-done

	n, _ := tr.Node(viz.IntKey(3))
	if n.State() != viz.Alive {
		t.Errorf("reinserted node state = %v, want alive", n.State())
	}
	if got := tr.InOrder(); !slices.Equal(got, keys(3, 5)) {
		t.Errorf("InOrder() = %v, want [3 5]", got)
	}
	svg := render.NewSVGSurface(view.Viewport())
	tr.Render(svg)
	if !strings.Contains(string(svg.Bytes()), ">3<") {
		t.Error("reinserted node is not drawn")
	}

	for i := len(rec.cmds) - 1; i >= mark; i-- {
		if err := viz.Unexecute(tr, rec.cmds[i]); err != nil {
			t.Fatalf("Unexecute(%v) error = %v", rec.cmds[i], err)
		}
	}
	if n.State() != viz.Invisible {
		t.Errorf("after rewinding the reinsert state = %v, want invisible", n.State())
	}
	if got := tr.InOrder(); !slices.Equal(got, keys(5)) {
		t.Errorf("after rewinding InOrder() = %v, want [5]", got)
	}
}

func TestRender(t *testing.T) {
	tr := newTree(t, 2, 1, 3)
	insertAll(t, tr, nil, 2, 1, 3)
	for _, n := range tr.Nodes() {
		for n.Step() {
		}
	}
	svg := render.NewSVGSurface(render.Rect{W: 400, H: 300})
	tr.Render(svg)
	out := string(svg.Bytes())
	for _, label := range []string{">1<", ">2<", ">3<"} {
		if !strings.Contains(out, label) {
			t.Errorf("SVG missing label %s", label)
		}
	}
}
