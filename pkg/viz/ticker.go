package viz

import (
	"context"
	"time"
)

// DefaultTickInterval is the animation period used when none is configured.
const DefaultTickInterval = 30 * time.Millisecond

// Stepper lists the nodes that advance on every tick.
type Stepper interface {
	Nodes() []*Node
}

// Ticker advances every node of a Stepper once per interval. It is the only
// writer of node positions besides interrupted waits.
type Ticker struct {
	src      Stepper
	interval time.Duration
	onTick   func(moved int)
}

// TickerOption configures a Ticker.
type TickerOption func(*Ticker)

// OnTick registers a callback invoked after every tick with the number of
// nodes that moved.
func OnTick(fn func(moved int)) TickerOption { return func(t *Ticker) { t.onTick = fn } }

// NewTicker creates a ticker over src. A non-positive interval selects
// DefaultTickInterval.
func NewTicker(src Stepper, interval time.Duration, opts ...TickerOption) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	t := &Ticker{src: src, interval: interval}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Interval returns the tick period.
func (t *Ticker) Interval() time.Duration { return t.interval }

// Tick steps every node once and returns how many moved.
func (t *Ticker) Tick() int {
	moved := 0
	for _, n := range t.src.Nodes() {
		if n.Step() {
			moved++
		}
	}
	if t.onTick != nil {
		t.onTick(moved)
	}
	return moved
}

// Run ticks until ctx is done and returns ctx.Err().
func (t *Ticker) Run(ctx context.Context) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
			t.Tick()
		}
	}
}

// Settle ticks until no node moves, at most limit times, and returns the
// number of ticks performed.
func (t *Ticker) Settle(limit int) int {
	for i := 0; i < limit; i++ {
		if t.Tick() == 0 {
			return i
		}
	}
	return limit
}
