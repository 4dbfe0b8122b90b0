package store

import (
	"context"
	"time"

	"github.com/matzehuels/algoviz/pkg/observability"
)

// Instrumented reports every operation of an inner store to
// observability.Store().
type Instrumented struct {
	inner   Store
	backend string
}

// Instrument wraps inner. backend labels the reported events.
func Instrument(inner Store, backend string) *Instrumented {
	return &Instrumented{inner: inner, backend: backend}
}

func (s *Instrumented) report(ctx context.Context, op string, start time.Time, err error) {
	if IsNotFound(err) {
		err = nil
	}
	observability.Store().OnStoreOp(ctx, s.backend, op, time.Since(start), err)
}

// Get implements Store.
func (s *Instrumented) Get(ctx context.Context, id string) ([]byte, error) {
	start := time.Now()
	data, err := s.inner.Get(ctx, id)
	s.report(ctx, "get", start, err)
	return data, err
}

// Put implements Store.
func (s *Instrumented) Put(ctx context.Context, id string, data []byte) error {
	start := time.Now()
	err := s.inner.Put(ctx, id, data)
	s.report(ctx, "put", start, err)
	return err
}

// Delete implements Store.
func (s *Instrumented) Delete(ctx context.Context, id string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, id)
	s.report(ctx, "delete", start, err)
	return err
}

// List implements Store.
func (s *Instrumented) List(ctx context.Context) ([]Info, error) {
	start := time.Now()
	infos, err := s.inner.List(ctx)
	s.report(ctx, "list", start, err)
	return infos, err
}

// Close implements Store.
func (s *Instrumented) Close() error {
	return s.inner.Close()
}

var _ Store = (*Instrumented)(nil)
