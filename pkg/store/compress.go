package store

import (
	"context"

	"github.com/golang/snappy"

	"github.com/matzehuels/algoviz/pkg/errors"
)

// Compressed stores snappy-compressed documents in an inner store.
type Compressed struct {
	inner Store
}

// NewCompressed wraps inner.
func NewCompressed(inner Store) *Compressed {
	return &Compressed{inner: inner}
}

// Get decompresses the stored document.
func (c *Compressed) Get(ctx context.Context, id string) ([]byte, error) {
	raw, err := c.inner.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := snappy.Decode(nil, raw)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decompress %s", id)
	}
	return data, nil
}

// Put compresses data before storing it.
func (c *Compressed) Put(ctx context.Context, id string, data []byte) error {
	return c.inner.Put(ctx, id, snappy.Encode(nil, data))
}

// Delete removes a document.
func (c *Compressed) Delete(ctx context.Context, id string) error {
	return c.inner.Delete(ctx, id)
}

// List reports the listing of the inner store. Sizes are compressed sizes.
func (c *Compressed) List(ctx context.Context) ([]Info, error) {
	return c.inner.List(ctx)
}

// Close closes the inner store.
func (c *Compressed) Close() error {
	return c.inner.Close()
}

var _ Store = (*Compressed)(nil)
