package store

import "context"

// NullStore is a no-op store that never keeps anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() *NullStore {
	return &NullStore{}
}

// Get always reports ErrNotFound.
func (NullStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	return nil, ErrNotFound
}

// Put does nothing.
func (NullStore) Put(ctx context.Context, id string, data []byte) error {
	return validID(id)
}

// Delete does nothing.
func (NullStore) Delete(ctx context.Context, id string) error {
	return validID(id)
}

// List always returns an empty listing.
func (NullStore) List(ctx context.Context) ([]Info, error) {
	return nil, nil
}

// Close does nothing.
func (NullStore) Close() error {
	return nil
}

var _ Store = NullStore{}
