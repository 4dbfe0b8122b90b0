// Package store persists scenario exchange documents.
//
// Every backend implements [Store]: documents are opaque byte slices keyed by
// their document ID. Backends available:
//
//   - [FileStore]: one file per document under a directory (CLI default)
//   - [BadgerStore]: embedded key-value database
//   - [RedisStore]: shared Redis instance
//   - [MongoStore]: MongoDB collection
//   - [NullStore]: stores nothing
//
// [Compressed] wraps any store with snappy compression and [Instrument]
// reports every operation to the observability hooks.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	vizerrors "github.com/matzehuels/algoviz/pkg/errors"
)

// ErrNotFound is returned by Get when no document has the requested ID.
var ErrNotFound = errors.New("document not found")

// Store persists documents by ID.
type Store interface {
	// Get returns the document stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) ([]byte, error)

	// Put stores data under id, replacing any previous document.
	Put(ctx context.Context, id string, data []byte) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored document, sorted by ID.
	List(ctx context.Context) ([]Info, error)

	// Close releases the backend's resources.
	Close() error
}

// Info describes a stored document.
type Info struct {
	ID       string    `json:"id" yaml:"id"`
	Size     int       `json:"size" yaml:"size"`
	Modified time.Time `json:"modified" yaml:"modified"`
}

// entry is the value written by the byte-oriented backends.
type entry struct {
	ID       string    `json:"id"`
	Data     []byte    `json:"data"`
	Modified time.Time `json:"modified"`
}

func newEntry(id string, data []byte) entry {
	return entry{ID: id, Data: data, Modified: time.Now().UTC()}
}

func (e entry) info() Info {
	return Info{ID: e.ID, Size: len(e.Data), Modified: e.Modified}
}

func encodeEntry(id string, data []byte) ([]byte, error) {
	return json.Marshal(newEntry(id, data))
}

func decodeEntry(raw []byte) (entry, error) {
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return entry{}, vizerrors.Wrap(vizerrors.ErrCodeInvalidFormat, err, "corrupt store entry")
	}
	return e, nil
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func validID(id string) error {
	return vizerrors.ValidateDocumentID(id)
}
