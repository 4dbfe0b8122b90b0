package store

import (
	"context"
	"errors"
	"os"

	badger "github.com/dgraph-io/badger/v4"
)

const badgerPrefix = "doc:"

// BadgerStore keeps documents in an embedded Badger database.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a database at dir. An empty dir opens an in-memory
// database.
func NewBadgerStore(dir string) (*BadgerStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
		opts = badger.DefaultOptions(dir)
	}
	db, err := badger.Open(opts.WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db}, nil
}

// Get reads a document.
func (s *BadgerStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	e, err := decodeEntry(raw)
	if err != nil {
		return nil, err
	}
	return e.Data, nil
}

// Put writes a document.
func (s *BadgerStore) Put(ctx context.Context, id string, data []byte) error {
	if err := validID(id); err != nil {
		return err
	}
	raw, err := encodeEntry(id, data)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerPrefix+id), raw)
	})
}

// Delete removes a document.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerPrefix + id))
	})
}

// List iterates the document prefix. Keys are sorted, so the result is too.
func (s *BadgerStore) List(ctx context.Context) ([]Info, error) {
	var out []Info
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 100
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(badgerPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				e, err := decodeEntry(val)
				if err != nil {
					return err
				}
				out = append(out, e.info())
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

var _ Store = (*BadgerStore)(nil)
