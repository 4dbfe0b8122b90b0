package store

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileStore keeps one JSON entry file per document. Files are spread over
// subdirectories named after the first two characters of the ID hash.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store in dir, creating the directory.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the root directory.
func (s *FileStore) Dir() string { return s.dir }

// Get reads a document.
func (s *FileStore) Get(ctx context.Context, id string) ([]byte, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := decodeEntry(raw)
	if err != nil {
		return nil, err
	}
	return e.Data, nil
}

// Put writes a document atomically through a temporary file.
func (s *FileStore) Put(ctx context.Context, id string, data []byte) error {
	if err := validID(id); err != nil {
		return err
	}
	raw, err := encodeEntry(id, data)
	if err != nil {
		return err
	}
	path := s.path(id)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes a document.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := validID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// List walks the store directory and reads every entry.
func (s *FileStore) List(ctx context.Context) ([]Info, error) {
	var out []Info
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		e, err := decodeEntry(raw)
		if err != nil {
			// Foreign files are skipped.
			return nil
		}
		out = append(out, e.info())
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortInfos(out)
	return out, nil
}

// Close does nothing for file store.
func (s *FileStore) Close() error {
	return nil
}

// path converts a document ID to a file path.
func (s *FileStore) path(id string) string {
	hash := Hash([]byte(id))
	return filepath.Join(s.dir, hash[:2], hash[2:]+".json")
}

func sortInfos(infos []Info) {
	slices.SortFunc(infos, func(a, b Info) int { return strings.Compare(a.ID, b.ID) })
}

var _ Store = (*FileStore)(nil)
