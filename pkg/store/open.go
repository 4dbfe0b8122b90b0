package store

import (
	"context"

	"github.com/matzehuels/algoviz/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendNull   = "null"
)

// Backends lists every backend name.
func Backends() []string {
	return []string{BackendFile, BackendBadger, BackendRedis, BackendMongo, BackendNull}
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the directory of the file and badger backends.
	Path string

	RedisAddr string
	RedisDB   int

	MongoURI      string
	MongoDatabase string

	// Compress wraps the backend with snappy compression.
	Compress bool
}

// Open creates the configured store, instrumented with the store hooks.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendFile, "":
		s, err = NewFileStore(opts.Path)
	case BackendBadger:
		s, err = NewBadgerStore(opts.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB)
	case BackendMongo:
		s, err = NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendNull:
		s = NewNullStore()
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", opts.Backend)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s store", opts.Backend)
	}
	if opts.Compress {
		s = NewCompressed(s)
	}
	backend := opts.Backend
	if backend == "" {
		backend = BackendFile
	}
	return Instrument(s, backend), nil
}
