package storage

import (
	"context"

	"github.com/matzehuels/doctriage/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the snapshot file of the file backend.
	Path  string
	Mongo MongoOptions
}

// Open constructs the configured backend, wrapped with [Instrument].
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		s   Store
		err error
	)
	switch opts.Backend {
	case BackendMemory, "":
		s = NewMemoryStore()
		opts.Backend = BackendMemory
	case BackendFile:
		if opts.Path == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "file backend needs a path")
		}
		s, err = OpenFileStore(opts.Path)
	case BackendMongo:
		if opts.Mongo.URI == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "mongo backend needs a uri")
		}
		s, err = OpenMongoStore(ctx, opts.Mongo)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown storage backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, opts.Backend), nil
}
