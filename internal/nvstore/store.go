// Package nvstore provides the non-volatile storage backends that hold a
// saved user dictionary image.
package nvstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrEmpty is returned by Load when nothing has been saved yet.
var ErrEmpty = errors.New("no saved image")

// Store saves and loads a single opaque image.
type Store interface {
	Save(ctx context.Context, image []byte) error
	Load(ctx context.Context) ([]byte, error)
}

// Open returns a Store for the named backend; path is ignored by the memory
// backend. Any returned Store that needs closing implements io.Closer.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "", "memory":
		return &MemStore{}, nil
	case "file":
		if path == "" {
			return nil, errors.New("file store needs a path")
		}
		return FileStore(path), nil
	case "sqlite":
		if path == "" {
			return nil, errors.New("sqlite store needs a path")
		}
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

// Close closes st if it is an io.Closer.
func Close(st Store) error {
	if cl, ok := st.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}
