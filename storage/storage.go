package storage

import (
	"context"
	stderrors "errors"
	"io"
	"time"

	"github.com/kbukum/streamkit/errors"
)

// ErrNotFound is the cause of the error returned for a missing object.
var ErrNotFound = stderrors.New("object not found")

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Storage is a read/write object store.
type Storage interface {
	// Upload writes reader to path, replacing any existing object.
	Upload(ctx context.Context, path string, reader io.Reader) error
	// Open returns the object's contents. The caller closes the reader.
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// List returns the objects whose path starts with prefix, ordered by path.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

// NotFound builds the error backends return for a missing object. It is not
// retryable.
func NotFound(path string) *errors.AppError {
	err := errors.SourceUnavailable("storage "+path, ErrNotFound)
	err.Retryable = false
	return err
}
