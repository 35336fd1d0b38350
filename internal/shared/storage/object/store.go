package object

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Open when no object exists at the key.
var ErrNotFound = errors.New("object not found")

// ObjectStore defines the contract for saving and retrieving binary objects.
// Storage keys are slash-separated and relative to the store root.
type ObjectStore interface {
	// Save writes r under namespace/fileName and sniffs its content type.
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	// SaveWithKey writes r at an exact storage key.
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
}
