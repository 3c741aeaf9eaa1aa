package photostore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get and Delete for unknown keys.
var ErrNotFound = errors.New("photo not found")

// PhotoStore keeps the bytes of uploaded report photos. A report refers to a
// stored photo by the key returned from Save.
type PhotoStore interface {
	Save(ctx context.Context, prefix, mimeType string, r io.Reader) (storageKey string, err error)
	Get(ctx context.Context, storageKey string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, storageKey string) error
}
