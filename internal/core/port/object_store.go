package port

import (
	"context"
	"io"
)

// ObjectStore persists binary payloads (scan images) outside the database.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, reader io.Reader, size int64) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
