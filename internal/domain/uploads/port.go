package uploads

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates no upload exists for the given id (or it belongs to
// another user).
var ErrNotFound = errors.New("upload not found")

// Repository port for upload persistence
type Repository interface {
	Save(ctx context.Context, u *Upload) (int64, error)
	Get(ctx context.Context, id int64) (*Upload, error)
	ListByUser(ctx context.Context, email string) ([]*Upload, error)
}

// ArtifactStore port for the uploaded file bytes
type ArtifactStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}
