package service

import (
	"context"
	"io"
)

// Uploader stores a file in object storage and returns its public URL.
// folder and publicID together form the namespaced object path.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, folder string, publicID string) (string, error)
	Delete(ctx context.Context, publicID string) error
}
