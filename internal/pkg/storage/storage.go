package storage

import (
	"context"
	"io"
)

type FileStorage interface {
	// Upload stores a file and returns its path/key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file
	Delete(ctx context.Context, path string) error

	// GetURL returns a public URL for a stored path
	GetURL(ctx context.Context, path string) (string, error)
}
