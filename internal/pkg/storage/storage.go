package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

// FileStorage archives generated report files.
type FileStorage interface {
	// Upload stores a file and returns its cleaned key
	Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error)

	// Delete removes a file; a missing file is not an error
	Delete(ctx context.Context, path string) error

	// GetURL returns the public location of a stored key, or "" when
	// the storage is not published
	GetURL(ctx context.Context, path string) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, path string) (bool, error)
}
