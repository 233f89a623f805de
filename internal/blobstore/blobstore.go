package blobstore

import (
	"context"
	"errors"
	"io"
)

// Upload is an in-memory file buffer awaiting storage.
type Upload struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Object describes a stored blob.
type Object struct {
	// ID is the backend-assigned identifier used for deletion.
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`

	// CDN passthrough fields, zero on bucket backends.
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// Store is the blob store adapter. Implementations are safe for concurrent
// use; each call is independent of every other.
type Store interface {
	Store(ctx context.Context, up Upload) (Object, error)
	Delete(ctx context.Context, id string) error
}

// Opener is implemented by backends that can stream a stored blob back by
// its stored name.
type Opener interface {
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
}

// HealthChecker is implemented by backends whose remote store is reachable
// independently of the application database.
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// ErrNotFound signals that no blob matches the requested name or id.
var ErrNotFound = errors.New("blob not found")
