package file

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dastan/goshop/internal/blobstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// recordStore abstracts the metadata repository.
type recordStore interface {
	FindByFilename(ctx context.Context, filename string) (Record, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// Service resolves stored filenames to blob streams.
type Service struct {
	repo   recordStore
	opener blobstore.Opener
}

// NewService constructs a file service over a streaming-capable backend.
func NewService(repo recordStore, opener blobstore.Opener) *Service {
	return &Service{repo: repo, opener: opener}
}

// DownloadByName returns the record and a lazy, non-restartable byte stream
// for the named file. The caller owns closing the stream.
func (s *Service) DownloadByName(ctx context.Context, filename string) (Record, io.ReadCloser, error) {
	rec, err := s.repo.FindByFilename(ctx, filename)
	if err != nil {
		return Record{}, nil, err
	}

	stream, err := s.opener.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return Record{}, nil, ErrFileNotFound
		}
		return Record{}, nil, fmt.Errorf("open blob %q: %w", filename, err)
	}

	return rec, stream, nil
}
