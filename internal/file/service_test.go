package file

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dastan/goshop/internal/blobstore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDownloadByNameReturnsRecordAndStream(t *testing.T) {
	rec := Record{
		ID:          primitive.NewObjectID(),
		Filename:    "photo.png",
		ContentType: "image/png",
		Length:      7,
		URL:         "http://localhost:8080/files/photo.png",
	}
	repo := &fakeRecordStore{records: map[string]Record{"photo.png": rec}}
	opener := &fakeOpener{content: map[string]string{"photo.png": "payload"}}
	service := NewService(repo, opener)

	got, stream, err := service.DownloadByName(context.Background(), "photo.png")
	if err != nil {
		t.Fatalf("DownloadByName returned error: %v", err)
	}
	defer stream.Close()

	if got.ID != rec.ID {
		t.Fatalf("unexpected record: %+v", got)
	}

	data, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected stream content: %q", data)
	}
}

func TestDownloadByNameMissingRecord(t *testing.T) {
	service := NewService(&fakeRecordStore{records: map[string]Record{}}, &fakeOpener{})

	_, _, err := service.DownloadByName(context.Background(), "missing.png")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestDownloadByNameMissingBlob(t *testing.T) {
	repo := &fakeRecordStore{records: map[string]Record{
		"orphan.png": {ID: primitive.NewObjectID(), Filename: "orphan.png"},
	}}
	service := NewService(repo, &fakeOpener{})

	_, _, err := service.DownloadByName(context.Background(), "orphan.png")
	if !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected ErrFileNotFound for missing blob, got %v", err)
	}
}

// --- fakes ---

type fakeRecordStore struct {
	records map[string]Record
}

func (f *fakeRecordStore) FindByFilename(_ context.Context, filename string) (Record, error) {
	rec, ok := f.records[filename]
	if !ok {
		return Record{}, ErrFileNotFound
	}
	return rec, nil
}

func (f *fakeRecordStore) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	for name, rec := range f.records {
		if rec.ID == id {
			delete(f.records, name)
			return nil
		}
	}
	return ErrFileNotFound
}

type fakeOpener struct {
	content map[string]string
}

func (f *fakeOpener) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	data, ok := f.content[filename]
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), nil
}
