package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFS stores blobs inside the application's own MongoDB database.
// Bucket deadlines are bucket-wide state, so no per-call deadline is set;
// the driver's operation timeouts bound each call.
type GridFS struct {
	bucket  *gridfs.Bucket
	baseURL string
}

// NewGridFS opens the named GridFS bucket on the database.
func NewGridFS(db *mongo.Database, bucketName, baseURL string) (*GridFS, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(bucketName))
	if err != nil {
		return nil, fmt.Errorf("open gridfs bucket %q: %w", bucketName, err)
	}
	return &GridFS{bucket: bucket, baseURL: baseURL}, nil
}

// Store writes the buffer under its original filename and returns the
// store-assigned id plus a caller-resolvable /files URL.
func (g *GridFS) Store(_ context.Context, up Upload) (Object, error) {
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType": up.ContentType,
	})

	fileID, err := g.bucket.UploadFromStream(up.Filename, bytes.NewReader(up.Data), uploadOpts)
	if err != nil {
		return Object{}, fmt.Errorf("gridfs upload %q: %w", up.Filename, err)
	}

	return Object{
		ID:          fileID.Hex(),
		Filename:    up.Filename,
		URL:         fileURL(g.baseURL, up.Filename),
		ContentType: up.ContentType,
		SizeBytes:   int64(len(up.Data)),
	}, nil
}

// Open returns a lazy read stream for the most recent revision of filename.
func (g *GridFS) Open(_ context.Context, filename string) (io.ReadCloser, error) {
	stream, err := g.bucket.OpenDownloadStreamByName(filename)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("gridfs open %q: %w", filename, err)
	}
	return stream, nil
}

// Delete removes the blob by its hex object id.
func (g *GridFS) Delete(_ context.Context, id string) error {
	fileID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("parse blob id %q: %w", id, err)
	}

	if err := g.bucket.Delete(fileID); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("gridfs delete %q: %w", id, err)
	}
	return nil
}

func fileURL(baseURL, filename string) string {
	return baseURL + "/files/" + url.PathEscape(filename)
}
