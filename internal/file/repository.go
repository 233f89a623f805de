package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const repoTimeout = 5 * time.Second

// Repository persists stored-file metadata records.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository builds a repository over the files collection.
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("files")}
}

// Create inserts a metadata record for a freshly stored blob.
func (r *Repository) Create(ctx context.Context, rec Record) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	if rec.UploadDate.IsZero() {
		rec.UploadDate = time.Now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("insert file record: %w", err)
	}
	return rec, nil
}

// FindByFilename returns the most recently uploaded record with the name.
func (r *Repository) FindByFilename(ctx context.Context, filename string) (Record, error) {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "uploadDate", Value: -1}})
	var rec Record
	err := r.collection.FindOne(ctx, bson.M{"filename": filename}, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Record{}, ErrFileNotFound
		}
		return Record{}, fmt.Errorf("find file record: %w", err)
	}
	return rec, nil
}

// DeleteByID removes the record for the given blob id.
func (r *Repository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, repoTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrFileNotFound
	}
	return nil
}
