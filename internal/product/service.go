package product

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/dastan/goshop/internal/blobstore"
	"github.com/dastan/goshop/internal/file"
	"github.com/dastan/goshop/internal/metrics"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// productStore abstracts the product repository.
type productStore interface {
	Create(ctx context.Context, p Product) (Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (Product, error)
	ListAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) (Product, error)
	DistinctCategories(ctx context.Context) ([]CategoryGroup, error)
	FindBySubcategory(ctx context.Context, name string) ([]Product, error)
}

// fileRecorder persists one metadata record per stored blob. Nil on backends
// that keep metadata inline on the product.
type fileRecorder interface {
	Create(ctx context.Context, rec file.Record) (file.Record, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
}

// Service drives the ingestion workflow: validate fields, store blobs,
// collect metadata, persist the product.
type Service struct {
	repo        productStore
	store       blobstore.Store
	files       fileRecorder
	maxFileSize int64
}

// NewService constructs the ingestion service. files may be nil.
func NewService(repo productStore, store blobstore.Store, files fileRecorder, maxFileSize int64) *Service {
	return &Service{
		repo:        repo,
		store:       store,
		files:       files,
		maxFileSize: maxFileSize,
	}
}

// MaxFileSize reports the per-file cap enforced at the boundary.
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// CreateInput carries the upload form fields plus the file buffers.
type CreateInput struct {
	Name        string
	Price       string
	Description string
	Sizes       []string
	Category    string
	Subcategory string
	Files       []blobstore.Upload
}

// UpdateInput carries a partial update. Nil pointers mean "leave unchanged";
// an empty Files slice leaves the image list untouched.
type UpdateInput struct {
	Name        *string
	Price       *string
	Description *string
	Sizes       []string
	Category    *string
	Subcategory *string
	Files       []blobstore.Upload
}

// Create validates the fields, stores every file and persists the product.
// All field validation happens before any blob is stored.
func (s *Service) Create(ctx context.Context, in CreateInput) (Product, error) {
	if len(in.Files) == 0 {
		return Product{}, ErrNoFiles
	}
	if strings.TrimSpace(in.Name) == "" {
		return Product{}, fmt.Errorf("%w: name", ErrMissingField)
	}
	if strings.TrimSpace(in.Description) == "" {
		return Product{}, fmt.Errorf("%w: description", ErrMissingField)
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return Product{}, err
	}
	if err := s.checkFileSizes(in.Files); err != nil {
		return Product{}, err
	}

	images, err := s.storeAll(ctx, in.Files)
	if err != nil {
		return Product{}, err
	}

	created, err := s.repo.Create(ctx, Product{
		Name:        in.Name,
		Price:       price,
		Description: in.Description,
		Sizes:       normalizeSizes(in.Sizes),
		Images:      images,
		Category:    in.Category,
		Subcategory: in.Subcategory,
	})
	if err != nil {
		s.compensate(ctx, images)
		return Product{}, fmt.Errorf("persist product: %w", err)
	}

	return created, nil
}

// Update merges only the fields present in the input. Supplying files
// replaces the image list wholesale; the previous list's blobs are deleted.
func (s *Service) Update(ctx context.Context, id primitive.ObjectID, in UpdateInput) (Product, error) {
	fields := bson.M{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Price != nil && *in.Price != "" {
		price, err := parsePrice(*in.Price)
		if err != nil {
			return Product{}, err
		}
		fields["price"] = price
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Sizes != nil {
		fields["sizes"] = normalizeSizes(in.Sizes)
	}
	if in.Category != nil {
		fields["category"] = *in.Category
	}
	if in.Subcategory != nil {
		fields["subcategory"] = *in.Subcategory
	}
	if err := s.checkFileSizes(in.Files); err != nil {
		return Product{}, err
	}

	var replaced []Image
	if len(in.Files) > 0 {
		prev, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return Product{}, err
		}
		replaced = prev.Images

		images, err := s.storeAll(ctx, in.Files)
		if err != nil {
			return Product{}, err
		}
		fields["images"] = images
	}

	if len(fields) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if images, ok := fields["images"].([]Image); ok {
			s.compensate(ctx, images)
		}
		return Product{}, err
	}

	// The old list is unreachable once replaced; cascade its blobs away.
	s.deleteImages(ctx, replaced)

	return updated, nil
}

// Get fetches one product.
func (s *Service) Get(ctx context.Context, id primitive.ObjectID) (Product, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all products.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes the product and cascade-deletes its owned file records and
// blobs on every backend.
func (s *Service) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	s.deleteImages(ctx, deleted.Images)
	return nil
}

// Categories returns the distinct category to subcategory grouping.
func (s *Service) Categories(ctx context.Context) ([]CategoryGroup, error) {
	return s.repo.DistinctCategories(ctx)
}

// BySubcategory returns products filtered by subcategory.
func (s *Service) BySubcategory(ctx context.Context, name string) ([]Product, error) {
	return s.repo.FindBySubcategory(ctx, name)
}

// storeAll dispatches every file to the blob store concurrently and collects
// the results in input order. On any failure the blobs that already stored
// are deleted best-effort and one aggregate error is returned.
func (s *Service) storeAll(ctx context.Context, uploads []blobstore.Upload) ([]Image, error) {
	objects := make([]blobstore.Object, len(uploads))
	stored := make([]bool, len(uploads))

	g, gctx := errgroup.WithContext(ctx)
	for i, up := range uploads {
		i, up := i, up
		g.Go(func() error {
			obj, err := s.store.Store(gctx, up)
			if err != nil {
				return fmt.Errorf("store %q: %w", up.Filename, err)
			}
			objects[i] = obj
			stored[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for i := range objects {
			if stored[i] {
				if derr := s.store.Delete(ctx, objects[i].ID); derr != nil {
					log.Printf("compensating delete of %q failed: %v", objects[i].ID, derr)
				}
			}
		}
		metrics.UploadFailed()
		return nil, fmt.Errorf("%w: %v", ErrStorageFailed, err)
	}

	images := make([]Image, len(objects))
	var totalBytes int64
	for i, obj := range objects {
		images[i] = imageFromObject(obj)
		totalBytes += obj.SizeBytes
	}

	if s.files != nil {
		for _, obj := range objects {
			if _, err := s.files.Create(ctx, recordFromObject(obj)); err != nil {
				// Every blob in the batch is already stored at this point;
				// the whole batch rolls back, records included.
				s.compensate(ctx, images)
				metrics.UploadFailed()
				return nil, fmt.Errorf("persist file record %q: %w", obj.Filename, err)
			}
		}
	}

	metrics.UploadStored(len(images), totalBytes)
	return images, nil
}

// compensate undoes blob stores and file records after a downstream failure.
func (s *Service) compensate(ctx context.Context, images []Image) {
	s.deleteImages(ctx, images)
}

func (s *Service) deleteImages(ctx context.Context, images []Image) {
	for _, img := range images {
		if s.files != nil && !img.FileID.IsZero() {
			if err := s.files.DeleteByID(ctx, img.FileID); err != nil && !errors.Is(err, file.ErrFileNotFound) {
				log.Printf("delete file record %s: %v", img.FileID.Hex(), err)
			}
		}
		id := img.ExternalID
		if id == "" {
			id = img.FileID.Hex()
		}
		if err := s.store.Delete(ctx, id); err != nil && !errors.Is(err, blobstore.ErrNotFound) {
			log.Printf("delete blob %q: %v", id, err)
		}
	}
}

func (s *Service) checkFileSizes(uploads []blobstore.Upload) error {
	for _, up := range uploads {
		if s.maxFileSize > 0 && int64(len(up.Data)) > s.maxFileSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, up.Filename)
		}
	}
	return nil
}

func imageFromObject(obj blobstore.Object) Image {
	img := Image{
		Filename: obj.Filename,
		URL:      obj.URL,
		Format:   obj.Format,
		Width:    obj.Width,
		Height:   obj.Height,
	}
	if oid, err := primitive.ObjectIDFromHex(obj.ID); err == nil {
		img.FileID = oid
	} else {
		img.ExternalID = obj.ID
	}
	return img
}

func recordFromObject(obj blobstore.Object) file.Record {
	rec := file.Record{
		Filename:    obj.Filename,
		ContentType: obj.ContentType,
		Length:      obj.SizeBytes,
		URL:         obj.URL,
	}
	if oid, err := primitive.ObjectIDFromHex(obj.ID); err == nil {
		rec.ID = oid
	} else {
		rec.ID = primitive.NewObjectID()
	}
	return rec
}

// normalizeSizes guarantees the stored value is a sequence.
func normalizeSizes(sizes []string) []string {
	if sizes == nil {
		return []string{}
	}
	return sizes
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, ErrInvalidPrice
	}
	return price, nil
}
