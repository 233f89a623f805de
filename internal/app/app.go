// Package app assembles the shop API from configuration. Both deployment
// shapes (long-running listener and request-per-invocation handler) build on
// the same bootstrap.
package app

import (
	"context"
	"fmt"

	"github.com/dastan/goshop/internal/auth"
	"github.com/dastan/goshop/internal/blobstore"
	"github.com/dastan/goshop/internal/config"
	"github.com/dastan/goshop/internal/file"
	"github.com/dastan/goshop/internal/product"
	"github.com/dastan/goshop/internal/server"
	"github.com/dastan/goshop/internal/storage"
	"github.com/gin-gonic/gin"
)

// App owns the wired services and their shared clients.
type App struct {
	Config config.Config
	Router *gin.Engine

	mongo *storage.Mongo
}

// New connects the storage clients, wires the repositories and services per
// the configured blob backend, and builds the router.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := storage.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureIndexes(ctx); err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	store, fileService, fileRepo, err := buildBlobBackend(ctx, cfg, db)
	if err != nil {
		_ = db.Close(ctx)
		return nil, err
	}

	authRepo := auth.NewRepository(db.Database)
	authService := auth.NewService(authRepo, cfg.Auth)

	productRepo := product.NewRepository(db.Database)
	// A typed nil must not reach the service's recorder interface.
	productService := product.NewService(productRepo, store, nil, cfg.Blob.MaxFileSize)
	if fileRepo != nil {
		productService = product.NewService(productRepo, store, fileRepo, cfg.Blob.MaxFileSize)
	}

	router := server.NewRouter(server.Dependencies{
		Config:         cfg,
		Mongo:          db,
		Blob:           store,
		AuthService:    authService,
		ProductService: productService,
		FileService:    fileService,
	})

	return &App{
		Config: cfg,
		Router: router,
		mongo:  db,
	}, nil
}

// Close releases the shared clients.
func (a *App) Close(ctx context.Context) error {
	return a.mongo.Close(ctx)
}

// buildBlobBackend returns the blob store plus, for the database-native
// bucket, the file record repository and download service.
func buildBlobBackend(ctx context.Context, cfg config.Config, db *storage.Mongo) (blobstore.Store, *file.Service, *file.Repository, error) {
	switch cfg.Blob.Backend {
	case config.BackendGridFS:
		store, err := blobstore.NewGridFS(db.Database, cfg.Blob.Bucket, cfg.Blob.PublicBaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		fileRepo := file.NewRepository(db.Database)
		return store, file.NewService(fileRepo, store), fileRepo, nil

	case config.BackendMinIO:
		client, err := storage.NewMinIOClient(cfg.Blob.MinIO)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Blob.Bucket, cfg.Blob.MinIO.Region); err != nil {
			return nil, nil, nil, err
		}
		return blobstore.NewMinIO(client, cfg.Blob.Bucket), nil, nil, nil

	case config.BackendCloudinary:
		store, err := blobstore.NewCloudinary(cfg.Blob.Cloudinary.URL, cfg.Blob.Cloudinary.Folder)
		if err != nil {
			return nil, nil, nil, err
		}
		return store, nil, nil, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown blob backend %q", cfg.Blob.Backend)
	}
}
