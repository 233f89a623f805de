package server

import (
	"net/http"
	"time"

	"github.com/dastan/goshop/internal/auth"
	"github.com/dastan/goshop/internal/blobstore"
	"github.com/dastan/goshop/internal/config"
	"github.com/dastan/goshop/internal/file"
	"github.com/dastan/goshop/internal/metrics"
	"github.com/dastan/goshop/internal/product"
	"github.com/dastan/goshop/internal/storage"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Dependencies groups the services required by the HTTP router.
type Dependencies struct {
	Config         config.Config
	Mongo          *storage.Mongo
	Blob           blobstore.Store
	AuthService    *auth.Service
	ProductService *product.Service
	// FileService is nil on backends that serve blobs by absolute URL.
	FileService *file.Service
}

// NewRouter builds a Gin engine with foundational middleware and routes.
func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(metrics.Middleware())
	router.Use(cors.New(corsConfig(deps.Config.CORS)))
	router.Use(limitBodySize(deps.Config.Blob.MaxFileSize))

	// Multipart bodies buffer in memory up to the configured file cap.
	router.MaxMultipartMemory = deps.Config.Blob.MaxFileSize

	registerHealthRoutes(router, deps)
	metrics.Register(router, deps.Config.Metrics.PrometheusPath)

	if deps.AuthService != nil {
		auth.RegisterRoutes(router, deps.AuthService)
	}
	if deps.ProductService != nil {
		product.RegisterRoutes(router, deps.ProductService)
	}
	if deps.FileService != nil {
		file.RegisterRoutes(router, deps.FileService)
	}

	return router
}

// limitBodySize caps how much of a request body any handler can read;
// MaxMultipartMemory alone is a buffering threshold, not a limit.
func limitBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func corsConfig(cfg config.CORSConfig) cors.Config {
	return cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"POST", "GET", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "X-Requested-With", "Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}
}
