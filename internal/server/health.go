package server

import (
	"context"
	"net/http"
	"time"

	"github.com/dastan/goshop/internal/blobstore"
	"github.com/gin-gonic/gin"
)

const readinessTimeout = 5 * time.Second

func registerHealthRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/health/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		if deps.Mongo != nil {
			if err := deps.Mongo.Client.Ping(ctx, nil); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "degraded",
					"component": "mongo",
					"error":     err.Error(),
				})
				return
			}
		}

		// GridFS shares the database, so the ping above already covers it;
		// external blob backends report their own reachability.
		if checker, ok := deps.Blob.(blobstore.HealthChecker); ok {
			if err := checker.CheckHealth(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "degraded",
					"component": "blobstore",
					"error":     err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
