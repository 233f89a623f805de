package metrics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "goshop_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	uploadsStoredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goshop_uploads_stored_total",
		Help: "Files successfully stored in the blob store.",
	})

	uploadedBytesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goshop_uploaded_bytes_total",
		Help: "Bytes successfully stored in the blob store.",
	})

	uploadFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "goshop_upload_failures_total",
		Help: "Upload batches that failed in the blob store.",
	})
)

// Middleware counts every handled request.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Register attaches the Prometheus metrics endpoint to the router.
func Register(router *gin.Engine, path string) {
	router.GET(path, gin.WrapH(promhttp.Handler()))
}

// UploadStored records a fully stored batch.
func UploadStored(files int, bytes int64) {
	uploadsStoredTotal.Add(float64(files))
	uploadedBytesTotal.Add(float64(bytes))
}

// UploadFailed records a batch that failed to store.
func UploadFailed() {
	uploadFailuresTotal.Inc()
}
