package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dastan/goshop/internal/blobstore"
	"github.com/dastan/goshop/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBlobStore struct {
	healthErr error
}

func (f *fakeBlobStore) Store(_ context.Context, up blobstore.Upload) (blobstore.Object, error) {
	return blobstore.Object{ID: up.Filename, Filename: up.Filename}, nil
}

func (f *fakeBlobStore) Delete(context.Context, string) error {
	return nil
}

func (f *fakeBlobStore) CheckHealth(context.Context) error {
	return f.healthErr
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load()
	require.NoError(t, err)

	return NewRouter(Dependencies{Config: cfg})
}

func TestLivenessEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/health/live", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodOptions, "/products", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:3000", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PUT")
}

func TestBodySizeLimitEnforced(t *testing.T) {
	t.Setenv("GOSHOP_MAX_FILE_SIZE", "1024")
	router := newTestRouter(t)
	router.POST("/echo", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.Status(http.StatusOK)
	})

	small := bytes.NewReader(make([]byte, 512))
	req, _ := http.NewRequest(http.MethodPost, "/echo", small)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	large := bytes.NewReader(make([]byte, 4096))
	req, _ = http.NewRequest(http.MethodPost, "/echo", large)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestReadinessReportsBlobStoreFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.Load()
	require.NoError(t, err)

	checker := &fakeBlobStore{}
	router := NewRouter(Dependencies{Config: cfg, Blob: checker})

	req, _ := http.NewRequest(http.MethodGet, "/health/ready", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)

	checker.healthErr = errors.New("bucket unreachable")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Contains(t, rr.Body.String(), "blobstore")
}

func TestMetricsEndpointRegistered(t *testing.T) {
	router := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Body.String())
}
