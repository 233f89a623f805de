package file

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the blob download endpoint. Only registered for
// backends that can stream stored objects back by name.
func RegisterRoutes(router gin.IRoutes, service *Service) {
	handler := &httpHandler{service: service}
	router.GET("/files/:filename", handler.download)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) download(c *gin.Context) {
	filename := c.Param("filename")

	rec, stream, err := h.service.DownloadByName(c.Request.Context(), filename)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch file"})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", rec.ContentType)
	c.Header("Content-Length", fmt.Sprintf("%d", rec.Length))
	c.Status(http.StatusOK)

	// Headers are already written; a mid-stream failure truncates the
	// response instead of silently succeeding.
	if _, err := io.Copy(c.Writer, stream); err != nil {
		log.Printf("truncated download of %q: %v", filename, err)
		c.Abort()
	}
}
