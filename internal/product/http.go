package product

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dastan/goshop/internal/blobstore"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RegisterRoutes mounts the product and category endpoints.
func RegisterRoutes(router gin.IRoutes, service *Service) {
	handler := &httpHandler{service: service}
	router.POST("/upload", handler.upload)
	router.GET("/products", handler.list)
	router.GET("/products/:id", handler.get)
	router.PUT("/products/:id", handler.update)
	router.DELETE("/products/:id", handler.remove)
	router.GET("/categories", handler.categories)
	router.GET("/categories/:subcategory", handler.bySubcategory)
}

type httpHandler struct {
	service *Service
}

func (h *httpHandler) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	files, err := h.readUploads(form.File["images"])
	if err != nil {
		h.writeError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), CreateInput{
		Name:        c.PostForm("name"),
		Price:       c.PostForm("price"),
		Description: c.PostForm("description"),
		Sizes:       form.Value["sizes"],
		Category:    c.PostForm("category"),
		Subcategory: c.PostForm("subcategory"),
		Files:       files,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *httpHandler) get(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *httpHandler) list(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	c.JSON(http.StatusOK, products)
}

func (h *httpHandler) update(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	input := UpdateInput{}
	if v, ok := c.GetPostForm("name"); ok {
		input.Name = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		input.Price = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := c.GetPostFormArray("sizes"); ok {
		input.Sizes = v
	}
	if v, ok := c.GetPostForm("category"); ok {
		input.Category = &v
	}
	if v, ok := c.GetPostForm("subcategory"); ok {
		input.Subcategory = &v
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		files, err := h.readUploads(form.File["images"])
		if err != nil {
			h.writeError(c, err)
			return
		}
		input.Files = files
	}

	updated, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *httpHandler) remove(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
}

func (h *httpHandler) categories(c *gin.Context) {
	groups, err := h.service.Categories(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if groups == nil {
		groups = []CategoryGroup{}
	}
	c.JSON(http.StatusOK, groups)
}

func (h *httpHandler) bySubcategory(c *gin.Context) {
	products, err := h.service.BySubcategory(c.Request.Context(), c.Param("subcategory"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	c.JSON(http.StatusOK, products)
}

// readUploads buffers the multipart files, rejecting oversized ones before
// they reach the workflow.
func (h *httpHandler) readUploads(headers []*multipart.FileHeader) ([]blobstore.Upload, error) {
	uploads := make([]blobstore.Upload, 0, len(headers))
	for _, header := range headers {
		if max := h.service.MaxFileSize(); max > 0 && header.Size > max {
			return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, header.Filename)
		}

		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %q: %v", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %q: %v", header.Filename, err)
		}

		uploads = append(uploads, blobstore.Upload{
			Data:        data,
			Filename:    header.Filename,
			ContentType: detectContentType(header),
		})
	}
	return uploads, nil
}

func (h *httpHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNoFiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files were uploaded"})
	case errors.Is(err, ErrInvalidPrice):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price value"})
	case errors.Is(err, ErrMissingField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
	case errors.Is(err, ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
	}
}

func detectContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
