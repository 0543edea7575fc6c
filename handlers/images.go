package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"burrito-rater-api/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImageSize caps uploads at 10 MB.
const maxImageSize = 10 << 20

// ImageHandler stores rating photos in object storage under generated keys.
type ImageHandler struct {
	Store  storage.ObjectStore
	Bucket string
}

func NewImageHandler(store storage.ObjectStore, bucket string) *ImageHandler {
	return &ImageHandler{Store: store, Bucket: bucket}
}

func (h *ImageHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	defer file.Close()

	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	body, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := uuid.NewString() + filepath.Ext(header.Filename)
	err = h.Store.Put(c.Request.Context(), h.Bucket, key, body, storage.PutOptions{
		ContentType: contentType,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"filename": key})
}
