package transport

import (
	"errors"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ds124wfegd/WB_L3/thumbnailer/internal/pkg/storage"
	"github.com/gin-gonic/gin"
)

func (h *Handler) PutObject(c *gin.Context) {
	key := c.Param("key")

	if err := h.storage.Save(key, c.Request.Body); err != nil {
		c.JSON(objectErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// GetObject serves an origin object; Content-Length is always set.
func (h *Handler) GetObject(c *gin.Context) {
	key := c.Param("key")

	reader, size, err := h.storage.Get(key)
	if err != nil {
		c.JSON(objectErrorStatus(err), gin.H{"error": "object not found"})
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, size, contentType, reader, nil)
}

func (h *Handler) DeleteObject(c *gin.Context) {
	if err := h.storage.Delete(c.Param("key")); err != nil {
		c.JSON(objectErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "object deleted"})
}

func objectErrorStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrInvalidKey):
		return http.StatusBadRequest
	case os.IsNotExist(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
