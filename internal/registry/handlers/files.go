package handlers

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/storage"
)

// Upload slots and the extensions each accepts.
var uploadSlots = map[string][]string{
	"pdf":     storage.PDFOnly,
	"image":   storage.ImageOnly,
	"word":    storage.WordOnly,
	"receipt": storage.ReceiptAny,
}

// UploadFile stores a multipart upload and returns the key the caller then
// writes into the owning record. The :model segment namespaces the key; the
// "slot" field picks the extension allow-list.
func (h *Handler) UploadFile(c *gin.Context) {
	model := c.Param("model")
	allowed, ok := uploadSlots[c.PostForm("slot")]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown upload slot"})
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	f, err := header.Open()
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	key, err := h.files.Save(model, header.Filename, allowed, f)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"key": key})
}

// DownloadFile streams a stored document to an authorized staff member.
func (h *Handler) DownloadFile(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	f, err := h.files.Open(key)
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer f.Close()

	h.service.RecordDownload(c.Request.Context(), actorFrom(c), key)

	ctype := mime.TypeByExtension(filepath.Ext(key))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	c.Header("Content-Type", ctype)
	c.Header("Content-Disposition", "attachment; filename="+filepath.Base(key))
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, f); err != nil {
		h.logger.Warn("download interrupted")
	}
}
