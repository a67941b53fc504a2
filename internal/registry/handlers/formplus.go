package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

type formPlusRequest struct {
	Number       string    `json:"number"`
	Date         time.Time `json:"date"`
	GovernmentID *uint     `json:"government_id"`
	TypeID       uint      `json:"type_id" binding:"required"`
	Title        string    `json:"title" binding:"required"`
	Keywords     string    `json:"keywords"`
	PDFFile      string    `json:"pdf_file" binding:"required"`
	WordFile     string    `json:"word_file"`
}

type formPlusUpdateRequest struct {
	Number       *string    `json:"number"`
	Date         *time.Time `json:"date"`
	GovernmentID *uint      `json:"government_id"`
	TypeID       *uint      `json:"type_id"`
	Title        *string    `json:"title"`
	Keywords     *string    `json:"keywords"`
	PDFFile      *string    `json:"pdf_file"`
	WordFile     *string    `json:"word_file"`
}

func (h *Handler) CreateFormPlus(c *gin.Context) {
	var req formPlusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc := &models.FormPlus{
		Number:       req.Number,
		Date:         req.Date,
		GovernmentID: req.GovernmentID,
		TypeID:       req.TypeID,
		Title:        req.Title,
		Keywords:     req.Keywords,
		PDFFile:      req.PDFFile,
		WordFile:     req.WordFile,
	}
	created, err := h.service.CreateFormPlus(c.Request.Context(), doc, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetFormPlus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	doc, err := h.service.GetFormPlus(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) ListFormPlus(c *gin.Context) {
	filter := db.FormPlusFilter{
		TypeID: uint(queryInt(c, "type_id")),
		Year:   queryInt(c, "year"),
		Offset: queryInt(c, "offset"),
		Limit:  queryInt(c, "limit"),
	}
	docs, err := h.service.ListFormPlus(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"forms": docs})
}

func (h *Handler) UpdateFormPlus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req formPlusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update := &models.FormPlusUpdate{
		ID:           id,
		Number:       req.Number,
		Date:         req.Date,
		GovernmentID: req.GovernmentID,
		TypeID:       req.TypeID,
		Title:        req.Title,
		Keywords:     req.Keywords,
		PDFFile:      req.PDFFile,
		WordFile:     req.WordFile,
	}
	doc, err := h.service.UpdateFormPlus(c.Request.Context(), update, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) DeleteFormPlus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteFormPlus(c.Request.Context(), id, actorFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
