package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

type publicationRequest struct {
	Number        int        `json:"number" binding:"required,gt=0"`
	DecreeNumber  int        `json:"decree_number" binding:"required,gt=0"`
	Year          int        `json:"year" binding:"required,gt=0"`
	Applicant     string     `json:"applicant" binding:"required"`
	Owner         string     `json:"owner" binding:"required"`
	CountryID     uint       `json:"country_id" binding:"required"`
	Address       string     `json:"address"`
	DateApplied   time.Time  `json:"date_applied"`
	NumberApplied int        `json:"number_applied"`
	ArBrand       string     `json:"ar_brand" binding:"required"`
	EnBrand       string     `json:"en_brand" binding:"required"`
	CategoryID    uint       `json:"category_id" binding:"required"`
	ImgFile       string     `json:"img_file"`
	Attach        string     `json:"attach"`
	ENumber       int        `json:"e_number" binding:"required,gt=0"`
	IsHidden      bool       `json:"is_hidden"`
	Notes         string     `json:"notes"`
	PublishedAt   *time.Time `json:"published_at"`
}

type publicationUpdateRequest struct {
	Number        *int       `json:"number" binding:"omitempty,gt=0"`
	DecreeNumber  *int       `json:"decree_number" binding:"omitempty,gt=0"`
	Applicant     *string    `json:"applicant"`
	Owner         *string    `json:"owner"`
	CountryID     *uint      `json:"country_id"`
	Address       *string    `json:"address"`
	DateApplied   *time.Time `json:"date_applied"`
	NumberApplied *int       `json:"number_applied"`
	ArBrand       *string    `json:"ar_brand"`
	EnBrand       *string    `json:"en_brand"`
	CategoryID    *uint      `json:"category_id"`
	ImgFile       *string    `json:"img_file"`
	Attach        *string    `json:"attach"`
	ENumber       *int       `json:"e_number" binding:"omitempty,gt=0"`
	IsHidden      *bool      `json:"is_hidden"`
	Notes         *string    `json:"notes"`
}

func (h *Handler) CreatePublication(c *gin.Context) {
	var req publicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pub := &models.Publication{
		Number:        req.Number,
		DecreeNumber:  req.DecreeNumber,
		Year:          req.Year,
		Applicant:     req.Applicant,
		Owner:         req.Owner,
		CountryID:     req.CountryID,
		Address:       req.Address,
		DateApplied:   req.DateApplied,
		NumberApplied: req.NumberApplied,
		ArBrand:       req.ArBrand,
		EnBrand:       req.EnBrand,
		CategoryID:    req.CategoryID,
		ImgFile:       req.ImgFile,
		Attach:        req.Attach,
		ENumber:       req.ENumber,
		IsHidden:      req.IsHidden,
		Notes:         req.Notes,
	}
	if req.PublishedAt != nil {
		pub.CreatedAt = models.DefaultPublicationTime(*req.PublishedAt)
	}
	created, err := h.service.CreatePublication(c.Request.Context(), pub, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetPublication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	pub, err := h.service.GetPublication(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pub)
}

func (h *Handler) ListPublications(c *gin.Context) {
	filter := db.PublicationFilter{
		Status: models.PublicationStatus(queryInt(c, "status")),
		Year:   queryInt(c, "year"),
		Number: queryInt(c, "number"),
		Offset: queryInt(c, "offset"),
		Limit:  queryInt(c, "limit"),
	}
	pubs, err := h.service.ListPublications(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"publications": pubs})
}

func (h *Handler) UpdatePublication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req publicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update := &models.PublicationUpdate{
		ID:            id,
		Number:        req.Number,
		DecreeNumber:  req.DecreeNumber,
		Applicant:     req.Applicant,
		Owner:         req.Owner,
		CountryID:     req.CountryID,
		Address:       req.Address,
		DateApplied:   req.DateApplied,
		NumberApplied: req.NumberApplied,
		ArBrand:       req.ArBrand,
		EnBrand:       req.EnBrand,
		CategoryID:    req.CategoryID,
		ImgFile:       req.ImgFile,
		Attach:        req.Attach,
		ENumber:       req.ENumber,
		IsHidden:      req.IsHidden,
		Notes:         req.Notes,
	}
	pub, err := h.service.UpdatePublication(c.Request.Context(), update, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pub)
}

func (h *Handler) DeletePublication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeletePublication(c.Request.Context(), id, actorFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) FinalizePublication(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	pub, err := h.service.FinalizePublication(c.Request.Context(), id, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pub)
}
