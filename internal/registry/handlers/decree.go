package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

type decreeRequest struct {
	Number         int                 `json:"number" binding:"required,gt=0"`
	Date           time.Time           `json:"date" binding:"required"`
	Status         models.DecreeStatus `json:"status"`
	Applicant      string              `json:"applicant"`
	Company        string              `json:"company"`
	CountryID      *uint               `json:"country_id"`
	DateApplied    *time.Time          `json:"date_applied"`
	NumberApplied  *int                `json:"number_applied"`
	ArBrand        string              `json:"ar_brand"`
	EnBrand        string              `json:"en_brand"`
	CategoryID     *uint               `json:"category_id"`
	PDFFile        string              `json:"pdf_file"`
	Attach         string              `json:"attach"`
	Notes          string              `json:"notes"`
	IsWithdrawn    bool                `json:"is_withdrawn"`
	IsCanceled     bool                `json:"is_canceled"`
	NumberCanceled string              `json:"number_canceled"`
}

type decreeUpdateRequest struct {
	Number         *int                 `json:"number" binding:"omitempty,gt=0"`
	Date           *time.Time           `json:"date"`
	Status         *models.DecreeStatus `json:"status"`
	Applicant      *string              `json:"applicant"`
	Company        *string              `json:"company"`
	CountryID      *uint                `json:"country_id"`
	DateApplied    *time.Time           `json:"date_applied"`
	NumberApplied  *int                 `json:"number_applied"`
	ArBrand        *string              `json:"ar_brand"`
	EnBrand        *string              `json:"en_brand"`
	CategoryID     *uint                `json:"category_id"`
	PDFFile        *string              `json:"pdf_file"`
	Attach         *string              `json:"attach"`
	Notes          *string              `json:"notes"`
	IsWithdrawn    *bool                `json:"is_withdrawn"`
	IsCanceled     *bool                `json:"is_canceled"`
	NumberCanceled *string              `json:"number_canceled"`
}

func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) CreateDecree(c *gin.Context) {
	var req decreeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	decree := &models.Decree{
		Number:         req.Number,
		Date:           req.Date,
		Status:         req.Status,
		Applicant:      req.Applicant,
		Company:        req.Company,
		CountryID:      req.CountryID,
		DateApplied:    req.DateApplied,
		NumberApplied:  req.NumberApplied,
		ArBrand:        req.ArBrand,
		EnBrand:        req.EnBrand,
		CategoryID:     req.CategoryID,
		PDFFile:        req.PDFFile,
		Attach:         req.Attach,
		Notes:          req.Notes,
		IsWithdrawn:    req.IsWithdrawn,
		IsCanceled:     req.IsCanceled,
		NumberCanceled: req.NumberCanceled,
	}
	created, err := h.service.CreateDecree(c.Request.Context(), decree, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetDecree(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	decree, err := h.service.GetDecree(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decree)
}

func (h *Handler) ListDecrees(c *gin.Context) {
	filter := db.DecreeFilter{
		Status:             models.DecreeStatus(queryInt(c, "status")),
		Year:               queryInt(c, "year"),
		Number:             queryInt(c, "number"),
		IncludePlaceholder: c.Query("placeholders") == "true",
		Offset:             queryInt(c, "offset"),
		Limit:              queryInt(c, "limit"),
	}
	decrees, err := h.service.ListDecrees(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decrees": decrees})
}

func (h *Handler) UpdateDecree(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req decreeUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update := &models.DecreeUpdate{
		ID:             id,
		Number:         req.Number,
		Date:           req.Date,
		Status:         req.Status,
		Applicant:      req.Applicant,
		Company:        req.Company,
		CountryID:      req.CountryID,
		DateApplied:    req.DateApplied,
		NumberApplied:  req.NumberApplied,
		ArBrand:        req.ArBrand,
		EnBrand:        req.EnBrand,
		CategoryID:     req.CategoryID,
		PDFFile:        req.PDFFile,
		Attach:         req.Attach,
		Notes:          req.Notes,
		IsWithdrawn:    req.IsWithdrawn,
		IsCanceled:     req.IsCanceled,
		NumberCanceled: req.NumberCanceled,
	}
	decree, err := h.service.UpdateDecree(c.Request.Context(), update, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, decree)
}

func (h *Handler) DeleteDecree(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteDecree(c.Request.Context(), id, actorFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AcceptedDecrees is the public same-day list of accepted decrees. The date
// defaults to today.
func (h *Handler) AcceptedDecrees(c *gin.Context) {
	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, want YYYY-MM-DD"})
			return
		}
		day = parsed
	}
	decrees, err := h.service.AcceptedDecreesOn(c.Request.Context(), day)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decrees": decrees})
}

func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
