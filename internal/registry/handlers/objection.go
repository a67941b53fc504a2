package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/lifecycle"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

type objectionRequest struct {
	PubID          uint   `json:"pub_id" binding:"required"`
	Name           string `json:"name" binding:"required"`
	Job            string `json:"job" binding:"required"`
	NationalityID  uint   `json:"nationality_id" binding:"required"`
	Address        string `json:"address" binding:"required"`
	Phone          string `json:"phone" binding:"required,min=7,max=10"`
	ComName        string `json:"com_name" binding:"required"`
	ComJobID       uint   `json:"com_job_id" binding:"required"`
	ComAddress     string `json:"com_address" binding:"required"`
	ComOgAddress   string `json:"com_og_address" binding:"required"`
	ComMailAddress string `json:"com_mail_address" binding:"required"`
	Reason         string `json:"reason"`
	PDFFile        string `json:"pdf_file"`
	Notes          string `json:"notes"`
	IsPaid         bool   `json:"is_paid"`
	ReceiptFile    string `json:"receipt_file"`
}

type objectionUpdateRequest struct {
	Name           *string `json:"name"`
	Job            *string `json:"job"`
	NationalityID  *uint   `json:"nationality_id"`
	Address        *string `json:"address"`
	Phone          *string `json:"phone" binding:"omitempty,min=7,max=10"`
	ComName        *string `json:"com_name"`
	ComJobID       *uint   `json:"com_job_id"`
	ComAddress     *string `json:"com_address"`
	ComOgAddress   *string `json:"com_og_address"`
	ComMailAddress *string `json:"com_mail_address"`
	Reason         *string `json:"reason"`
	PDFFile        *string `json:"pdf_file"`
	Notes          *string `json:"notes"`
	IsPaid         *bool   `json:"is_paid"`
	ReceiptFile    *string `json:"receipt_file"`
}

type trackRequest struct {
	Code  string `form:"code" binding:"required,trackingcode"`
	Phone string `form:"phone" binding:"required"`
}

// CreateObjection is the public submission endpoint. The response carries
// the assigned number and the tracking code the complainant keeps.
func (h *Handler) CreateObjection(c *gin.Context) {
	var req objectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	obj := &models.Objection{
		PubID:          req.PubID,
		Name:           req.Name,
		Job:            req.Job,
		NationalityID:  req.NationalityID,
		Address:        req.Address,
		Phone:          req.Phone,
		ComName:        req.ComName,
		ComJobID:       req.ComJobID,
		ComAddress:     req.ComAddress,
		ComOgAddress:   req.ComOgAddress,
		ComMailAddress: req.ComMailAddress,
		Reason:         req.Reason,
		PDFFile:        req.PDFFile,
		Notes:          req.Notes,
		IsPaid:         req.IsPaid,
		ReceiptFile:    req.ReceiptFile,
	}
	created, err := h.service.CreateObjection(c.Request.Context(), obj, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          created.ID,
		"number":      created.Number,
		"year":        created.Year,
		"unique_code": created.UniqueCode,
		"status":      created.Status.Display(),
	})
}

// TrackObjection is the public lookup: tracking code plus phone number.
func (h *Handler) TrackObjection(c *gin.Context) {
	var req trackRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	obj, err := h.service.TrackObjection(c.Request.Context(), req.Code, req.Phone)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"number":  obj.Number,
		"year":    obj.Year,
		"status":  obj.Status.Display(),
		"is_paid": obj.IsPaid,
	})
}

func (h *Handler) GetObjection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	obj, err := h.service.GetObjection(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (h *Handler) ListObjections(c *gin.Context) {
	filter := db.ObjectionFilter{
		Status: models.ObjectionStatus(queryInt(c, "status")),
		Year:   queryInt(c, "year"),
		PubID:  uint(queryInt(c, "pub_id")),
		Offset: queryInt(c, "offset"),
		Limit:  queryInt(c, "limit"),
	}
	objections, err := h.service.ListObjections(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objections": objections})
}

func (h *Handler) UpdateObjection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req objectionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update := &models.ObjectionUpdate{
		ID:             id,
		Name:           req.Name,
		Job:            req.Job,
		NationalityID:  req.NationalityID,
		Address:        req.Address,
		Phone:          req.Phone,
		ComName:        req.ComName,
		ComJobID:       req.ComJobID,
		ComAddress:     req.ComAddress,
		ComOgAddress:   req.ComOgAddress,
		ComMailAddress: req.ComMailAddress,
		Reason:         req.Reason,
		PDFFile:        req.PDFFile,
		Notes:          req.Notes,
		IsPaid:         req.IsPaid,
		ReceiptFile:    req.ReceiptFile,
	}
	obj, err := h.service.UpdateObjection(c.Request.Context(), update, actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, obj)
}

func (h *Handler) DeleteObjection(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.service.DeleteObjection(c.Request.Context(), id, actorFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// transition builds the handler for one staff decision endpoint.
func (h *Handler) transition(ev lifecycle.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		obj, err := h.service.TransitionObjection(c.Request.Context(), id, ev, actorFrom(c))
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":     obj.ID,
			"number": obj.Number,
			"status": obj.Status.Display(),
		})
	}
}
