package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/models"
	"github.com/nbakri/tmregistry/internal/registry/report"
)

// YearlyReport serves /reports/:kind/:year.
func (h *Handler) YearlyReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
		return
	}
	rep, err := h.service.YearlyReport(c.Request.Context(), report.Kind(c.Param("kind")), year)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) Dashboard(c *gin.Context) {
	counts, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

func (h *Handler) Activity(c *gin.Context) {
	filter := db.ActivityFilter{
		Actor:  c.Query("actor"),
		Action: models.ActivityAction(c.Query("action")),
		Offset: queryInt(c, "offset"),
		Limit:  queryInt(c, "limit"),
	}
	entries, err := h.service.Activity(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
