package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/db"
	"github.com/nbakri/tmregistry/internal/registry/models"
)

// The five reference tables share one flat CRUD shape, so their routes are
// stamped out of a generic handler trio.

func registerRef[T any](h *Handler, group *gin.RouterGroup, path string) {
	group.GET("/"+path, listRef[T](h))
	group.POST("/"+path, createRef[T](h))
	group.DELETE("/"+path+"/:id", deleteRef[T](h))
}

func (h *Handler) registerReferenceRoutes(group *gin.RouterGroup) {
	registerRef[models.Country](h, group, "countries")
	registerRef[models.Government](h, group, "governments")
	registerRef[models.ComType](h, group, "company-types")
	registerRef[models.DocType](h, group, "doc-types")
	registerRef[models.DecreeCategory](h, group, "categories")
}

func listRef[T any](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := db.ListRefs[T](c.Request.Context(), h.repo)
		if err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": rows})
	}
}

func createRef[T any](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var row T
		if err := c.ShouldBindJSON(&row); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.CreateRef(c.Request.Context(), h.repo, &row); err != nil {
			h.respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

func deleteRef[T any](h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		if err := db.DeleteRef[T](c.Request.Context(), h.repo, id); err != nil {
			h.respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
