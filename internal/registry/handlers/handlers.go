// Package handlers exposes the registry over HTTP. Staff routes sit behind
// JWT auth with per-action permissions; the objection submission and the
// tracking lookup are public, as is the read side of the bulletin.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nbakri/tmregistry/internal/registry/auth"
	"github.com/nbakri/tmregistry/internal/registry/controller"
	"github.com/nbakri/tmregistry/internal/registry/db"
	e "github.com/nbakri/tmregistry/internal/registry/errors"
	"github.com/nbakri/tmregistry/internal/registry/lifecycle"
	"github.com/nbakri/tmregistry/internal/registry/storage"
	"go.uber.org/zap"
)

// StaffUser is a configured staff account with its granted permissions.
type StaffUser struct {
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	Permissions []string `yaml:"permissions"`
}

type Handler struct {
	service *controller.Service
	repo    *db.Repository
	files   *storage.Store
	logger  *zap.Logger
	secret  string
	users   map[string]StaffUser
}

func NewHandler(
	service *controller.Service,
	repo *db.Repository,
	files *storage.Store,
	secret string,
	users []StaffUser,
	logger *zap.Logger,
) *Handler {
	byName := make(map[string]StaffUser, len(users))
	for _, u := range users {
		byName[u.Username] = u
	}
	return &Handler{
		service: service,
		repo:    repo,
		files:   files,
		logger:  logger.Named("http"),
		secret:  secret,
		users:   byName,
	}
}

// Router assembles the gin engine with every route registered.
func (h *Handler) Router() *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	api := r.Group("/api")
	api.POST("/login", h.Login)

	// Public bulletin surface.
	api.GET("/publications", h.ListPublications)
	api.GET("/publications/:id", h.GetPublication)
	api.GET("/accepted-decrees", h.AcceptedDecrees)
	api.POST("/objections", h.CreateObjection)
	api.GET("/objection-status", h.TrackObjection)

	staff := api.Group("", auth.RequireAuth(h.secret))
	{
		staff.GET("/dashboard", h.Dashboard)
		staff.GET("/activity", h.Activity)
		staff.GET("/reports/:kind/:year", h.YearlyReport)

		staff.GET("/decrees", h.ListDecrees)
		staff.GET("/decrees/:id", h.GetDecree)
		staff.POST("/decrees", h.CreateDecree)
		staff.PUT("/decrees/:id", h.UpdateDecree)
		staff.DELETE("/decrees/:id", auth.RequirePermission(auth.PermDelete), h.DeleteDecree)

		staff.POST("/publications", h.CreatePublication)
		staff.PUT("/publications/:id", h.UpdatePublication)
		staff.DELETE("/publications/:id", auth.RequirePermission(auth.PermDelete), h.DeletePublication)
		staff.POST("/publications/:id/finalize", auth.RequirePermission(auth.PermChangeStatus), h.FinalizePublication)

		staff.GET("/objections", h.ListObjections)
		staff.GET("/objections/:id", h.GetObjection)
		staff.PUT("/objections/:id", h.UpdateObjection)
		staff.DELETE("/objections/:id", auth.RequirePermission(auth.PermDelete), h.DeleteObjection)
		staff.POST("/objections/:id/confirm-fee", auth.RequirePermission(auth.PermConfirmFee), h.transition(lifecycle.ConfirmFee))
		staff.POST("/objections/:id/decline-fee", auth.RequirePermission(auth.PermConfirmFee), h.transition(lifecycle.DeclineFee))
		staff.POST("/objections/:id/confirm-outcome", auth.RequirePermission(auth.PermConfirmOutcome), h.transition(lifecycle.ConfirmOutcome))
		staff.POST("/objections/:id/decline-outcome", auth.RequirePermission(auth.PermConfirmOutcome), h.transition(lifecycle.DeclineOutcome))

		staff.GET("/forms", h.ListFormPlus)
		staff.GET("/forms/:id", h.GetFormPlus)
		staff.POST("/forms", h.CreateFormPlus)
		staff.PUT("/forms/:id", h.UpdateFormPlus)
		staff.DELETE("/forms/:id", auth.RequirePermission(auth.PermDelete), h.DeleteFormPlus)

		h.registerReferenceRoutes(staff)

		staff.POST("/files/:model", h.UploadFile)
		staff.GET("/files/*key", auth.RequirePermission(auth.PermDownload), h.DownloadFile)
	}

	return r
}

func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("trackingcode", func(fl validator.FieldLevel) bool {
		code := fl.Field().String()
		if len(code) != 13 {
			return false
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	})
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		h.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// actorFrom builds the audit identity for the current request. Unauthed
// public submissions record an empty username with the client address.
func actorFrom(c *gin.Context) controller.Actor {
	actor := controller.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if claims := auth.ClaimsFrom(c); claims != nil {
		actor.Username = claims.Username
	}
	return actor
}

// respondError maps the service sentinels onto HTTP statuses. Unknown
// failures are logged and masked behind a generic 500 body.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, e.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrDuplicateNumber), errors.Is(err, e.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, e.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
