package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nbakri/tmregistry/internal/registry/auth"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials against the configured staff accounts and
// issues a signed token carrying the account's permissions.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, ok := h.users[req.Username]
	if !ok || subtle.ConstantTimeCompare([]byte(user.Password), []byte(req.Password)) != 1 {
		h.logger.Warn("login rejected",
			zap.String("username", req.Username),
			zap.String("client_ip", c.ClientIP()),
		)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.Username, user.Permissions, h.secret)
	if err != nil {
		h.respondError(c, err)
		return
	}

	actor := actorFrom(c)
	actor.Username = user.Username
	h.service.RecordLogin(c.Request.Context(), actor)

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"username":    user.Username,
		"permissions": user.Permissions,
	})
}
