package delivery

import (
	"net/http"

	"connect4-backend/internal/apperror"
	"connect4-backend/internal/auth/dto"
	"connect4-backend/internal/auth/repository"

	"github.com/gin-gonic/gin"
)

// FCMHandler manages the push devices of the caller.
type FCMHandler struct {
	tokens repository.FCMTokenRepository
}

func NewFCMHandler(tokens repository.FCMTokenRepository) *FCMHandler {
	return &FCMHandler{tokens: tokens}
}

// Register stores a device token for the caller
// POST /v1/fcm/register
func (h *FCMHandler) Register(c *gin.Context) {
	principal := PrincipalFrom(c)

	var req dto.RegisterFCMTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.tokens.SaveToken(c.Request.Context(), principal.ID, req.Token, req.DeviceInfo); err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token registered"})
}

// Unregister removes one of the caller's device tokens
// DELETE /v1/fcm/:token
func (h *FCMHandler) Unregister(c *gin.Context) {
	principal := PrincipalFrom(c)

	if err := h.tokens.DeleteUserToken(c.Request.Context(), principal.ID, c.Param("token")); err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "token removed"})
}
