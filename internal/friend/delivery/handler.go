package delivery

import (
	"net/http"

	"connect4-backend/internal/apperror"
	authdelivery "connect4-backend/internal/auth/delivery"
	"connect4-backend/internal/friend/usecase"

	"github.com/gin-gonic/gin"
)

type FriendHandler struct {
	friends *usecase.FriendService
}

func NewFriendHandler(friends *usecase.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

type FriendRequest struct {
	Username string `json:"username" binding:"required"`
}

// RespondRequest answers a delivered notification. Only its id is read; sender and
// receiver come from the server-side copy.
type RespondRequest struct {
	NotificationID string `json:"notification_id" binding:"required"`
	Accept         bool   `json:"accept"`
}

// List returns the caller's friends
// GET /v1/friendship
func (h *FriendHandler) List(c *gin.Context) {
	friends, err := h.friends.List(c.Request.Context(), authdelivery.PrincipalFrom(c))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

// Detail returns one friend
// GET /v1/friendship/:id
func (h *FriendHandler) Detail(c *gin.Context) {
	friend, err := h.friends.Detail(c.Request.Context(), authdelivery.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, friend)
}

// Request sends a friend request by username
// POST /v1/friendship
func (h *FriendHandler) Request(c *gin.Context) {
	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.friends.Request(c.Request.Context(), authdelivery.PrincipalFrom(c), req.Username); err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "request sent"})
}

// Respond accepts or refuses a friend request
// PUT /v1/friendship
func (h *FriendHandler) Respond(c *gin.Context) {
	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.friends.Respond(c.Request.Context(), authdelivery.PrincipalFrom(c), req.NotificationID, req.Accept); err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
