package delivery

import (
	"net/http"

	"connect4-backend/internal/apperror"
	authdelivery "connect4-backend/internal/auth/delivery"
	"connect4-backend/internal/chat/usecase"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat *usecase.ChatService
}

func NewChatHandler(chat *usecase.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// SendMessageRequest is the body of both private and match chat posts.
type SendMessageRequest struct {
	Content string `json:"content"`
}

// GetConversation returns the private messages with a friend
// GET /v1/messages/:id
func (h *ChatHandler) GetConversation(c *gin.Context) {
	principal := authdelivery.PrincipalFrom(c)

	msgs, err := h.chat.Conversation(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// SendPrivate sends a private message
// POST /v1/messages/:id
func (h *ChatHandler) SendPrivate(c *gin.Context) {
	principal := authdelivery.PrincipalFrom(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chat.SendPrivate(c.Request.Context(), principal, c.Param("id"), req.Content)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// GetMatchMessages returns the chat of a match
// GET /v1/game/:id/messages
func (h *ChatHandler) GetMatchMessages(c *gin.Context) {
	principal := authdelivery.PrincipalFrom(c)

	msgs, err := h.chat.MatchMessages(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// SendMatch posts to the chat of a match
// POST /v1/game/:id/messages
func (h *ChatHandler) SendMatch(c *gin.Context) {
	principal := authdelivery.PrincipalFrom(c)

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.chat.SendMatch(c.Request.Context(), principal, c.Param("id"), req.Content)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}
