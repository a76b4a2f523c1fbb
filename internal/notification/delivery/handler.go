package delivery

import (
	"net/http"

	authdelivery "connect4-backend/internal/auth/delivery"
	"connect4-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifier *usecase.Notifier
}

func NewNotificationHandler(notifier *usecase.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

// GetNotifications returns and clears the caller's pending notifications
// GET /v1/notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	principal := authdelivery.PrincipalFrom(c)
	c.JSON(http.StatusOK, h.notifier.Drain(principal.ID))
}
