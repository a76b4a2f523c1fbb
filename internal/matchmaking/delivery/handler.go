package delivery

import (
	"context"
	"fmt"
	"net/http"

	"connect4-backend/internal/apperror"
	authdelivery "connect4-backend/internal/auth/delivery"
	mmdomain "connect4-backend/internal/matchmaking/domain"
	"connect4-backend/internal/matchmaking/usecase"
	userdomain "connect4-backend/internal/user/domain"

	"github.com/gin-gonic/gin"
)

type ProfileLoader interface {
	FindByID(ctx context.Context, id string) (*userdomain.User, error)
}

// QueueHandler exposes the ranked and scrimmage queues.
type QueueHandler struct {
	queues *usecase.Queues
	users  ProfileLoader
}

func NewQueueHandler(queues *usecase.Queues, users ProfileLoader) *QueueHandler {
	return &QueueHandler{queues: queues, users: users}
}

// Status reports whether the caller waits in a queue and how long it is
// GET /v1/queue/:kind
func (h *QueueHandler) Status(c *gin.Context) {
	kind, err := mmdomain.ParseKind(c.Param("kind"))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, h.queues.Status(kind, authdelivery.PrincipalFrom(c).ID))
}

// Enqueue joins a queue, pairing immediately when an opponent is waiting
// POST /v1/queue/:kind
func (h *QueueHandler) Enqueue(c *gin.Context) {
	kind, err := mmdomain.ParseKind(c.Param("kind"))
	if err != nil {
		apperror.Write(c, err)
		return
	}

	ctx := c.Request.Context()
	principal := authdelivery.PrincipalFrom(c)
	profile, err := h.users.FindByID(ctx, principal.ID)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	if profile == nil {
		apperror.Write(c, fmt.Errorf("profile %s: %w", principal.ID, apperror.ErrNotFound))
		return
	}

	result, err := h.queues.Enqueue(ctx, kind, profile)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Dequeue leaves a queue
// DELETE /v1/queue/:kind
func (h *QueueHandler) Dequeue(c *gin.Context) {
	kind, err := mmdomain.ParseKind(c.Param("kind"))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	h.queues.Dequeue(kind, authdelivery.PrincipalFrom(c).ID)
	c.JSON(http.StatusOK, gin.H{"queued": false})
}
