package delivery

import (
	"context"
	"net/http"
	"strconv"

	"connect4-backend/internal/apperror"
	authdelivery "connect4-backend/internal/auth/delivery"
	gamedomain "connect4-backend/internal/game/domain"
	"connect4-backend/internal/game/usecase"
	userdomain "connect4-backend/internal/user/domain"

	"github.com/gin-gonic/gin"
)

// ProfileLister resolves spectator ids to public profiles.
type ProfileLister interface {
	FindByIDs(ctx context.Context, ids []string) ([]userdomain.User, error)
}

// HistoryReader lists finished matches.
type HistoryReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]gamedomain.MatchRecord, error)
}

// GameHandler serves live matches, finished match history and invitations.
type GameHandler struct {
	registry *usecase.MatchRegistry
	invites  *usecase.InviteService
	users    ProfileLister
	history  HistoryReader
}

func NewGameHandler(registry *usecase.MatchRegistry, invites *usecase.InviteService, users ProfileLister, history HistoryReader) *GameHandler {
	return &GameHandler{
		registry: registry,
		invites:  invites,
		users:    users,
		history:  history,
	}
}

// MoveRequest carries the column to drop a coin into. Column 0 is valid, hence the pointer.
type MoveRequest struct {
	X *int `json:"x" binding:"required"`
}

type SpectateRequest struct {
	Follow bool `json:"follow"`
}

type InviteRequest struct {
	ID string `json:"id" binding:"required"`
}

type InviteResponseRequest struct {
	NotificationID string `json:"notification_id" binding:"required"`
	Accept         bool   `json:"accept"`
}

// Spectator is the public view of a user watching a match.
type Spectator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// GetMatch returns the current state of a match
// GET /v1/game/:id
func (h *GameHandler) GetMatch(c *gin.Context) {
	match, err := h.registry.GetMatch(c.Param("id"))
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// Move plays a column for the caller
// PUT /v1/game/:id
func (h *GameHandler) Move(c *gin.Context) {
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := authdelivery.PrincipalFrom(c)
	match, err := h.registry.ApplyMove(c.Request.Context(), c.Param("id"), principal.ID, *req.X)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, match)
}

// Spectate follows or unfollows a match
// PUT /v1/game/:id/spectate
func (h *GameHandler) Spectate(c *gin.Context) {
	var req SpectateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	principal := authdelivery.PrincipalFrom(c)
	if err := h.registry.SetSpectator(c.Param("id"), principal.ID, req.Follow); err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": req.Follow})
}

// GetSpectators lists who is watching a match
// GET /v1/game/:id/users
func (h *GameHandler) GetSpectators(c *gin.Context) {
	ids, err := h.registry.Spectators(c.Param("id"))
	if err != nil {
		apperror.Write(c, err)
		return
	}

	out := []Spectator{}
	if len(ids) > 0 {
		users, err := h.users.FindByIDs(c.Request.Context(), ids)
		if err != nil {
			apperror.Write(c, err)
			return
		}
		for _, u := range users {
			out = append(out, Spectator{ID: u.ID, Username: u.Username, Avatar: u.Avatar})
		}
	}
	c.JSON(http.StatusOK, out)
}

// GetHistory returns the caller's finished matches, newest first
// GET /v1/history?limit=20
func (h *GameHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, err := h.history.ListByUser(c.Request.Context(), authdelivery.PrincipalFrom(c).ID, limit)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	if records == nil {
		records = []gamedomain.MatchRecord{}
	}
	c.JSON(http.StatusOK, records)
}

// Invite challenges a friend to a match
// POST /v1/invites
func (h *GameHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.invites.Invite(c.Request.Context(), authdelivery.PrincipalFrom(c), req.ID); err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "invite sent"})
}

// RespondInvite accepts or declines a game invitation
// PUT /v1/invites
func (h *GameHandler) RespondInvite(c *gin.Context) {
	var req InviteResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	match, err := h.invites.Respond(c.Request.Context(), authdelivery.PrincipalFrom(c), req.NotificationID, req.Accept)
	if err != nil {
		apperror.Write(c, err)
		return
	}
	if match == nil {
		c.JSON(http.StatusOK, gin.H{"message": "invite declined"})
		return
	}
	c.JSON(http.StatusOK, match)
}
