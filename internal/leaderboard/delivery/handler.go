package delivery

import (
	"net/http"

	"connect4-backend/internal/apperror"
	"connect4-backend/internal/leaderboard/usecase"

	"github.com/gin-gonic/gin"
)

type LeaderboardHandler struct {
	leaderboard *usecase.LeaderboardService
}

func NewLeaderboardHandler(leaderboard *usecase.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboard: leaderboard}
}

// GetLeaderboard returns the public leaderboard
// GET /v1/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.leaderboard.Top(c.Request.Context())
	if err != nil {
		apperror.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
