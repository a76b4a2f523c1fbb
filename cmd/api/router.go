package api

import (
	"net/http"

	"connect4-backend/internal/auth/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h Handlers) {
	v1 := r.Group("/v1")
	{
		// Health check (no auth required)
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		v1.GET("/leaderboard", h.Leaderboard.GetLeaderboard)

		protected := v1.Group("")
		protected.Use(delivery.AuthMiddleware(h.Authenticator))
		{
			protected.GET("/notifications", h.Notification.GetNotifications)

			protected.GET("/friendship", h.Friend.List)
			protected.POST("/friendship", h.Friend.Request)
			protected.PUT("/friendship", h.Friend.Respond)
			protected.GET("/friendship/:id", h.Friend.Detail)

			protected.GET("/messages/:id", h.Chat.GetConversation)
			protected.POST("/messages/:id", h.Chat.SendPrivate)

			protected.POST("/invites", h.Game.Invite)
			protected.PUT("/invites", h.Game.RespondInvite)

			protected.GET("/queue/:kind", h.Queue.Status)
			protected.POST("/queue/:kind", h.Queue.Enqueue)
			protected.DELETE("/queue/:kind", h.Queue.Dequeue)

			protected.GET("/history", h.Game.GetHistory)
			protected.GET("/game/:id", h.Game.GetMatch)
			protected.PUT("/game/:id", h.Game.Move)
			protected.PUT("/game/:id/spectate", h.Game.Spectate)
			protected.GET("/game/:id/users", h.Game.GetSpectators)
			protected.GET("/game/:id/messages", h.Chat.GetMatchMessages)
			protected.POST("/game/:id/messages", h.Chat.SendMatch)

			protected.POST("/fcm/register", h.FCM.Register)
			protected.DELETE("/fcm/:token", h.FCM.Unregister)
		}
	}
}
