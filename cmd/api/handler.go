package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	authDelivery "connect4-backend/internal/auth/delivery"
	authUsecase "connect4-backend/internal/auth/usecase"
	chatDelivery "connect4-backend/internal/chat/delivery"
	friendDelivery "connect4-backend/internal/friend/delivery"
	gameDelivery "connect4-backend/internal/game/delivery"
	leaderboardDelivery "connect4-backend/internal/leaderboard/delivery"
	matchmakingDelivery "connect4-backend/internal/matchmaking/delivery"
	notificationDelivery "connect4-backend/internal/notification/delivery"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

// Handlers groups the HTTP handlers served under /v1.
type Handlers struct {
	Game          *gameDelivery.GameHandler
	Queue         *matchmakingDelivery.QueueHandler
	Friend        *friendDelivery.FriendHandler
	Chat          *chatDelivery.ChatHandler
	Notification  *notificationDelivery.NotificationHandler
	Leaderboard   *leaderboardDelivery.LeaderboardHandler
	FCM           *authDelivery.FCMHandler
	Authenticator authUsecase.Authenticator
}

type Handler struct {
	handlers       Handlers
	sockets        http.Handler
	allowedOrigins []string
	server         *http.Server
}

func NewHandler(handlers Handlers, sockets http.Handler, allowedOrigins []string) *Handler {
	return &Handler{
		handlers:       handlers,
		sockets:        sockets,
		allowedOrigins: allowedOrigins,
	}
}

// Router builds the gin engine wrapped in the CORS policy.
func (h *Handler) Router() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()

	if h.sockets != nil {
		r.GET("/socket.io/*any", gin.WrapH(h.sockets))
		r.POST("/socket.io/*any", gin.WrapH(h.sockets))
	}
	SetupRoutes(r, h.handlers)

	return cors.New(cors.Options{
		AllowedOrigins:   h.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}

func (h *Handler) Start(addr string) error {
	h.server = &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on %s", addr)
	if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (h *Handler) Shutdown(ctx context.Context) error {
	if h.server == nil {
		return nil
	}
	return h.server.Shutdown(ctx)
}
