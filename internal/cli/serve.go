package cli

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "connect4-backend/cmd/api"
	authDelivery "connect4-backend/internal/auth/delivery"
	authRepo "connect4-backend/internal/auth/repository"
	authUsecase "connect4-backend/internal/auth/usecase"
	chatDelivery "connect4-backend/internal/chat/delivery"
	chatRepo "connect4-backend/internal/chat/repository"
	chatUsecase "connect4-backend/internal/chat/usecase"
	"connect4-backend/internal/events"
	friendDelivery "connect4-backend/internal/friend/delivery"
	friendUsecase "connect4-backend/internal/friend/usecase"
	gameDelivery "connect4-backend/internal/game/delivery"
	gameRepo "connect4-backend/internal/game/repository"
	"connect4-backend/internal/game/scheduler"
	gameUsecase "connect4-backend/internal/game/usecase"
	leaderboardCache "connect4-backend/internal/leaderboard/cache"
	leaderboardDelivery "connect4-backend/internal/leaderboard/delivery"
	leaderboardUsecase "connect4-backend/internal/leaderboard/usecase"
	matchmakingDelivery "connect4-backend/internal/matchmaking/delivery"
	matchmakingUsecase "connect4-backend/internal/matchmaking/usecase"
	notificationDelivery "connect4-backend/internal/notification/delivery"
	notificationUsecase "connect4-backend/internal/notification/usecase"
	"connect4-backend/internal/presence"
	userRepo "connect4-backend/internal/user/repository"
	"connect4-backend/pkg/config"
	"connect4-backend/pkg/database"
	"connect4-backend/pkg/fcm"
	"connect4-backend/pkg/pubsub"
	"connect4-backend/pkg/realtime"
	"connect4-backend/pkg/redisclient"

	"github.com/spf13/cobra"
)

var _ events.Fanout = (*realtime.Hub)(nil)

func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the HTTP and socket server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Load())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	gameCfg, err := config.LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		return err
	}

	// Initialize database
	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := migrate(db); err != nil {
		return err
	}

	// Initialize repositories (dependency injection)
	users := userRepo.NewUserRepository(db)
	fcmTokens := authRepo.NewFCMTokenRepository(db)
	history := gameRepo.NewHistoryRepository(db)
	messages := chatRepo.NewMessageRepository(db)

	authenticator := authUsecase.NewAuthenticator(cfg.JWTSecret)

	// Socket transport and presence
	hub := realtime.NewHub(func(token string) (string, error) {
		principal, err := authenticator.Principal(token)
		if err != nil {
			return "", err
		}
		return principal.ID, nil
	})
	store := presence.NewStore()
	tracker := presence.NewTracker(store, users, hub)
	hub.SetLifecycle(tracker)

	// Leaderboard, with the Redis ranking cache when configured
	leaderboard := leaderboardUsecase.NewLeaderboardService(users, gameCfg.LeaderboardSize)
	if cfg.RedisURL != "" {
		rdb, err := redisclient.New(ctx, cfg.RedisURL)
		if err != nil {
			log.Printf("[WARN] Redis unavailable, leaderboard served from database: %v", err)
		} else {
			defer rdb.Close()
			leaderboard.SetCache(leaderboardCache.NewRedisRanking(rdb, leaderboardCache.DefaultKey))
		}
	}

	// Result worker: counters, history, result stream, ranking cache
	resultWorker := gameUsecase.NewResultWorkerService(users, history, cfg.ResultWorkers)
	resultWorker.SetRankingRefresher(leaderboard)
	if cfg.GoogleProjectID != "" {
		publisher, err := pubsub.NewPublisher(ctx, cfg.GoogleProjectID, cfg.ResultsTopic, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize result publisher (stream disabled): %v", err)
		} else {
			defer publisher.Close()
			resultWorker.SetPublisher(gameUsecase.NewStreamResultPublisher(publisher))
		}
	} else {
		log.Printf("[WARN] GOOGLE_PROJECT_ID not configured, result stream disabled")
	}
	resultWorker.Start()
	defer resultWorker.Stop()

	registry := gameUsecase.NewMatchRegistry(store, tracker, hub, resultWorker, rand.New(rand.NewSource(time.Now().UnixNano())))
	queues := matchmakingUsecase.NewQueues(registry, users, hub, gameCfg.RankedBand)
	tracker.SetQueueLeaver(queues)

	// Notifications, with push to offline devices when Firebase is configured
	notifier := notificationUsecase.NewNotifier(notificationUsecase.NewLedger(), store, hub, gameCfg.InviteTTL())
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(ctx, cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			notifier.SetPush(fcmTokens, fcmClient)
		}
	} else {
		log.Printf("[DEBUG] No Firebase credentials configured, FCM disabled")
	}
	defer notifier.Wait()

	invites := gameUsecase.NewInviteService(users, notifier, registry)
	chat := chatUsecase.NewChatService(messages, users, registry, notifier, hub)
	friends := friendUsecase.NewFriendService(users, store, notifier)

	evictor := scheduler.NewMatchEvictionScheduler(registry, cfg.MatchEvictionInterval, cfg.MatchRetention)
	evictor.Start()
	defer evictor.Stop()

	hub.Start()
	defer hub.Stop()

	// Initialize HTTP handler
	handler := api.NewHandler(api.Handlers{
		Game:          gameDelivery.NewGameHandler(registry, invites, users, history),
		Queue:         matchmakingDelivery.NewQueueHandler(queues, users),
		Friend:        friendDelivery.NewFriendHandler(friends),
		Chat:          chatDelivery.NewChatHandler(chat),
		Notification:  notificationDelivery.NewNotificationHandler(notifier),
		Leaderboard:   leaderboardDelivery.NewLeaderboardHandler(leaderboard),
		FCM:           authDelivery.NewFCMHandler(fcmTokens),
		Authenticator: authenticator,
	}, hub.Handler(), cfg.AllowedOrigins)

	errCh := make(chan error, 1)
	go func() {
		errCh <- handler.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return handler.Shutdown(shutdownCtx)
}
