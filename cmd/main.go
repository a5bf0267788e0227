package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Anay7520/ChatSphere/internal/cache"
	"github.com/Anay7520/ChatSphere/internal/config"
	"github.com/Anay7520/ChatSphere/internal/handler"
	"github.com/Anay7520/ChatSphere/internal/realtime"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/internal/service"
	"github.com/Anay7520/ChatSphere/pkg/log"
	"github.com/Anay7520/ChatSphere/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger := log.L()
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	log.Init(cfg.Log)
	l := log.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Storage
	mongoClient, err := repository.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer mongoClient.Disconnect(context.Background())

	db := mongoClient.Database(cfg.Mongo.Database)
	if err := repository.EnsureIndexes(ctx, db); err != nil {
		l.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	userRepo := repository.NewMongoUserRepository(db)
	chatRepo := repository.NewMongoChatRepository(db)
	messageRepo := repository.NewMongoMessageRepository(db)

	presenceStore, err := cache.NewRedisPresence(cache.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer presenceStore.Close()

	// Services
	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration, cfg.JWT.Issuer)
	membership := service.NewMembership(chatRepo)
	userService := service.NewUserService(userRepo, tokens)
	chatService := service.NewChatService(chatRepo, userRepo, messageRepo, membership)
	messageService := service.NewMessageService(messageRepo, chatRepo)

	// Realtime
	hub := realtime.NewHub()
	go hub.Run()
	registry := realtime.NewSessionRegistry()
	presence := realtime.NewPresenceTracker(registry, userRepo, presenceStore)
	gateway := realtime.NewGateway(hub, presence, membership, messageService, presenceStore, tokens, cfg.WebSocket)

	// HTTP
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(l))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:     handler.NewAuthHandler(userService),
		Users:    handler.NewUserHandler(userService),
		Chats:    handler.NewChatHandler(chatService, hub),
		Messages: handler.NewMessageHandler(messageService, membership, hub),
		Gateway:  gateway,
	}, tokens, cfg.RateLimit)

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: r,
	}

	go func() {
		l.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("forced shutdown")
	}
	l.Info().Msg("server stopped")
}
