package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Avdeevkonst/dip-user/shared/auth"
	"github.com/Avdeevkonst/dip-user/shared/config"
	"github.com/Avdeevkonst/dip-user/shared/database"
	"github.com/Avdeevkonst/dip-user/shared/events"
	"github.com/Avdeevkonst/dip-user/shared/logger"
	"github.com/Avdeevkonst/dip-user/shared/metrics"
	"github.com/Avdeevkonst/dip-user/shared/middleware"
	redisClient "github.com/Avdeevkonst/dip-user/shared/redis"
	usercmd "github.com/Avdeevkonst/dip-user/user-service/internal/command"
	"github.com/Avdeevkonst/dip-user/user-service/internal/handler"
	userqry "github.com/Avdeevkonst/dip-user/user-service/internal/query"
	"github.com/Avdeevkonst/dip-user/user-service/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection (write store)
	sessions, err := database.Open(ctx, database.Config{
		DSN:             cfg.Postgres.DSN(),
		Echo:            cfg.Postgres.Echo,
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}, logg)
	if err != nil {
		logg.Fatal("failed to connect to database", zap.Error(err))
	}
	defer sessions.Close()

	if err := database.Migrate(ctx, sessions.DB()); err != nil {
		logg.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis connection (read model store)
	redis, err := redisClient.NewClient(ctx, cfg.Redis)
	if err != nil {
		logg.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer redis.Close()

	// Kafka
	if len(cfg.Kafka.Brokers) == 0 {
		logg.Fatal("KAFKA_BOOTSTRAP_SERVERS is empty")
	}
	if err := events.EnsureTopics(ctx, cfg.Kafka.Brokers[0], cfg.Kafka.SendTopics); err != nil {
		logg.Warn("could not ensure topics", zap.Error(err))
	}
	publisher := events.NewPublisher(events.NewWriter(cfg.Kafka.Brokers), logg)
	defer publisher.Close()

	// --- CQRS wiring ---
	readRepo := repository.NewUserReadRepository(sessions, redis, cfg.CacheTTL, logg)

	userCommands := usercmd.NewUserCommandService(sessions, readRepo, logg)
	eventCommands := usercmd.NewEventCommandService(publisher, logg)
	userQueries := userqry.NewUserQueryService(readRepo)

	if cfg.Auth.JWTSecret == "" {
		logg.Warn("JWT_SECRET is empty, tokens will not survive a restart")
	}
	tokens, err := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		logg.Fatal("failed to init token issuer", zap.Error(err))
	}
	authQueries := userqry.NewAuthQueryService(sessions, tokens)

	userHandler := handler.NewUserHandler(userCommands, userQueries)
	eventHandler := handler.NewEventHandler(eventCommands)
	authHandler := handler.NewAuthHandler(authQueries)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logg))

	v1 := router.Group("/api/v1/user")
	{
		v1.POST("/sign-up", userHandler.SignUp)
		v1.GET("", userHandler.ListUsers)
		v1.GET("/:user_id", userHandler.GetUser)
		v1.PATCH("/update/:user_id", userHandler.UpdateUser)
		v1.DELETE("/:user_id", userHandler.DeleteUser)

		v1.POST("/login", authHandler.Login)
		v1.POST("/refresh", authHandler.RefreshToken)

		v1.POST("/create-car", eventHandler.CreateCar)
		v1.POST("/create-road", eventHandler.CreateRoad)
		v1.POST("/create-road-condition", eventHandler.CreateRoadCondition)
		v1.POST("/publish", eventHandler.Publish)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", metrics.Handler())

	// Start event subscriber, handled by the event command service
	if len(cfg.Kafka.ConsumeTopics) > 0 {
		subCfg := events.SubscriberConfig{
			Brokers: cfg.Kafka.Brokers,
			GroupID: cfg.Kafka.GroupID,
			Topics:  cfg.Kafka.ConsumeTopics,
			Handler: eventCommands.HandleEvent,
		}
		subscriber := events.NewSubscriber(events.NewReader(subCfg), subCfg, logg.Named("subscriber"))
		go func() {
			if err := subscriber.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logg.Error("subscriber stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		logg.Info("user service starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logg.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
