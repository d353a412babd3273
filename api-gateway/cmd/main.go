package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Avdeevkonst/dip-user/api-gateway/internal/proxy"
	"github.com/Avdeevkonst/dip-user/shared/config"
	"github.com/Avdeevkonst/dip-user/shared/logger"
	"github.com/Avdeevkonst/dip-user/shared/metrics"
	"github.com/Avdeevkonst/dip-user/shared/middleware"
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

	gateway := proxy.New(proxy.Registry(cfg.Services), nil, logg.Named("proxy"))

	router := gin.New()
	router.Use(gin.Recovery(), middleware.LoggingMiddleware(logg))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "api-gateway"})
	})
	router.GET("/metrics", metrics.Handler())

	gateway.Register(router)

	srv := &http.Server{
		Addr:    ":" + cfg.GatewayPort,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		for name, base := range cfg.Services {
			logg.Info("registered service", zap.String("name", name), zap.String("url", base))
		}
		logg.Info("API gateway starting", zap.String("port", cfg.GatewayPort))
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
	}
}
