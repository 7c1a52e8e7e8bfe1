package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wheelgate/wheelgate/internal/config"
	"github.com/wheelgate/wheelgate/internal/engine"
	"github.com/wheelgate/wheelgate/internal/handler"
	"github.com/wheelgate/wheelgate/internal/middleware"
	"github.com/wheelgate/wheelgate/internal/pkg/logger"
	"github.com/wheelgate/wheelgate/internal/repository"
	"github.com/wheelgate/wheelgate/internal/scheduler"
	"github.com/wheelgate/wheelgate/internal/service"
	"github.com/wheelgate/wheelgate/internal/stream"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger
	logger.Init(cfg.Log.Level)

	// 3. Outcome engine
	tables, err := engine.TablesFromConfig(cfg.Game.Tables)
	if err != nil {
		log.Fatalf("Invalid multiplier tables: %v", err)
	}
	eng, err := engine.New(tables)
	if err != nil {
		log.Fatalf("Invalid multiplier tables: %v", err)
	}
	rng, err := engine.NewLockedRand(cfg.Game.Seed)
	if err != nil {
		log.Fatalf("Failed to seed RNG: %v", err)
	}
	if cfg.Game.Seed != 0 {
		logger.Warn("Fixed RNG seed configured, outcomes are reproducible", "seed", cfg.Game.Seed)
	}

	// 4. Idempotency (Redis > Memory)
	ttl := time.Duration(cfg.Redis.IdempotencyTTLSeconds) * time.Second
	var idempotencyStore middleware.IdempotencyStore
	var redisClient *repository.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = repository.NewRedisClient(cfg)
		if err == nil {
			logger.Info("✅ Connected to Redis")
			idempotencyStore = repository.NewRedisIdempotencyStore(redisClient, ttl)
		} else {
			logger.Error("⚠️ Failed to connect to Redis, falling back to memory", "error", err)
		}
	}
	if idempotencyStore == nil {
		idempotencyStore = middleware.NewInMemIdempotencyStore(ttl)
	}

	// 5. Sessions and event stream
	hub := stream.NewHub()
	sessions := service.NewSessionManager(cfg, eng, rng, scheduler.Clock{}, hub)

	// 6. Setup Router
	gin.SetMode(gin.ReleaseMode)
	r := handler.NewRouter(cfg, sessions, hub, idempotencyStore)

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("🚀 WheelGate started", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("Server exiting")
}
