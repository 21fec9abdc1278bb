package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andres-erbsen/clock"
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/flockr/internal/api"
	"github.com/lalith-99/flockr/internal/config"
	"github.com/lalith-99/flockr/internal/observ"
	"github.com/lalith-99/flockr/internal/repository"
	"github.com/lalith-99/flockr/internal/repository/memory"
	"github.com/lalith-99/flockr/internal/repository/redisstore"
	"github.com/lalith-99/flockr/internal/service"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---------------------------------------------------------------
	// 1. Load config
	// ---------------------------------------------------------------
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// ---------------------------------------------------------------
	// 2. Create logger
	// ---------------------------------------------------------------
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// ---------------------------------------------------------------
	// 3. Session store
	//
	// Users, channels and messages live only in memory. Sessions can
	// optionally go to redis so they can be inspected and expired
	// outside the process.
	// ---------------------------------------------------------------
	var sessions repository.SessionRepository
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		store, err := redisstore.NewSessionStore(context.Background(), cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer store.Close()
		sessions = store
	default:
		sessions = memory.NewSessionStore()
	}

	// ---------------------------------------------------------------
	// 4. Services
	// ---------------------------------------------------------------
	svc := service.New(
		memory.NewDirectory(),
		sessions,
		clock.New(),
		service.Config{
			TokenSecret: cfg.JWTSecret,
			SessionTTL:  cfg.SessionTTL,
			HashCost:    bcrypt.DefaultCost,
		},
		logger,
	)

	// ---------------------------------------------------------------
	// 5. HTTP server
	// ---------------------------------------------------------------
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := api.NewRouter(svc, logger)

	logger.Info("starting Flockr",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.String("session_backend", cfg.SessionBackend),
	)

	if err := srv.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
