package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/tikitakatoe/internal/api"
	"github.com/mcoot/tikitakatoe/internal/factory"
	"github.com/mcoot/tikitakatoe/internal/services/auth"
	"github.com/mcoot/tikitakatoe/internal/services/game"
	redisstorage "github.com/mcoot/tikitakatoe/internal/storage/redis"
)

func main() {
	// A missing .env is fine; anything else is worth knowing about
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env", slog.String("error", err.Error()))
	}

	env, err := loadEnv()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: env.LogLevel,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		CorpusPath:  env.CorpusPath,
		TiersPath:   env.TiersPath,
		AuthConfig:  auth.Config{SessionDuration: env.AuthSessionDuration},
		GameConfig:  game.Config{SessionTTL: env.SessionTTL},
		Logger:      logger,
		StorageType: env.StorageType,
		RandomSeed:  env.RandomSeed,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if env.RedisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = env.RedisURL
		redisCfg.SessionTTL = env.SessionTTL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		AuthService:    app.AuthService,
		StatsService:   app.StatsService,
		CorpusService:  app.CorpusService,
		GameController: app.GameController,
		CORSOrigin:     env.CORSOrigin,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = env.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("server starting",
		slog.Int("port", env.Port),
		slog.String("storage", envOr("STORAGE_TYPE", factory.StorageTypeMemory)),
		slog.Int("players", app.CorpusService.PlayerCount()),
	)

	err = server.Run(ctx,
		func(ctx context.Context) { app.GameController.RunEviction(ctx, env.SweepInterval) },
		func(ctx context.Context) { sweepAuthSessions(ctx, app.AuthService, env.SweepInterval, logger) },
	)
	if err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func sweepAuthSessions(ctx context.Context, authService *auth.Service, interval time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := authService.CleanExpiredSessions(); n > 0 {
				logger.Info("expired auth sessions removed", slog.Int("count", n))
			}
		}
	}
}
