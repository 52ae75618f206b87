package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"rpg-arena/internal/api"
	arenaapp "rpg-arena/internal/app/arena"
	authapp "rpg-arena/internal/app/auth"
	"rpg-arena/internal/platform/cache"
	"rpg-arena/internal/platform/config"
	"rpg-arena/internal/platform/db"
	"rpg-arena/internal/platform/migrate"
	"rpg-arena/internal/platform/mq"
	"rpg-arena/internal/platform/observability"
	"rpg-arena/migrations"
)

const reportCacheTTL = 10 * time.Minute

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := observability.NewLogger(observability.LogOptions{Env: cfg.Env, File: cfg.LogFile})

	shutdownTracing, err := observability.SetupTracing(ctx, cfg.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn().Err(err).Msg("trace flush failed")
		}
	}()

	pg, err := db.Connect(ctx, cfg.PostgresURL, db.DefaultPoolOptions())
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer pg.Close()

	var schema fs.FS = migrations.FS
	if cfg.MigrationDir != "" {
		schema = os.DirFS(cfg.MigrationDir)
	}
	if err := migrate.Up(ctx, pg, schema, logger); err != nil {
		logger.Fatal().Err(err).Msg("migrations failed")
	}

	var redisClient *redis.Client
	redisClient, err = cache.New(ctx, cache.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 3 * time.Second,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable; continuing without leaderboard or report cache")
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, err := mq.NewPublisher(cfg.NATSURL, cfg.ServiceName)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable; using noop publisher")
		publisher = mq.NewNoopPublisher()
	}
	defer publisher.Close()

	authSvc := authapp.NewService(authapp.NewPostgresStore(pg), logger, cfg.JWTSecret, cfg.JWTTTL)
	arenaSvc := arenaapp.NewService(
		logger,
		arenaapp.NewPostgresArchive(pg, redisClient, reportCacheTTL),
		arenaapp.NewLeaderboard(redisClient, cfg.LeaderboardKey),
		publisher,
		cfg.EventSubject,
	)

	handler := api.NewHandler(logger, authSvc, arenaSvc, pg.Ping, cfg.CorsOrigin, cfg.MaxRequestBody)
	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("arena listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown failed")
	}
	logger.Info().Msg("arena stopped")
}
