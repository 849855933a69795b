package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pandawa-internal/pandawa/internal/app"
	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/menus"
	"github.com/pandawa-internal/pandawa/internal/users"
	"github.com/pandawa-internal/pandawa/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}

	bypassRoles, err := cfg.ParseBypassRoles()
	if err != nil {
		logger.Error("parse bypass roles", slog.Any("error", err))
		os.Exit(1)
	}

	generations := authz.NewGenerations(redisClient)
	menusRepo := menus.NewRepository(pool)
	resolver := authz.NewResolver(menusRepo, generations, redisClient, cfg.AuthzSnapshotTTL, bypassRoles, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: jobs.Handlers{
			Redis:       redisClient,
			Accounts:    users.NewRepository(pool),
			Resolver:    resolver,
			Generations: generations,
			Logger:      logger,
		},
		SweepCron: "45 1 * * *",
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
