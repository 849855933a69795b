package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/pandawa-internal/pandawa/internal/app"
	"github.com/pandawa-internal/pandawa/internal/auth"
	"github.com/pandawa-internal/pandawa/internal/authz"
	"github.com/pandawa-internal/pandawa/internal/dashboard"
	"github.com/pandawa-internal/pandawa/internal/komplain"
	"github.com/pandawa-internal/pandawa/internal/menus"
	"github.com/pandawa-internal/pandawa/internal/observability"
	"github.com/pandawa-internal/pandawa/internal/platform/cache"
	"github.com/pandawa-internal/pandawa/internal/platform/db"
	"github.com/pandawa-internal/pandawa/internal/poskas"
	"github.com/pandawa-internal/pandawa/internal/shared"
	"github.com/pandawa-internal/pandawa/internal/tugas"
	"github.com/pandawa-internal/pandawa/internal/users"
	"github.com/pandawa-internal/pandawa/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	bypassRoles, err := cfg.ParseBypassRoles()
	if err != nil {
		logger.Error("parse bypass roles", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(dbpool)

	tokenStore := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	generations := authz.NewGenerations(redisClient)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, tokenStore, generations)
	authHandler := auth.NewHandler(logger, authService, metrics)

	menusRepo := menus.NewRepository(dbpool)
	resolver := authz.NewResolver(menusRepo, generations, redisClient, cfg.AuthzSnapshotTTL, bypassRoles, logger)
	guard := authz.Middleware{Resolver: resolver, Logger: logger, Metrics: metrics}

	jobsClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	menusService := menus.NewService(menusRepo, generations, jobsClient, auditLogger)
	menusHandler := menus.NewHandler(logger, menusService, guard)

	komplainService := komplain.NewService(komplain.NewRepository(dbpool), auditLogger)
	komplainHandler := komplain.NewHandler(logger, komplainService, guard)

	tugasService := tugas.NewService(tugas.NewRepository(dbpool), auditLogger)
	tugasHandler := tugas.NewHandler(logger, tugasService, guard)

	poskasService := poskas.NewService(poskas.NewRepository(dbpool), auditLogger)
	poskasHandler := poskas.NewHandler(logger, poskasService, guard)

	usersService := users.NewService(users.NewRepository(dbpool), auditLogger)
	usersHandler := users.NewHandler(logger, usersService, guard)

	dashboardHandler := dashboard.NewHandler(logger, dashboard.NewRepository(dbpool), poskasService, resolver, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		AuthService:      authService,
		AuthHandler:      authHandler,
		MenusHandler:     menusHandler,
		KomplainHandler:  komplainHandler,
		TugasHandler:     tugasHandler,
		PoskasHandler:    poskasHandler,
		UsersHandler:     usersHandler,
		DashboardHandler: dashboardHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", slog.Any("error", err))
	}
}
