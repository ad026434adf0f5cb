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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/motorlane/motorlane/internal/app"
	"github.com/motorlane/motorlane/internal/audit"
	"github.com/motorlane/motorlane/internal/auth"
	"github.com/motorlane/motorlane/internal/observability"
	"github.com/motorlane/motorlane/internal/rbac"
	"github.com/motorlane/motorlane/internal/roles"
	"github.com/motorlane/motorlane/internal/users"
	"github.com/motorlane/motorlane/internal/vehicles"
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

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	recorder := audit.NewAsynqRecorder(asynqClient, logger)

	codec := auth.NewTokenCodec([]byte(cfg.TokenSecret))
	authMW := auth.Middleware{Codec: codec, CookieName: cfg.TokenCookie, Logger: logger}
	authService := auth.NewService(auth.NewRepository(dbpool), codec, auth.ServiceConfig{
		SessionTTL:  cfg.TokenTTL,
		RememberTTL: cfg.TokenRememberTTL,
	})
	authHandler := auth.NewHandler(logger, authService, auth.CookieConfig{
		Name:   cfg.TokenCookie,
		Secure: cfg.IsProduction(),
	}, authMW, recorder)

	rbacService := rbac.NewService(
		rbac.NewRepository(dbpool),
		rbac.NewKeysCache(redisClient, cfg.PermissionCacheTTL),
	)
	rbacMW := rbac.Middleware{Service: rbacService, Logger: logger}
	menuHandler := rbac.NewMenuHandler(logger, rbacService)
	permissionsHandler := rbac.NewPermissionsHandler(logger, rbacService, rbacMW)

	rolesService := roles.NewService(roles.NewRepository(dbpool), rbacService, recorder)
	rolesHandler := roles.NewHandler(logger, rolesService, rbacMW)

	usersService := users.NewService(users.NewRepository(dbpool), recorder)
	usersHandler := users.NewHandler(logger, usersService, rbacMW)

	vehiclesService := vehicles.NewService(vehicles.NewRepository(dbpool), recorder)
	vehiclesHandler := vehicles.NewHandler(logger, vehiclesService, rbacMW)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		AuthMiddleware:     authMW,
		AuthHandler:        authHandler,
		MenuHandler:        menuHandler,
		PermissionsHandler: permissionsHandler,
		RolesHandler:       rolesHandler,
		UsersHandler:       usersHandler,
		VehiclesHandler:    vehiclesHandler,
		Metrics:            metrics,
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
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
