package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"country_explorer/internal/app/config"
	"country_explorer/internal/app/di"
	"country_explorer/internal/app/router"
	authhandler "country_explorer/internal/feature/auth/transport/handler"
	authusecase "country_explorer/internal/feature/auth/usecase"
	favhandler "country_explorer/internal/feature/favorites/transport/handler"
	favusecase "country_explorer/internal/feature/favorites/usecase"
	"country_explorer/internal/platform/http/handler"
	jwtmw "country_explorer/internal/platform/jwt"
	"country_explorer/internal/platform/logging"
	infraredis "country_explorer/internal/platform/redis"
	"country_explorer/internal/shared/ratelimiter"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(ctx, infraredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}); err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
	} else if tmp != nil {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	// Repository
	stores, err := di.NewStores(ctx, cfg, rdb)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := stores.Close(closeCtx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Usecase
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration)
	authUC := authusecase.NewAuthUsecase(stores.Users, tokens)
	favoritesUC := favusecase.NewFavoritesUsecase(stores.Favorites)

	// ルータ生成
	r := router.NewRouter(router.Deps{
		Auth:        authhandler.NewAuthHandler(authUC),
		Favorites:   favhandler.NewFavoritesHandler(favoritesUC),
		Verifier:    jwtmw.NewVerifier(cfg.JWTSecret),
		Readiness:   handler.NewReadinessHandler(2*time.Second, stores.Checks),
		AuthLimiter: ratelimiter.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow),
		CORSOrigins: cfg.CORSAllowedOrigins,
		Debug:       cfg.IsDevelopment(),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
