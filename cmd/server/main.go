package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/warbler/internal/api"
	"github.com/rohits-web03/warbler/internal/api/handlers"
	"github.com/rohits-web03/warbler/internal/api/middleware"
	"github.com/rohits-web03/warbler/internal/api/services"
	"github.com/rohits-web03/warbler/internal/config"
	"github.com/rohits-web03/warbler/internal/logger"
	"github.com/rohits-web03/warbler/internal/models"
	"github.com/rohits-web03/warbler/internal/repositories"
	"golang.org/x/sync/errgroup"
)

// @title Warbler API
// @version 1.0
// @description Users, messages and follows for the Warbler micro-blog.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Environment)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	models.BcryptCost = cfg.BcryptCost

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repositories.Connect(cfg.DBDriver, cfg.DB_URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	log.Info().Str("driver", cfg.DBDriver).Msg("Successfully connected to database")

	denylist, err := repositories.NewTokenDenylist(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to redis")
	}
	defer denylist.Close()
	if denylist == nil {
		log.Warn().Msg("REDIS_URL not set, logout will not revoke tokens")
	}

	objects := repositories.NewR2(
		cfg.R2.AccessKeyID,
		cfg.R2.SecretAccessKey,
		cfg.R2.AccountID,
		cfg.R2.BucketName,
		cfg.R2.Region,
		cfg.R2.PublicBaseURL,
	)
	if objects == nil {
		log.Warn().Msg("R2 not configured, profile image uploads disabled")
	}

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	h := &handlers.Handler{
		Store:    repositories.NewStore(db),
		Tokens:   tokens,
		Denylist: denylist,
		Objects:  objects,
		OAuth:    services.NewGoogleOAuthConfig(cfg.Google),
		Cfg:      cfg,
		Log:      log,
	}
	auth := &middleware.Auth{Tokens: tokens, Denylist: denylist, Log: log}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(h, auth),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Msg("Starting Warbler server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("Shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
