package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/memberhub/accounts/internal/api"
	"github.com/memberhub/accounts/internal/api/handler"
	"github.com/memberhub/accounts/internal/core/service"
	"github.com/memberhub/accounts/internal/core/token"
	"github.com/memberhub/accounts/internal/infrastructure/db/redis"
	"github.com/memberhub/accounts/pkg/logger"
)

const defaultShutdownTimeout = 15 * time.Second

type serveConfig struct {
	shutdownTimeout time.Duration
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cfg := &serveConfig{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API serving registration, login, logout and token
refresh, plus health, metrics and swagger endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().DurationVar(&cfg.shutdownTimeout, "shutdown-timeout", defaultShutdownTimeout, "grace period for in-flight requests on shutdown")

	return cmd
}

func runServe(ctx context.Context, sc *serveConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close(context.WithoutCancel(ctx))

	cfg := rt.cfg
	log := logger.For("server")

	tokens, err := token.NewIssuer(token.Config{
		Secret:     cfg.JWT.Secret,
		Algorithm:  cfg.JWT.Algorithm,
		AccessTTL:  cfg.JWT.AccessTokenLifetime,
		RefreshTTL: cfg.JWT.RefreshTokenLifetime,
	})
	if err != nil {
		return err
	}

	opts := service.AuthOptions{RotateRefreshTokens: cfg.JWT.RotateRefreshTokens}

	var rdb *goredis.Client
	if cfg.JWT.BlacklistAfterRotation {
		rdb, err = redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		opts.Denylist = redis.NewTokenDenylist(rdb)
	}

	authService, err := service.NewAuthService(rt.members, rt.hasher, tokens, opts, logger.For("auth"))
	if err != nil {
		return err
	}
	registration := service.NewRegistrationService(rt.members, rt.hasher, logger.For("registration"))

	e := api.NewRouter(api.Deps{
		DB:           rt.db,
		Redis:        rdb,
		Auth:         authService,
		Registration: registration,
		Tokens:       tokens,
		Cookie: handler.CookieSettings{
			Name:   cfg.Cookie.RefreshName,
			Secure: cfg.Cookie.Secure,
		},
		Log: logger.For("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Bool("rotate_refresh_tokens", cfg.JWT.RotateRefreshTokens).
			Bool("blacklist_after_rotation", cfg.JWT.BlacklistAfterRotation).
			Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sc.shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
