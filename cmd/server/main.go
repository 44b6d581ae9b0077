package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spacesedan/reviewpulse/config"
	"github.com/spacesedan/reviewpulse/internal/api"
	"github.com/spacesedan/reviewpulse/internal/auth"
	"github.com/spacesedan/reviewpulse/internal/batch"
	"github.com/spacesedan/reviewpulse/internal/clients"
	"github.com/spacesedan/reviewpulse/internal/logging"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/session"
)

func main() {
	config.LoadEnv(config.AppEnv())
	cfg := config.Load()
	logging.InitLogger(os.Stdout, cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("[Main] Server exited with error",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	analyzer, err := sentiment.NewDefaultAnalyzer()
	if err != nil {
		return fmt.Errorf("building analyzer: %w", err)
	}

	creds, err := newCredentialStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer creds.Close()

	sessions, closeSessions, err := newSessionStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSessions()

	srv := api.NewServer(analyzer, batch.NewAggregator(analyzer, cfg.Batch.Workers), creds, sessions, api.Options{
		SessionTTL:    cfg.HTTP.SessionTTL,
		SecureCookies: cfg.HTTP.SecureCookies,
		DisplayLimit:  cfg.Batch.DisplayLimit,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("[Main] Server listening",
			slog.String("addr", cfg.HTTP.Addr),
			slog.String("env", cfg.Env))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("[Main] Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("[Main] Server shutdown complete")
	return nil
}

func newCredentialStore(ctx context.Context, cfg config.Config) (auth.CredentialStore, error) {
	switch cfg.Auth.Backend {
	case config.AuthBackendDynamoDB:
		client, err := clients.NewDynamoDBClient(ctx, cfg.AWS)
		if err != nil {
			return nil, err
		}
		slog.Info("[Main] Using DynamoDB credential store",
			slog.String("table", cfg.Auth.TableName))
		return auth.NewDynamoStore(client, cfg.Auth.TableName), nil
	case config.AuthBackendSQLite:
		return auth.NewSQLiteStore(cfg.Auth.DataDir)
	default:
		return nil, fmt.Errorf("unknown AUTH_BACKEND %q", cfg.Auth.Backend)
	}
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, func(), error) {
	if !cfg.Valkey.Enabled() {
		slog.Info("[Main] Using in-memory session store")
		return session.NewMemoryStore(cfg.HTTP.SessionTTL), func() {}, nil
	}

	vc, err := clients.NewValkeyClient(ctx, cfg.Valkey)
	if err != nil {
		return nil, nil, err
	}
	return session.NewValkeyStore(vc, cfg.HTTP.SessionTTL), vc.Close, nil
}
