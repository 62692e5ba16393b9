// Command server runs the Yookye API: auth and session lifecycle, travel
// request intake, and the account surfaces.
package main

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yookye/backend/internal/config"
	"yookye/backend/internal/db"
	"yookye/backend/internal/observability"
	"yookye/backend/internal/security"
	"yookye/backend/internal/server"
	"yookye/backend/internal/telemetry/otel"
)

func main() {
	logger := observability.NewLogger(os.Getenv("LOG_LEVEL"))
	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := observability.InitSentry(cfg.SentryDSN, cfg.Env); err != nil {
		return err
	}
	defer observability.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, "yookye-api", cfg.OTLPInsecure)
	if err != nil {
		return err
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	tokens, err := buildTokenProvider(cfg, logger)
	if err != nil {
		return err
	}

	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		sqlDB, err = db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer sqlDB.Close()
	}

	srv := server.New(cfg, logger, sqlDB, tokens)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func buildTokenProvider(cfg *config.Config, logger *slog.Logger) (*security.TokenProvider, error) {
	var (
		priv crypto.Signer
		pub  crypto.PublicKey
		err  error
	)
	if cfg.JWTPrivateKey != "" && cfg.JWTPublicKey != "" {
		priv, err = security.ParsePrivateKey(cfg.JWTPrivateKey)
		if err != nil {
			return nil, err
		}
		pub, err = security.ParsePublicKey(cfg.JWTPublicKey)
		if err != nil {
			return nil, err
		}
	} else {
		// Dev convenience: issued tokens do not survive a restart.
		logger.Warn("JWT keys not configured, generating an ephemeral signing key")
		key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		if err != nil {
			return nil, err
		}
		priv = key
		pub = key.Public()
	}
	return security.NewTokenProvider(priv, pub, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTTL(), cfg.RefreshTTL()), nil
}
