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

	"github.com/boddenberg/pix-consulta-go/internal/config"
	"github.com/boddenberg/pix-consulta-go/internal/infra/observability"
	"github.com/boddenberg/pix-consulta-go/internal/mockapi"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.MockPort),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("token_ttl", cfg.MockTokenTTL),
	)

	// --- Tracing ---
	shutdownTracer, err := observability.InitTracer(cfg.OTLPEndpoint, "pix-mock-api")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdownTracer(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Server ---
	srv, err := mockapi.New(mockapi.Options{
		JWTSecret: cfg.MockJWTSecret,
		TokenTTL:  cfg.MockTokenTTL,
	}, metrics, logger)
	if err != nil {
		logger.Fatal("failed to build mock api", zap.Error(err))
	}

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.MockPort),
		Handler:      srv.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("mock api starting", zap.Int("port", cfg.MockPort))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("mock api shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("mock api failed", zap.Error(err))
	}

	logger.Info("mock api stopped")
}
