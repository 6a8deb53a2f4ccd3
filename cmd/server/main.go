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

	"github.com/BrainPreserve/new-brain-healthy-meals/internal/api"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/config"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/logging"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/service"
	"github.com/BrainPreserve/new-brain-healthy-meals/internal/sources"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logging.Setup("info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, closeSource, err := sources.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open reference data source", "error", err)
		os.Exit(1)
	}
	defer closeSource() //nolint:errcheck

	svc := service.New(provider, cfg.ResolveThreshold)

	// Warm the snapshot so the first request does not pay for the load. A
	// failure here is not fatal; requests retry the load.
	go func() {
		if _, err := svc.Load(ctx); err != nil {
			slog.Warn("initial reference data load failed", "error", err)
		}
	}()

	handler := api.NewRouter(svc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("reference tables service listening", "addr", addr, "source", cfg.DataSource)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}
}
