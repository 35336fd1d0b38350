package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"packaging-backend/internal/bootstrap"
	"packaging-backend/internal/shared/config"
	"packaging-backend/internal/shared/server"
	"packaging-backend/internal/shared/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.invalid", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	telemetry.Configure(cfg.Log.Level, cfg.Log.Format)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              server.Addr(cfg.Port),
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		telemetry.Info("server.start", map[string]any{"addr": srv.Addr, "env": cfg.Env})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		telemetry.Info("server.shutdown_requested", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
	case err := <-errCh:
		if err != nil {
			telemetry.Error("server.error", map[string]any{"error": err.Error()})
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		telemetry.Warn("server.shutdown_incomplete", map[string]any{"error": err.Error()})
	}
	if err := app.Close(shutdownCtx); err != nil {
		telemetry.Warn("app.close_incomplete", map[string]any{
			"error":             err.Error(),
			"decisions_dropped": app.Decisions.Dropped(),
		})
	}
	telemetry.Info("server.stopped", nil)
	os.Exit(exitCode)
}
