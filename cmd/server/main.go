package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/analysis"
	"github.com/spacesedan/commentlens/internal/api"
	"github.com/spacesedan/commentlens/internal/logging"
	"github.com/spacesedan/commentlens/internal/metrics"
	"github.com/spacesedan/commentlens/internal/monitoring"
)

const version = "1.0.0"

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	logging.InitLogger(cfg.LogLevel)
	metrics.Init(version, cfg.Env)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc, err := analysis.NewFromConfig(cfg)
	if err != nil {
		slog.Error("[Main] Failed to build analysis pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer svc.Close()

	var completionHealthy *atomic.Bool
	if svc.OpenAI != nil {
		completionHealthy = &atomic.Bool{}
		completionHealthy.Store(true)
		go monitoring.MonitorCompletionHealth(ctx, svc.OpenAI, completionHealthy, cfg.HealthcheckInterval)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.Setup(api.NewHandler(svc.Pipeline, completionHealthy)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("[Main] Server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("[Main] Failed to start server", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("[Main] Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("[Main] Server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("[Main] Server stopped")
}
