package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spacesedan/commentlens/config"
	"github.com/spacesedan/commentlens/internal/analysis"
	"github.com/spacesedan/commentlens/internal/logging"
)

func main() {
	video := flag.String("video", "", "YouTube URL or video id to analyze")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	cfg := config.Load()
	// stdout carries the report
	logging.InitLoggerWithWriter(os.Stderr, cfg.LogLevel)

	videoID, err := analysis.ExtractVideoID(*video)
	if err != nil {
		slog.Error("[Analyze] Invalid -video value", slog.String("video", *video))
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := analysis.NewFromConfig(cfg)
	if err != nil {
		slog.Error("[Analyze] Failed to build analysis pipeline", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer svc.Close()

	report, err := svc.Pipeline.RunAnalysis(ctx, videoID)
	if err != nil {
		slog.Error("[Analyze] Analysis failed",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		svc.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		slog.Error("[Analyze] Failed to write report", slog.String("error", err.Error()))
	}
}
