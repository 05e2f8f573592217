package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"shaftmatch/internal/application"
	"shaftmatch/internal/config"
	"shaftmatch/pkg/contextx"
	"shaftmatch/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logx.NewLogger(os.Stderr, slog.LevelInfo, false).Error("config.Load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogLevel, cfg.App.NoColor).With(
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
	)
	slog.SetDefault(log)

	ctx = contextx.WithLogger(ctx, log)

	if err := application.Run(ctx, cfg); err != nil {
		log.Error("application failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}

	log.Info("application stopped")
}
