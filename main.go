package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridiron-gm/engine/app"
	"github.com/gridiron-gm/engine/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize engine", slog.Any("error", err))
		os.Exit(1)
	}

	if err := engine.Run(ctx); err != nil {
		logger.Error("engine stopped with error", slog.Any("error", err))
	}

	if err := engine.Close(); err != nil {
		logger.Error("engine shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("engine shut down cleanly")
}
