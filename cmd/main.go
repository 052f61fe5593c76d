package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tg_garant/internal/application"
	"tg_garant/pkg/logx"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		slog.Error("application failed", logx.Error(err))
		os.Exit(1)
	}

	slog.Info("application stopped")
}
