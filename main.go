package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"immich-face-album/cmd"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		slog.Error("app failed", "error", err)
		stop()
		os.Exit(1)
	}
}
