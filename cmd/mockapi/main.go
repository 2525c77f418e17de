package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"apistatus/internal/mockapi"
	"apistatus/internal/platform/logging"
	"apistatus/internal/platform/server"
)

func main() {
	_ = godotenv.Load()

	addr := envOr("ADDR", ":8080")
	logger := logging.New(os.Stdout, envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "json"))
	slog.SetDefault(logger)

	mode, err := mockapi.ParseMode(envOr("MOCK_MODE", string(mockapi.ModeOK)))
	if err != nil {
		slog.Error("invalid MOCK_MODE", "error", err)
		os.Exit(1)
	}

	slog.Info("mock api starting", "addr", addr, "mode", mode)

	srv := server.New("mockapi", addr, mockapi.New(mode), logger)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		slog.Error("server error", "error", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
