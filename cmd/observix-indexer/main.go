// Command observix-indexer runs the stateless log-normalization service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/observix/observix/pkg/config"
	"github.com/observix/observix/pkg/indexer"
	"github.com/observix/observix/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configPath := flag.String("config",
		getEnv("OBSERVIX_INDEXER_CONFIG", "./indexer.yaml"),
		"Path to the indexer configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	slog.Info("Starting observix-indexer", "version", version.Full())

	cfg, err := config.LoadIndexerConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load indexer configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := indexer.NewServer(cfg)
	if err := srv.Start(ctx); err != nil {
		slog.Error("Indexer server exited with error", "error", err)
		os.Exit(1)
	}

	slog.Info("observix-indexer shut down cleanly")
}
