// Command observix-controlplane runs the authoritative pipeline/assignment
// catalog and agent liveness tracker.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/observix/observix/pkg/config"
	"github.com/observix/observix/pkg/controlplane"
	"github.com/observix/observix/pkg/controlplane/store"
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
		getEnv("OBSERVIX_CONTROLPLANE_CONFIG", "./controlplane.yaml"),
		"Path to the control plane configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	slog.Info("Starting observix-controlplane", "version", version.Full())

	cfg, err := config.LoadControlPlaneConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load control plane configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := store.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to open store", "error", err)
		os.Exit(2)
	}
	defer func() {
		if err := client.Close(); err != nil {
			slog.Error("Error closing store", "error", err)
		}
	}()

	st := store.NewStore(client)

	sweeper := controlplane.NewLivenessSweeper(st, cfg.AgentOfflineThreshold(), cfg.AgentOfflineThreshold()/2)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	srv := controlplane.NewServer(cfg, st)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Control plane listening", "addr", cfg.Addr())
		errCh <- srv.Start(cfg.Addr())
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error during shutdown", "error", err)
			os.Exit(2)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Control plane server exited with error", "error", err)
			os.Exit(2)
		}
	}

	slog.Info("observix-controlplane shut down cleanly")
}
