// Command observix-agent runs the edge log-forwarding runtime: it polls
// the control plane for its pipeline assignments and runs them.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/observix/observix/pkg/agent"
	"github.com/observix/observix/pkg/config"
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
		getEnv("OBSERVIX_AGENT_CONFIG", "./agent.yaml"),
		"Path to the agent configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	slog.Info("Starting observix-agent", "version", version.Full())

	cfg, err := config.LoadAgentConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load agent configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := agent.NewAgent(cfg)
	a.Start(ctx)
	slog.Info("Agent reconciliation loop running", "agent_id", cfg.AgentID, "region", cfg.Region)

	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping agent")
	a.Stop()
	slog.Info("observix-agent shut down cleanly")
}
