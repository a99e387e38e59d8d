package main

import (
	"os"

	"github.com/spf13/cobra"
)

var controlPlaneURL string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "observixctl",
		Short:         "Manage Observix pipelines, assignments, and agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&controlPlaneURL, "control-plane-url",
		getEnv("OBSERVIX_CONTROLPLANE_URL", "http://localhost:8080"),
		"Base URL of the control plane API")

	root.AddCommand(newPipelineCmd(), newAssignmentCmd(), newAgentCmd())
	return root
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
