package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/observix/observix/pkg/wire"
)

func newAgentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "agent", Short: "Inspect registered agents"}
	cmd.AddCommand(newAgentListCmd())
	return cmd
}

func newAgentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			var agents []wire.Agent
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodGet, "/v1/agents", nil, &agents); err != nil {
				return err
			}
			return printJSON(cmd, agents)
		},
	}
}
