package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/observix/observix/pkg/controlplane"
)

func newAssignmentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "assignment", Short: "Manage pipeline-to-agent assignments"}
	cmd.AddCommand(newAssignmentCreateCmd(), newAssignmentDeleteCmd())
	return cmd
}

func newAssignmentCreateCmd() *cobra.Command {
	var agentID, region, pipelineID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Assign a pipeline to an agent in a region",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp controlplane.CreateAssignmentResponse
			req := &controlplane.CreateAssignmentRequest{AgentID: agentID, Region: region, PipelineID: pipelineID}
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodPost, "/v1/assignments", req, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "assignment_id=%s\n", resp.AssignmentID)
			return nil
		},
	}
	cmd.Flags().StringVar(&agentID, "agent-id", "", "Agent ID (required)")
	cmd.Flags().StringVar(&region, "region", "", "Region the agent polls in (required)")
	cmd.Flags().StringVar(&pipelineID, "pipeline-id", "", "Pipeline ID to assign (required)")
	_ = cmd.MarkFlagRequired("agent-id")
	_ = cmd.MarkFlagRequired("region")
	_ = cmd.MarkFlagRequired("pipeline-id")
	return cmd
}

func newAssignmentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <assignment-id>",
		Short: "Remove a pipeline assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/assignments/" + args[0]
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}
