package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/observix/observix/pkg/controlplane"
	"github.com/observix/observix/pkg/wire"
)

func newPipelineCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "pipeline", Short: "Manage pipeline definitions"}
	cmd.AddCommand(newPipelineCreateCmd(), newPipelineUpdateCmd(), newPipelineListCmd(), newPipelineDeleteCmd())
	return cmd
}

func newPipelineCreateCmd() *cobra.Command {
	var name, specPath string
	var enabled bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := loadPipelineSpec(specPath)
			if err != nil {
				return err
			}

			var resp controlplane.CreatePipelineResponse
			req := &controlplane.CreatePipelineRequest{Name: name, Enabled: enabled, Spec: spec}
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodPost, "/v1/pipelines", req, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "pipeline_id=%s version=%d\n", resp.PipelineID, resp.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Pipeline name (required)")
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Whether the pipeline starts enabled")
	cmd.Flags().StringVar(&specPath, "spec", "", "Path to a JSON file containing the pipeline spec (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

func newPipelineUpdateCmd() *cobra.Command {
	var name, specPath string
	var enabled bool

	cmd := &cobra.Command{
		Use:   "update <pipeline-id>",
		Short: "Update a pipeline's name, enabled state, or spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := controlplane.UpdatePipelineRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("enabled") {
				req.Enabled = &enabled
			}
			if cmd.Flags().Changed("spec") {
				spec, err := loadPipelineSpec(specPath)
				if err != nil {
					return err
				}
				req.Spec = &spec
			}

			var resp controlplane.UpdatePipelineResponse
			path := "/v1/pipelines/" + args[0]
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodPut, path, &req, &resp); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "version=%d\n", resp.Version)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "New pipeline name")
	cmd.Flags().BoolVar(&enabled, "enabled", false, "Enable or disable the pipeline")
	cmd.Flags().StringVar(&specPath, "spec", "", "Path to a JSON file containing the new pipeline spec")
	return cmd
}

func newPipelineListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List pipelines",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pipelines []wire.Pipeline
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodGet, "/v1/pipelines", nil, &pipelines); err != nil {
				return err
			}
			return printJSON(cmd, pipelines)
		},
	}
}

func newPipelineDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <pipeline-id>",
		Short: "Delete a pipeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/v1/pipelines/" + args[0]
			if err := newClient(controlPlaneURL).do(cmd.Context(), http.MethodDelete, path, nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
}
