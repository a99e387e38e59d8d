package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/observix/observix/pkg/wire"
)

func loadPipelineSpec(path string) (wire.PipelineSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return wire.PipelineSpec{}, fmt.Errorf("read spec file: %w", err)
	}
	var spec wire.PipelineSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		return wire.PipelineSpec{}, fmt.Errorf("parse spec file: %w", err)
	}
	return spec, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
