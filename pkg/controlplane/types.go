package controlplane

import "github.com/observix/observix/pkg/wire"

// CreatePipelineRequest is the POST /v1/pipelines request body.
type CreatePipelineRequest struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Spec    wire.PipelineSpec `json:"spec"`
}

// CreatePipelineResponse is the POST /v1/pipelines response body.
type CreatePipelineResponse struct {
	PipelineID string `json:"pipeline_id"`
	Version    int    `json:"version"`
}

// UpdatePipelineRequest is the PUT /v1/pipelines/{id} request body; every
// field is optional so a caller can change just one of them.
type UpdatePipelineRequest struct {
	Name    *string            `json:"name,omitempty"`
	Enabled *bool              `json:"enabled,omitempty"`
	Spec    *wire.PipelineSpec `json:"spec,omitempty"`
}

// UpdatePipelineResponse is the PUT /v1/pipelines/{id} response body.
type UpdatePipelineResponse struct {
	Version int `json:"version"`
}

// CreateAssignmentRequest is the POST /v1/assignments request body.
type CreateAssignmentRequest struct {
	AgentID    string `json:"agent_id"`
	Region     string `json:"region"`
	PipelineID string `json:"pipeline_id"`
}

// CreateAssignmentResponse is the POST /v1/assignments response body.
type CreateAssignmentResponse struct {
	AssignmentID string `json:"assignment_id"`
}

// HealthResponse is the GET /healthz response body.
type HealthResponse struct {
	Status string `json:"status"`
}
