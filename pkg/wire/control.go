package wire

import "time"

// Pipeline is the control plane's authoritative record for one pipeline.
type Pipeline struct {
	PipelineID string       `json:"pipeline_id"`
	Name       string       `json:"name"`
	Enabled    bool         `json:"enabled"`
	Spec       PipelineSpec `json:"spec"`
	Version    int          `json:"version"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// AgentStatus is the liveness classification computed by the control plane.
type AgentStatus string

const (
	AgentOnline  AgentStatus = "online"
	AgentOffline AgentStatus = "offline"
)

// Agent is the control plane's record of a registered edge agent.
type Agent struct {
	AgentID     string      `json:"agent_id"`
	Region      string      `json:"region"`
	FirstSeenAt time.Time   `json:"first_seen_at"`
	LastSeenAt  time.Time   `json:"last_seen_at"`
	Status      AgentStatus `json:"status"`
}

// Assignment binds a pipeline to an (agent, region).
type Assignment struct {
	AssignmentID string    `json:"assignment_id"`
	AgentID      string    `json:"agent_id"`
	Region       string    `json:"region"`
	PipelineID   string    `json:"pipeline_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// PipelineRef is one AssignmentView entry. The revision hash is built from
// its (pipeline_id, version, enabled) fields only; Spec is carried so the
// agent can build the pipeline.
type PipelineRef struct {
	PipelineID string       `json:"pipeline_id"`
	Version    int          `json:"version"`
	Enabled    bool         `json:"enabled"`
	Spec       PipelineSpec `json:"spec"`
}

// Revision is an opaque token summarizing what an agent should currently
// run. It is stable iff the (pipeline_id, version, enabled) set for that
// agent+region is unchanged.
type Revision string

// AssignmentView is the per-poll response body an agent reconciles against.
type AssignmentView struct {
	Revision  Revision      `json:"revision"`
	Pipelines []PipelineRef `json:"pipelines"`
}
