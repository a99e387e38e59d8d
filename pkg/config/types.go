// Package config loads and validates the YAML configuration for each of
// Observix's three services: expand env vars, unmarshal, merge defaults,
// validate.
package config

import "time"

// AgentConfig is the agent service's YAML configuration.
type AgentConfig struct {
	AgentID                 string                   `yaml:"agent_id"`
	Region                  string                   `yaml:"region"`
	ControlPlane            ControlPlaneClientConfig `yaml:"control_plane"`
	PollIntervalSeconds     int                      `yaml:"poll_interval_seconds"`
	ShutdownDeadlineSeconds int                      `yaml:"shutdown_deadline_seconds"`
	// MaxQueueSize bounds each pipeline's source→batcher queue. A single
	// fleet-wide knob rather than a per-PipelineSpec field.
	MaxQueueSize int `yaml:"max_queue_size"`
}

// ControlPlaneClientConfig is the agent's view of the control plane it polls.
type ControlPlaneClientConfig struct {
	URL string `yaml:"url"`
}

// PollInterval returns PollIntervalSeconds as a time.Duration.
func (c AgentConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// ShutdownDeadline returns ShutdownDeadlineSeconds as a time.Duration.
func (c AgentConfig) ShutdownDeadline() time.Duration {
	return time.Duration(c.ShutdownDeadlineSeconds) * time.Second
}

// DefaultAgentConfig returns the built-in agent defaults.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		PollIntervalSeconds:     5,
		ShutdownDeadlineSeconds: 5,
		MaxQueueSize:            1000,
	}
}

// ControlPlaneConfig is the control plane service's YAML configuration.
type ControlPlaneConfig struct {
	Host                         string   `yaml:"host"`
	Port                         int      `yaml:"port"`
	DatabaseURL                  string   `yaml:"database_url"`
	AgentOfflineThresholdSeconds int      `yaml:"agent_offline_threshold_seconds"`
	AllowOrigins                 []string `yaml:"allow_origins"`
}

// AgentOfflineThreshold returns AgentOfflineThresholdSeconds as a time.Duration.
func (c ControlPlaneConfig) AgentOfflineThreshold() time.Duration {
	return time.Duration(c.AgentOfflineThresholdSeconds) * time.Second
}

// Addr returns the host:port the control plane listens on.
func (c ControlPlaneConfig) Addr() string {
	return join(c.Host, c.Port)
}

// DefaultControlPlaneConfig returns the built-in control plane defaults.
func DefaultControlPlaneConfig() ControlPlaneConfig {
	return ControlPlaneConfig{
		Host:                         "0.0.0.0",
		Port:                         8080,
		DatabaseURL:                  "observix-controlplane.db",
		AgentOfflineThresholdSeconds: 20,
	}
}

// IndexerConfig is the indexer service's YAML configuration.
type IndexerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	ProfilesDir     string `yaml:"profiles_dir"`
	MaxRequestBytes int    `yaml:"max_request_bytes"`
}

// Addr returns the host:port the indexer listens on.
func (c IndexerConfig) Addr() string {
	return join(c.Host, c.Port)
}

// DefaultIndexerConfig returns the built-in indexer defaults.
func DefaultIndexerConfig() IndexerConfig {
	return IndexerConfig{
		Host:            "0.0.0.0",
		Port:            8090,
		ProfilesDir:     "./profiles",
		MaxRequestBytes: 1048576,
	}
}
