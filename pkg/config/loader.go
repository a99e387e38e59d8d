package config

import (
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// join formats a host:port address, defaulting an empty host to "0.0.0.0".
func join(host string, port int) string {
	if host == "" {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, port)
}

// load reads path, expands environment variables, unmarshals YAML into
// dst, and merges defaults over any zero-valued fields dst doesn't set
// explicitly.
func load(path string, dst any, defaults any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return NewLoadError(path, err)
	}
	data = ExpandEnv(data)
	if err := yaml.Unmarshal(data, dst); err != nil {
		return NewLoadError(path, fmt.Errorf("%w: %v", ErrInvalidYAML, err))
	}
	if err := mergo.Merge(dst, defaults); err != nil {
		return NewLoadError(path, fmt.Errorf("apply defaults: %w", err))
	}
	return nil
}

// LoadAgentConfig loads and validates the agent service's YAML config.
func LoadAgentConfig(path string) (AgentConfig, error) {
	cfg := AgentConfig{}
	if err := load(path, &cfg, DefaultAgentConfig()); err != nil {
		return AgentConfig{}, err
	}
	if err := validateAgentConfig(cfg); err != nil {
		return AgentConfig{}, err
	}
	return cfg, nil
}

// LoadControlPlaneConfig loads and validates the control plane's YAML config.
func LoadControlPlaneConfig(path string) (ControlPlaneConfig, error) {
	cfg := ControlPlaneConfig{}
	if err := load(path, &cfg, DefaultControlPlaneConfig()); err != nil {
		return ControlPlaneConfig{}, err
	}
	if err := validateControlPlaneConfig(cfg); err != nil {
		return ControlPlaneConfig{}, err
	}
	return cfg, nil
}

// LoadIndexerConfig loads and validates the indexer's YAML config.
func LoadIndexerConfig(path string) (IndexerConfig, error) {
	cfg := IndexerConfig{}
	if err := load(path, &cfg, DefaultIndexerConfig()); err != nil {
		return IndexerConfig{}, err
	}
	if err := validateIndexerConfig(cfg); err != nil {
		return IndexerConfig{}, err
	}
	return cfg, nil
}

func validateAgentConfig(c AgentConfig) error {
	if c.AgentID == "" {
		return NewValidationError("agent", c.AgentID, "agent_id", ErrMissingRequiredField)
	}
	if c.Region == "" {
		return NewValidationError("agent", c.AgentID, "region", ErrMissingRequiredField)
	}
	if c.ControlPlane.URL == "" {
		return NewValidationError("agent", c.AgentID, "control_plane.url", ErrMissingRequiredField)
	}
	if c.PollIntervalSeconds <= 0 {
		return NewValidationError("agent", c.AgentID, "poll_interval_seconds", ErrInvalidValue)
	}
	if c.ShutdownDeadlineSeconds <= 0 {
		return NewValidationError("agent", c.AgentID, "shutdown_deadline_seconds", ErrInvalidValue)
	}
	return nil
}

func validateControlPlaneConfig(c ControlPlaneConfig) error {
	if c.Port <= 0 {
		return NewValidationError("control_plane", "", "port", ErrInvalidValue)
	}
	if c.DatabaseURL == "" {
		return NewValidationError("control_plane", "", "database_url", ErrMissingRequiredField)
	}
	if c.AgentOfflineThresholdSeconds <= 0 {
		return NewValidationError("control_plane", "", "agent_offline_threshold_seconds", ErrInvalidValue)
	}
	return nil
}

func validateIndexerConfig(c IndexerConfig) error {
	if c.Port <= 0 {
		return NewValidationError("indexer", "", "port", ErrInvalidValue)
	}
	if c.MaxRequestBytes <= 0 {
		return NewValidationError("indexer", "", "max_request_bytes", ErrInvalidValue)
	}
	return nil
}
