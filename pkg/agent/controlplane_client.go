package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/observix/observix/pkg/wire"
)

// pollTimeout bounds each assignment poll.
const pollTimeout = 10 * time.Second

// ControlPlaneClient polls the control plane's assignment endpoint on
// behalf of one agent.
type ControlPlaneClient struct {
	baseURL string
	client  *http.Client
}

// NewControlPlaneClient builds a client against the given control plane
// base URL (config.AgentConfig.ControlPlane.URL).
func NewControlPlaneClient(baseURL string) *ControlPlaneClient {
	return &ControlPlaneClient{baseURL: baseURL, client: &http.Client{Timeout: pollTimeout}}
}

// PollResult is the outcome of one poll. NotModified means the caller
// should keep its current revision and running set; otherwise View holds
// a fresh assignment view.
type PollResult struct {
	NotModified bool
	View        wire.AssignmentView
}

// Poll issues GET /v1/agents/{id}/assignments?region=R with the
// last-applied revision as a conditional If-None-Match header.
func (c *ControlPlaneClient) Poll(ctx context.Context, agentID, region string, lastRevision wire.Revision) (PollResult, error) {
	u := fmt.Sprintf("%s/v1/agents/%s/assignments?region=%s",
		c.baseURL, url.PathEscape(agentID), url.QueryEscape(region))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return PollResult{}, fmt.Errorf("build poll request: %w", err)
	}
	if lastRevision != "" {
		req.Header.Set("If-None-Match", string(lastRevision))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return PollResult{}, fmt.Errorf("poll assignments: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return PollResult{NotModified: true}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return PollResult{}, fmt.Errorf("poll assignments: unexpected status %d", resp.StatusCode)
	}

	var view wire.AssignmentView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return PollResult{}, fmt.Errorf("decode assignment view: %w", err)
	}
	return PollResult{View: view}, nil
}
