package controlplane

import (
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/observix/observix/pkg/wire"
)

// listAgentsHandler handles GET /v1/agents. Status is computed against
// agent_offline_threshold_seconds at read time.
func (s *Server) listAgentsHandler(c *echo.Context) error {
	agents, err := s.store.ListAgents(c.Request().Context(), time.Now().UTC(), s.cfg.AgentOfflineThreshold())
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, agents)
}

// pollAssignmentsHandler handles
// GET /v1/agents/{agent_id}/assignments?region=R.
//
// It upserts the agent's last_seen_at, computes the revision for the
// agent's current pipeline assignments, and short-circuits to 304 when the
// caller's If-None-Match header already matches.
func (s *Server) pollAssignmentsHandler(c *echo.Context) error {
	agentID := c.Param("agent_id")
	region := c.QueryParam("region")
	if region == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "region query parameter is required")
	}

	ctx := c.Request().Context()

	if err := s.store.UpsertAgentSeen(ctx, agentID, region, time.Now().UTC()); err != nil {
		return mapStoreError(err)
	}

	refs, err := s.store.PipelineRefsForAgent(ctx, agentID, region)
	if err != nil {
		return mapStoreError(err)
	}
	if refs == nil {
		refs = []wire.PipelineRef{}
	}

	revision := wire.ComputeRevision(refs)

	if inm := c.Request().Header.Get("If-None-Match"); inm != "" && inm == string(revision) {
		return c.NoContent(http.StatusNotModified)
	}

	c.Response().Header().Set("ETag", string(revision))
	return c.JSON(http.StatusOK, &wire.AssignmentView{Revision: revision, Pipelines: refs})
}
