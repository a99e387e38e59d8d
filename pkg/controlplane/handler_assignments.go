package controlplane

import (
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"
)

// createAssignmentHandler handles POST /v1/assignments.
func (s *Server) createAssignmentHandler(c *echo.Context) error {
	var req CreateAssignmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	a, err := s.store.CreateAssignment(c.Request().Context(), req.AgentID, req.Region, req.PipelineID)
	if err != nil {
		return mapStoreError(err)
	}

	slog.Info("Assignment created", "assignment_id", a.AssignmentID, "agent_id", a.AgentID, "pipeline_id", a.PipelineID)

	return c.JSON(http.StatusCreated, &CreateAssignmentResponse{AssignmentID: a.AssignmentID})
}

// deleteAssignmentHandler handles DELETE /v1/assignments/{assignment_id}.
func (s *Server) deleteAssignmentHandler(c *echo.Context) error {
	id := c.Param("assignment_id")

	if err := s.store.DeleteAssignment(c.Request().Context(), id); err != nil {
		return mapStoreError(err)
	}

	slog.Info("Assignment deleted", "assignment_id", id)

	return c.NoContent(http.StatusNoContent)
}
