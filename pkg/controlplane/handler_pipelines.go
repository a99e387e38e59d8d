package controlplane

import (
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/observix/observix/pkg/controlplane/store"
)

// createPipelineHandler handles POST /v1/pipelines.
func (s *Server) createPipelineHandler(c *echo.Context) error {
	var req CreatePipelineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := req.Spec.Validate(); err != nil {
		return mapStoreError(err)
	}

	p, err := s.store.CreatePipeline(c.Request().Context(), req.Name, req.Enabled, req.Spec)
	if err != nil {
		return mapStoreError(err)
	}

	slog.Info("Pipeline created", "pipeline_id", p.PipelineID, "name", p.Name)

	return c.JSON(http.StatusCreated, &CreatePipelineResponse{PipelineID: p.PipelineID, Version: p.Version})
}

// listPipelinesHandler handles GET /v1/pipelines.
func (s *Server) listPipelinesHandler(c *echo.Context) error {
	list, err := s.store.ListPipelines(c.Request().Context())
	if err != nil {
		return mapStoreError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// updatePipelineHandler handles PUT /v1/pipelines/{id}.
func (s *Server) updatePipelineHandler(c *echo.Context) error {
	id := c.Param("id")

	var req UpdatePipelineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Spec != nil {
		if err := req.Spec.Validate(); err != nil {
			return mapStoreError(err)
		}
	}

	p, err := s.store.UpdatePipeline(c.Request().Context(), id, store.PipelineUpdate{
		Name:    req.Name,
		Enabled: req.Enabled,
		Spec:    req.Spec,
	})
	if err != nil {
		return mapStoreError(err)
	}

	slog.Info("Pipeline updated", "pipeline_id", id, "version", p.Version)

	return c.JSON(http.StatusOK, &UpdatePipelineResponse{Version: p.Version})
}

// deletePipelineHandler handles DELETE /v1/pipelines/{id}.
func (s *Server) deletePipelineHandler(c *echo.Context) error {
	id := c.Param("id")

	if err := s.store.DeletePipeline(c.Request().Context(), id); err != nil {
		return mapStoreError(err)
	}

	slog.Info("Pipeline deleted", "pipeline_id", id)

	return c.NoContent(http.StatusNoContent)
}
