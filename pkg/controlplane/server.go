// Package controlplane implements the authoritative catalog of pipelines,
// assignments, and agent liveness, and serves the assignment view each
// agent polls.
package controlplane

import (
	"context"
	"net/http"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/observix/observix/pkg/config"
	"github.com/observix/observix/pkg/controlplane/store"
)

// Server is the control plane's HTTP API server.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	cfg        config.ControlPlaneConfig
	store      *store.Store
}

// NewServer creates the control plane HTTP server and registers its routes.
func NewServer(cfg config.ControlPlaneConfig, st *store.Store) *Server {
	e := echo.New()

	s := &Server{
		echo:  e,
		cfg:   cfg,
		store: st,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	if len(s.cfg.AllowOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.cfg.AllowOrigins,
		}))
	}

	s.echo.GET("/healthz", s.healthHandler)

	v1 := s.echo.Group("/v1")
	v1.GET("/agents", s.listAgentsHandler)
	v1.GET("/agents/:agent_id/assignments", s.pollAssignmentsHandler)

	v1.POST("/pipelines", s.createPipelineHandler)
	v1.GET("/pipelines", s.listPipelinesHandler)
	v1.PUT("/pipelines/:id", s.updatePipelineHandler)
	v1.DELETE("/pipelines/:id", s.deletePipelineHandler)

	v1.POST("/assignments", s.createAssignmentHandler)
	v1.DELETE("/assignments/:assignment_id", s.deleteAssignmentHandler)
}

// Start serves on addr until Shutdown is called or the listener fails.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.echo,
	}
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
