package controlplane

import (
	"context"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"

	"github.com/observix/observix/pkg/controlplane/store"
)

// healthHandler handles GET /healthz: checks the store is reachable and
// reports a status string rather than a bare 200/500.
func (s *Server) healthHandler(c *echo.Context) error {
	reqCtx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	health, err := store.Health(reqCtx, s.store.DB())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, &HealthResponse{Status: health.Status})
	}
	return c.JSON(http.StatusOK, &HealthResponse{Status: health.Status})
}
