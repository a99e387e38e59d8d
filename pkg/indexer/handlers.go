package indexer

import (
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/observix/observix/pkg/version"
)

// HealthResponse is the GET /healthz response body.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// healthHandler handles GET /healthz. The indexer is stateless, so health
// is simply "can this process answer requests" — there is no dependency to
// probe.
func (s *Server) healthHandler(c *echo.Context) error {
	return c.JSON(http.StatusOK, &HealthResponse{
		Status:  "healthy",
		Version: version.Full(),
	})
}

// normalizeHandler handles POST /v1/normalize.
func (s *Server) normalizeHandler(c *echo.Context) error {
	var req NormalizeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.Profile == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "profile field is required")
	}

	profile, err := s.profiles.Get(req.Profile)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	docs := make([]Doc, 0, len(req.Raw))
	for _, line := range req.Raw {
		docs = append(docs, profile.Normalize(line))
	}

	return c.JSON(http.StatusOK, &NormalizeResponse{Docs: docs})
}
