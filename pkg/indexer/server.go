package indexer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	"github.com/observix/observix/pkg/config"
)

// Server is the indexer's HTTP API server: an *echo.Echo wrapped with an
// *http.Server for graceful shutdown, routes registered once in NewServer.
type Server struct {
	echo       *echo.Echo
	httpServer *http.Server
	cfg        config.IndexerConfig
	profiles   *ProfileRegistry
}

// NewServer creates the indexer HTTP server and registers its routes.
func NewServer(cfg config.IndexerConfig) *Server {
	e := echo.New()

	s := &Server{
		echo:     e,
		cfg:      cfg,
		profiles: NewProfileRegistry(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.Use(middleware.BodyLimit(int64(s.cfg.MaxRequestBytes)))

	s.echo.GET("/healthz", s.healthHandler)
	s.echo.POST("/v1/normalize", s.normalizeHandler)
}

// Start begins serving on cfg.Addr() and blocks until the context is
// cancelled, at which point it shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.echo,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Indexer listening", "addr", s.cfg.Addr())
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
