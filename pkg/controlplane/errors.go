package controlplane

import (
	"errors"
	"log/slog"
	"net/http"

	echo "github.com/labstack/echo/v5"

	"github.com/observix/observix/pkg/controlplane/store"
	"github.com/observix/observix/pkg/wire"
)

// mapStoreError maps store-layer and spec-validation errors to HTTP error
// responses.
func mapStoreError(err error) *echo.HTTPError {
	var specErr *wire.SpecError
	if errors.As(err, &specErr) {
		return echo.NewHTTPError(http.StatusBadRequest, wire.NewErrorBody(wire.ErrCodeInvalidSpec, "%s", specErr.Error()).Error())
	}
	if errors.Is(err, store.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, wire.NewErrorBody(wire.ErrCodeNotFound, "resource not found").Error())
	}
	if errors.Is(err, store.ErrPipelineUnknown) {
		return echo.NewHTTPError(http.StatusNotFound, wire.NewErrorBody(wire.ErrCodeNotFound, "referenced pipeline does not exist").Error())
	}
	if errors.Is(err, store.ErrAlreadyExists) {
		return echo.NewHTTPError(http.StatusConflict, wire.NewErrorBody(wire.ErrCodeConflict, "resource already exists").Error())
	}

	slog.Error("Unexpected control plane error", "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, wire.NewErrorBody(wire.ErrCodeStoreError, "internal server error").Error())
}
