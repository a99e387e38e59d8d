package indexer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return &Server{
		echo:     echo.New(),
		profiles: NewProfileRegistry(),
	}
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	require.NoError(t, s.healthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestNormalizeHandlerJSONAutoSingleString(t *testing.T) {
	s := newTestServer()

	body := `{"profile":"json_auto","raw":"{\"level\":\"error\"}\nplain text line"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/normalize", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	require.NoError(t, s.normalizeHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Docs, 2)
	assert.Equal(t, "error", resp.Docs[0].Meta["level"])
	assert.Nil(t, resp.Docs[1].Meta)
	assert.Equal(t, "plain text line", resp.Docs[1].Raw)
}

func TestNormalizeHandlerArrayOfLines(t *testing.T) {
	s := newTestServer()

	body := `{"profile":"json_auto","raw":["a","b"]}`
	req := httptest.NewRequest(http.MethodPost, "/v1/normalize", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	require.NoError(t, s.normalizeHandler(c))

	var resp NormalizeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Docs, 2)
	assert.Equal(t, "a", resp.Docs[0].Raw)
	assert.Equal(t, "b", resp.Docs[1].Raw)
}

func TestNormalizeHandlerMissingProfile(t *testing.T) {
	s := newTestServer()

	body := `{"raw":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/normalize", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	err := s.normalizeHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestNormalizeHandlerUnknownProfile(t *testing.T) {
	s := newTestServer()

	body := `{"profile":"does_not_exist","raw":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/normalize", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)

	err := s.normalizeHandler(c)
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
