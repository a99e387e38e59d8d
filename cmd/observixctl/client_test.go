package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDoDecodesSuccessResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"pipeline_id":"p1","version":1}`))
	}))
	defer srv.Close()

	var out struct {
		PipelineID string `json:"pipeline_id"`
		Version    int    `json:"version"`
	}
	err := newClient(srv.URL).do(t.Context(), http.MethodGet, "/v1/pipelines/p1", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "p1", out.PipelineID)
	assert.Equal(t, 1, out.Version)
}

func TestClientDoReturnsAPIErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("pipeline not found"))
	}))
	defer srv.Close()

	err := newClient(srv.URL).do(t.Context(), http.MethodGet, "/v1/pipelines/missing", nil, nil)
	require.Error(t, err)

	var apiErr *apiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.status)
	assert.Equal(t, "pipeline not found", apiErr.body)
	assert.Equal(t, 2, exitCodeFor(err))
}

func TestClientDoReturnsTransportErrorOnUnreachableHost(t *testing.T) {
	err := newClient("http://127.0.0.1:0").do(t.Context(), http.MethodGet, "/v1/pipelines", nil, nil)
	require.Error(t, err)

	var transportErr *transportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, 1, exitCodeFor(err))
}
