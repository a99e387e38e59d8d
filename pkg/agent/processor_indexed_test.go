package agent

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observix/observix/pkg/wire"
)

func newIndexerStub(t *testing.T, handler http.HandlerFunc) wire.IndexedOptions {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return wire.IndexedOptions{IndexerURL: srv.URL, Profile: "json_auto"}
}

func TestIndexedProcessorSubstitutesDocs(t *testing.T) {
	opts := newIndexerStub(t, func(w http.ResponseWriter, r *http.Request) {
		var req normalizeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		docs := make([]normalizeDoc, len(req.Raw))
		for i, line := range req.Raw {
			docs[i] = normalizeDoc{Raw: line, Meta: map[string]any{"len": len(line)}}
		}
		require.NoError(t, json.NewEncoder(w).Encode(normalizeResponse{Docs: docs}))
	})

	proc := NewIndexedProcessor(opts)
	stats := &PipelineStats{}
	batch := []wire.Event{wire.NewEvent("hello", ""), wire.NewEvent("world!", "")}

	out := proc.Process(context.Background(), batch, stats)
	require.Len(t, out, 2)
	assert.Equal(t, "hello", out[0].Raw)
	assert.Equal(t, float64(5), out[0].Meta["len"])
	assert.Empty(t, stats.Snapshot(0).LastErr)
}

func TestIndexedProcessorFallsBackToRawOnIndexerError(t *testing.T) {
	opts := newIndexerStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	opts.FallbackToRaw = nil // default true

	proc := NewIndexedProcessor(opts)
	stats := &PipelineStats{}
	batch := []wire.Event{wire.NewEvent("a", ""), wire.NewEvent("b", "")}

	out := proc.Process(context.Background(), batch, stats)
	require.Len(t, out, 2)
	assert.Equal(t, batch, out)
	snap := stats.Snapshot(0)
	assert.EqualValues(t, 1, snap.FailedBatches)
	assert.NotEmpty(t, snap.LastErr)
}

func TestIndexedProcessorDropsBatchWhenFallbackDisabled(t *testing.T) {
	opts := newIndexerStub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	disabled := false
	opts.FallbackToRaw = &disabled

	proc := NewIndexedProcessor(opts)
	stats := &PipelineStats{}
	batch := []wire.Event{wire.NewEvent("a", "")}

	out := proc.Process(context.Background(), batch, stats)
	assert.Empty(t, out)
	assert.EqualValues(t, 1, stats.Snapshot(0).FailedBatches)
}

func TestIndexedProcessorMalformedResponseFallsBackToRaw(t *testing.T) {
	opts := newIndexerStub(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(normalizeResponse{Docs: nil}))
	})

	proc := NewIndexedProcessor(opts)
	stats := &PipelineStats{}
	batch := []wire.Event{wire.NewEvent("a", ""), wire.NewEvent("b", "")}

	out := proc.Process(context.Background(), batch, stats)
	assert.Equal(t, batch, out)
	assert.EqualValues(t, 1, stats.Snapshot(0).FailedBatches)
}
