package controlplane

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/observix/observix/pkg/controlplane/store"
	"github.com/observix/observix/pkg/wire"
)

func TestLivenessSweeperFlipsStaleAgentOffline(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "observix.db")
	client, err := store.NewClient(context.Background(), dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	st := store.NewStore(client)
	require.NoError(t, st.UpsertAgentSeen(context.Background(), "agent-1", "eu-west-1", time.Now().UTC().Add(-time.Hour)))

	sweeper := NewLivenessSweeper(st, 20*time.Second, 10*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	sweeper.Start(ctx)

	require.Eventually(t, func() bool {
		a, err := st.GetAgent(context.Background(), "agent-1")
		return err == nil && a.Status == wire.AgentOffline
	}, time.Second, 10*time.Millisecond)

	cancel()
	sweeper.Stop()
}

func TestLivenessSweeperStopIsIdempotentBeforeStart(t *testing.T) {
	sweeper := NewLivenessSweeper(nil, time.Second, time.Second)
	assert.NotPanics(t, func() { sweeper.Stop() })
}
