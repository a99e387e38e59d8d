package controlplane

import (
	"context"
	"log/slog"
	"time"

	"github.com/observix/observix/pkg/controlplane/store"
)

// LivenessSweeper periodically reconciles each agent's stored
// online/offline status column with its last_seen_at. API reads derive
// status at read time; the stored column is bookkeeping, kept in sync so
// status flips land in the audit log as they happen.
type LivenessSweeper struct {
	store     *store.Store
	threshold time.Duration
	interval  time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewLivenessSweeper creates a sweeper that flips agent status every
// interval, treating any agent last seen more than threshold ago as
// offline.
func NewLivenessSweeper(st *store.Store, threshold, interval time.Duration) *LivenessSweeper {
	return &LivenessSweeper{store: st, threshold: threshold, interval: interval}
}

// Start launches the background sweep loop.
func (l *LivenessSweeper) Start(ctx context.Context) {
	if l.cancel != nil {
		return
	}
	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})

	go l.run(ctx)

	slog.Info("Liveness sweeper started", "threshold", l.threshold, "interval", l.interval)
}

// Stop signals the sweep loop to exit and waits for it to finish.
func (l *LivenessSweeper) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
	slog.Info("Liveness sweeper stopped")
}

func (l *LivenessSweeper) run(ctx context.Context) {
	defer close(l.done)

	l.sweep(ctx)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.sweep(ctx)
		}
	}
}

func (l *LivenessSweeper) sweep(ctx context.Context) {
	flipped, err := l.store.SweepOfflineAgents(ctx, time.Now().UTC(), l.threshold)
	if err != nil {
		slog.Error("Liveness sweep failed", "error", err)
		return
	}
	if flipped > 0 {
		slog.Info("Liveness sweep flipped agent status", "count", flipped)
	}
}
