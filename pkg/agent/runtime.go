package agent

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/observix/observix/pkg/config"
	"github.com/observix/observix/pkg/wire"
)

// Agent runs the set of pipelines currently assigned to it, periodically
// polling the control plane and reconciling its running set to match.
type Agent struct {
	cfg    config.AgentConfig
	client *ControlPlaneClient

	mu           sync.RWMutex
	pipelines    map[string]*Pipeline
	lastRevision wire.Revision

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewAgent builds an Agent that polls cfg.ControlPlane.URL for assignments.
func NewAgent(cfg config.AgentConfig) *Agent {
	return &Agent{
		cfg:       cfg,
		client:    NewControlPlaneClient(cfg.ControlPlane.URL),
		pipelines: make(map[string]*Pipeline),
		stopCh:    make(chan struct{}),
	}
}

// Start launches the reconciliation loop in a goroutine.
func (a *Agent) Start(ctx context.Context) {
	a.wg.Add(1)
	go a.run(ctx)
}

// Stop initiates graceful shutdown: stop polling, then stop every running
// pipeline subject to shutdown_deadline.
func (a *Agent) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
	a.wg.Wait()

	a.mu.Lock()
	defer a.mu.Unlock()
	for id, p := range a.pipelines {
		p.Stop(a.cfg.ShutdownDeadline())
		delete(a.pipelines, id)
	}
}

func (a *Agent) run(ctx context.Context) {
	defer a.wg.Done()
	log := slog.With("agent_id", a.cfg.AgentID, "region", a.cfg.Region)
	log.Info("Agent reconciliation loop started")

	for {
		select {
		case <-a.stopCh:
			return
		case <-ctx.Done():
			return
		default:
			a.reconcileOnce(ctx)
			a.sleep(a.pollInterval())
		}
	}
}

func (a *Agent) sleep(d time.Duration) {
	select {
	case <-a.stopCh:
	case <-time.After(d):
	}
}

// pollInterval jitters the configured poll interval by ±20% so a fleet of
// agents doesn't thunder at the control plane in lockstep.
func (a *Agent) pollInterval() time.Duration {
	base := a.cfg.PollInterval()
	jitter := time.Duration(float64(base) * 0.2)
	if jitter <= 0 {
		return base
	}
	offset := time.Duration(rand.Int64N(int64(2 * jitter)))
	return base - jitter + offset
}

func (a *Agent) reconcileOnce(ctx context.Context) {
	a.mu.RLock()
	lastRevision := a.lastRevision
	a.mu.RUnlock()

	pollCtx, cancel := context.WithTimeout(ctx, pollTimeout)
	defer cancel()

	result, err := a.client.Poll(pollCtx, a.cfg.AgentID, a.cfg.Region, lastRevision)
	if err != nil {
		slog.Error("Assignment poll failed, retrying next tick", "error", err)
		return
	}
	if result.NotModified {
		return
	}

	a.apply(ctx, result.View.Pipelines)

	a.mu.Lock()
	a.lastRevision = result.View.Revision
	a.mu.Unlock()
}

// apply computes the reconcile plan and applies removals first, then
// mutations (stop-then-start), then additions.
func (a *Agent) apply(ctx context.Context, desired []wire.PipelineRef) {
	a.mu.RLock()
	running := make(map[string]int, len(a.pipelines))
	for id, p := range a.pipelines {
		running[id] = p.Version()
	}
	a.mu.RUnlock()

	plan := planReconcile(desired, running)

	for _, id := range plan.removals {
		a.stopPipeline(id)
	}
	for _, ref := range plan.mutations {
		a.stopPipeline(ref.PipelineID)
		a.startPipeline(ctx, ref)
	}
	for _, ref := range plan.additions {
		a.startPipeline(ctx, ref)
	}
}

func (a *Agent) stopPipeline(id string) {
	a.mu.Lock()
	p, ok := a.pipelines[id]
	if ok {
		delete(a.pipelines, id)
	}
	a.mu.Unlock()

	if !ok {
		return
	}
	p.Stop(a.cfg.ShutdownDeadline())
}

// startPipeline builds and starts a pipeline for ref. A bind or dial
// failure leaves the pipeline registered in its Failed state so the next
// reconcile tick does not treat it as absent; it is only retried once
// ref.Version changes. A build failure registers nothing, so the pipeline
// is planned as an addition again the next time a new view is applied.
func (a *Agent) startPipeline(ctx context.Context, ref wire.PipelineRef) {
	p, err := NewPipeline(ref.PipelineID, ref.Version, ref.Spec, a.cfg.MaxQueueSize)
	if err != nil {
		slog.Error("Failed to build pipeline from assignment, will retry on next version change",
			"pipeline_id", ref.PipelineID, "error", err)
		return
	}
	if err := p.Start(ctx); err != nil {
		slog.Error("Pipeline failed to start, will retry on next version change",
			"pipeline_id", ref.PipelineID, "error", err)
	}

	a.mu.Lock()
	a.pipelines[ref.PipelineID] = p
	a.mu.Unlock()
}

// Stats returns a point-in-time snapshot of every running pipeline's
// counters, keyed by pipeline_id.
func (a *Agent) Stats() map[string]Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make(map[string]Snapshot, len(a.pipelines))
	for id, p := range a.pipelines {
		out[id] = p.Stats()
	}
	return out
}

// PipelineHealth is one pipeline's lifecycle state as reported by
// Agent.Health().
type PipelineHealth struct {
	PipelineID string        `json:"pipeline_id"`
	State      PipelineState `json:"state"`
	Version    int           `json:"version"`
}

// AgentHealth is the aggregate health snapshot of a running agent.
type AgentHealth struct {
	AgentID      string           `json:"agent_id"`
	RunningCount int              `json:"running_count"`
	TotalCount   int              `json:"total_count"`
	Pipelines    []PipelineHealth `json:"pipelines"`
}

// Health aggregates per-pipeline state into a fleet-visible snapshot.
func (a *Agent) Health() AgentHealth {
	a.mu.RLock()
	defer a.mu.RUnlock()

	health := AgentHealth{AgentID: a.cfg.AgentID, TotalCount: len(a.pipelines)}
	for id, p := range a.pipelines {
		state := p.State()
		if state == StateRunning {
			health.RunningCount++
		}
		health.Pipelines = append(health.Pipelines, PipelineHealth{
			PipelineID: id,
			State:      state,
			Version:    p.Version(),
		})
	}
	return health
}
