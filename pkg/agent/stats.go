// Package agent implements the edge runtime: it polls the control plane
// for its pipeline assignments and runs each one as a self-contained
// source → bounded queue → batcher+processor → destination topology.
package agent

import (
	"sync"
	"sync/atomic"
	"time"
)

// PipelineStats holds the counters and last-observed fields shared across
// a pipeline's three tasks. The counters are atomic; last_ok/last_err are
// guarded by mu, since they're a pair that must be read/written together.
type PipelineStats struct {
	recv             int64
	droppedQueueFull int64
	sentEvents       int64
	sentBatches      int64
	failedBatches    int64

	mu      sync.Mutex
	lastOK  time.Time
	lastErr string
}

func (s *PipelineStats) IncRecv()              { atomic.AddInt64(&s.recv, 1) }
func (s *PipelineStats) IncDroppedQueueFull()  { atomic.AddInt64(&s.droppedQueueFull, 1) }
func (s *PipelineStats) AddSentEvents(n int64) { atomic.AddInt64(&s.sentEvents, n) }
func (s *PipelineStats) IncSentBatches()       { atomic.AddInt64(&s.sentBatches, 1) }
func (s *PipelineStats) IncFailedBatches()     { atomic.AddInt64(&s.failedBatches, 1) }

// RecordOK stamps the timestamp of a successful destination send.
func (s *PipelineStats) RecordOK(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOK = t
}

// RecordErr stamps the last non-empty error observed by this pipeline.
func (s *PipelineStats) RecordErr(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = err.Error()
}

// Snapshot is the point-in-time copy of PipelineStats returned by
// Agent.Stats(). Callers get a copy, never a live handle.
type Snapshot struct {
	Recv             int64     `json:"recv"`
	DroppedQueueFull int64     `json:"dropped_queue_full"`
	SentEvents       int64     `json:"sent_events"`
	SentBatches      int64     `json:"sent_batches"`
	FailedBatches    int64     `json:"failed_batches"`
	Buffer           int       `json:"buffer"`
	LastOK           time.Time `json:"last_ok,omitempty"`
	LastErr          string    `json:"last_err,omitempty"`
}

// Snapshot copies the current counters and the given queue depth into a
// Snapshot.
func (s *PipelineStats) Snapshot(buffer int) Snapshot {
	s.mu.Lock()
	lastOK, lastErr := s.lastOK, s.lastErr
	s.mu.Unlock()

	return Snapshot{
		Recv:             atomic.LoadInt64(&s.recv),
		DroppedQueueFull: atomic.LoadInt64(&s.droppedQueueFull),
		SentEvents:       atomic.LoadInt64(&s.sentEvents),
		SentBatches:      atomic.LoadInt64(&s.sentBatches),
		FailedBatches:    atomic.LoadInt64(&s.failedBatches),
		Buffer:           buffer,
		LastOK:           lastOK,
		LastErr:          lastErr,
	}
}
