package agent

import (
	"context"

	"github.com/observix/observix/pkg/wire"
)

// Source is the inbound half of a pipeline. Bind acquires the listening
// socket synchronously, so the pipeline state machine can observe a bind
// failure before declaring itself Running. Serve then runs the blocking
// receive loop until ctx is cancelled or Close is called; it must never
// block on a full queue — on overflow it increments dropped_queue_full
// and discards the newest event.
type Source interface {
	Bind(ctx context.Context) error
	Serve(ctx context.Context, out chan<- wire.Event, stats *PipelineStats)
	Close() error
}
