package agent

import (
	"context"

	"github.com/observix/observix/pkg/wire"
)

// Processor transforms a batch between the batcher and the destination.
// It never returns an error to the caller: indexed-mode failures are
// recorded on stats and resolved into either a fallback batch or an empty
// one per fallback_to_raw, so the batcher always has a well-formed
// (possibly empty) result to forward.
type Processor interface {
	Process(ctx context.Context, batch []wire.Event, stats *PipelineStats) []wire.Event
}

// RawProcessor forwards the batch unchanged (processor.mode = "raw").
type RawProcessor struct{}

func (RawProcessor) Process(ctx context.Context, batch []wire.Event, stats *PipelineStats) []wire.Event {
	return batch
}
