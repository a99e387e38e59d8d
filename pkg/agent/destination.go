package agent

import (
	"context"

	"github.com/observix/observix/pkg/wire"
)

// Destination is the outbound half of a pipeline. Dial acquires whatever
// connection or client state is needed before the pipeline is declared
// Running. Send attempts every event in the batch even if an earlier one
// fails, returning the number of events actually written alongside the
// last error observed, so per-event counters stay honest on partial sends.
type Destination interface {
	Dial(ctx context.Context) error
	Send(ctx context.Context, events []wire.Event) (int, error)
	Close() error
}
