package agent

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/observix/observix/pkg/wire"
)

// PipelineState is a pipeline's lifecycle stage.
type PipelineState string

const (
	StateStarting PipelineState = "starting"
	StateRunning  PipelineState = "running"
	StateStopping PipelineState = "stopping"
	StateStopped  PipelineState = "stopped"
	StateFailed   PipelineState = "failed"
)

// Pipeline runs one source → bounded queue → batcher+processor →
// destination topology. The three tasks communicate only through the
// queue channel, an internal batch channel, and the shared stats block.
type Pipeline struct {
	id      string
	version int
	spec    wire.PipelineSpec

	source      Source
	processor   Processor
	destination Destination

	queue chan wire.Event
	stats *PipelineStats

	mu    sync.RWMutex
	state PipelineState

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPipeline builds the source/processor/destination triple from spec and
// returns an unstarted Pipeline. The kind switches below reject specs the
// control plane should already have validated.
func NewPipeline(id string, version int, spec wire.PipelineSpec, maxQueueSize int) (*Pipeline, error) {
	src, err := buildSource(spec.Source)
	if err != nil {
		return nil, fmt.Errorf("build source: %w", err)
	}
	proc, err := buildProcessor(spec.Processor)
	if err != nil {
		return nil, fmt.Errorf("build processor: %w", err)
	}
	dst, err := buildDestination(spec.Destination)
	if err != nil {
		return nil, fmt.Errorf("build destination: %w", err)
	}

	return &Pipeline{
		id:          id,
		version:     version,
		spec:        spec,
		source:      src,
		processor:   proc,
		destination: dst,
		queue:       make(chan wire.Event, maxQueueSize),
		stats:       &PipelineStats{},
		state:       StateStarting,
	}, nil
}

func buildSource(s wire.SourceSpec) (Source, error) {
	switch s.Kind {
	case wire.SourceSyslogUDP:
		opts, err := s.AsSyslogUDP()
		if err != nil {
			return nil, err
		}
		return NewSyslogUDPSource(opts), nil
	case wire.SourceSyslogTCP:
		opts, err := s.AsSyslogTCP()
		if err != nil {
			return nil, err
		}
		return NewSyslogTCPSource(opts), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

func buildProcessor(p wire.ProcessorSpec) (Processor, error) {
	switch p.Mode {
	case wire.ProcessorRaw:
		return RawProcessor{}, nil
	case wire.ProcessorIndexed:
		opts, err := p.AsIndexed()
		if err != nil {
			return nil, err
		}
		return NewIndexedProcessor(opts), nil
	default:
		return nil, fmt.Errorf("unknown processor mode %q", p.Mode)
	}
}

func buildDestination(d wire.DestinationSpec) (Destination, error) {
	switch d.Kind {
	case wire.DestinationSyslogUDP:
		opts, err := d.AsSyslogUDP()
		if err != nil {
			return nil, err
		}
		return NewSyslogUDPDestination(opts), nil
	case wire.DestinationHTTPBulk:
		opts, err := d.AsHTTPBulk()
		if err != nil {
			return nil, err
		}
		return NewHTTPBulkDestination(opts), nil
	default:
		return nil, fmt.Errorf("unknown destination kind %q", d.Kind)
	}
}

// Start binds the source and dials the destination, transitions to
// Running on success, and spawns the three tasks. A bind failure leaves
// the pipeline in Failed.
func (p *Pipeline) Start(ctx context.Context) error {
	if err := p.source.Bind(ctx); err != nil {
		p.setState(StateFailed)
		return err
	}
	if err := p.destination.Dial(ctx); err != nil {
		_ = p.source.Close()
		p.setState(StateFailed)
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.setState(StateRunning)

	batches := make(chan []wire.Event, 1)

	p.wg.Add(3)
	go func() {
		defer p.wg.Done()
		p.source.Serve(runCtx, p.queue, p.stats)
	}()
	go func() {
		defer p.wg.Done()
		p.runBatcher(runCtx, batches)
	}()
	go func() {
		defer p.wg.Done()
		p.runDestination(runCtx, batches)
	}()

	return nil
}

// Stop cancels the run context, which ends the source's receive loop and
// makes the batcher drain the queue and flush the destination, then closes
// the source and waits for the tasks, subject to deadline. Abandoned tasks
// are logged, not waited on forever.
func (p *Pipeline) Stop(deadline time.Duration) {
	p.setState(StateStopping)
	if p.cancel != nil {
		p.cancel()
	}
	_ = p.source.Close()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(deadline):
		slog.Warn("Pipeline did not stop within shutdown deadline, abandoning tasks",
			"pipeline_id", p.id, "deadline", deadline)
	}

	_ = p.destination.Close()
	p.setState(StateStopped)
}

func (p *Pipeline) setState(s PipelineState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state = s
}

// State returns the pipeline's current lifecycle stage.
func (p *Pipeline) State() PipelineState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Version reports the pipeline version this instance is running.
func (p *Pipeline) Version() int { return p.version }

// Stats returns a point-in-time snapshot of this pipeline's counters.
func (p *Pipeline) Stats() Snapshot {
	return p.stats.Snapshot(len(p.queue))
}

// runBatcher drains the queue into batches bounded by batch_max_events and
// batch_max_seconds, processes each batch, and forwards non-empty results
// to the destination task. Empty ticks never produce a batch.
func (p *Pipeline) runBatcher(ctx context.Context, out chan<- []wire.Event) {
	defer close(out)

	maxEvents := p.spec.BatchMaxEvents
	maxDwell := time.Duration(p.spec.BatchMaxSeconds * float64(time.Second))

	batch := make([]wire.Event, 0, maxEvents)
	timer := time.NewTimer(maxDwell)
	defer timer.Stop()

	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(maxDwell)
	}

	flush := func() {
		if len(batch) == 0 {
			return
		}
		processed := p.processor.Process(ctx, batch, p.stats)
		batch = make([]wire.Event, 0, maxEvents)
		if len(processed) > 0 {
			out <- processed
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Drain the backlog in properly-bounded batches; a stop with a
			// full queue must not emit one oversized batch.
		drain:
			for {
				select {
				case evt := <-p.queue:
					batch = append(batch, evt)
					if len(batch) >= maxEvents {
						flush()
					}
				default:
					break drain
				}
			}
			flush()
			return
		case evt := <-p.queue:
			if len(batch) == 0 {
				resetTimer()
			}
			batch = append(batch, evt)
			if len(batch) >= maxEvents {
				resetTimer()
				flush()
			}
		case <-timer.C:
			flush()
			timer.Reset(maxDwell)
		}
	}
}

// runDestination sends each processed batch and updates stats. Events
// that made it out are credited to sent_events even when a later event in
// the same batch failed.
func (p *Pipeline) runDestination(ctx context.Context, in <-chan []wire.Event) {
	for batch := range in {
		sent, err := p.destination.Send(ctx, batch)
		p.stats.AddSentEvents(int64(sent))
		if err != nil {
			p.stats.IncFailedBatches()
			p.stats.RecordErr(err)
			continue
		}
		p.stats.IncSentBatches()
		p.stats.RecordOK(time.Now().UTC())
	}
}
