package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/observix/observix/pkg/wire"
)

// normalizeRequest/normalizeDoc/normalizeResponse mirror pkg/indexer's wire
// shape. The agent deliberately does not import pkg/indexer: the two are
// separate deployables that share only the HTTP contract.
type normalizeRequest struct {
	Profile string   `json:"profile"`
	Raw     []string `json:"raw"`
}

type normalizeDoc struct {
	Raw  string         `json:"raw"`
	Meta map[string]any `json:"meta,omitempty"`
}

type normalizeResponse struct {
	Docs []normalizeDoc `json:"docs"`
}

// IndexedProcessor POSTs each batch to the indexer and substitutes the
// returned documents for the outgoing events. On any indexer error it
// applies fallback_to_raw.
type IndexedProcessor struct {
	opts   wire.IndexedOptions
	client *http.Client
}

// NewIndexedProcessor constructs a processor for processor.mode = "indexed".
func NewIndexedProcessor(opts wire.IndexedOptions) *IndexedProcessor {
	return &IndexedProcessor{
		opts:   opts,
		client: &http.Client{Timeout: time.Duration(opts.EffectiveTimeout() * float64(time.Second))},
	}
}

func (p *IndexedProcessor) Process(ctx context.Context, batch []wire.Event, stats *PipelineStats) []wire.Event {
	docs, err := p.normalize(ctx, batch)
	if err == nil && len(docs) != len(batch) {
		err = fmt.Errorf("indexer_malformed: got %d docs for %d events", len(docs), len(batch))
	}
	if err != nil {
		stats.IncFailedBatches()
		stats.RecordErr(err)
		if p.opts.FallbackEnabled() {
			return batch
		}
		return nil
	}

	out := make([]wire.Event, len(batch))
	for i, doc := range docs {
		evt := batch[i]
		evt.Raw = doc.Raw
		out[i] = evt.WithMeta(doc.Meta)
	}
	return out
}

func (p *IndexedProcessor) normalize(ctx context.Context, batch []wire.Event) ([]normalizeDoc, error) {
	raw := make([]string, len(batch))
	for i, evt := range batch {
		raw[i] = evt.Raw
	}

	body, err := json.Marshal(normalizeRequest{Profile: p.opts.Profile, Raw: raw})
	if err != nil {
		return nil, fmt.Errorf("encode normalize request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.IndexerURL+"/v1/normalize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build normalize request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("indexer_unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("indexer_malformed: unexpected status %d", resp.StatusCode)
	}

	var parsed normalizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("indexer_malformed: decode response: %w", err)
	}
	for _, doc := range parsed.Docs {
		if doc.Raw == "" {
			return nil, fmt.Errorf("indexer_malformed: doc missing raw field")
		}
	}
	return parsed.Docs, nil
}
