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

// HTTPBulkDestination POSTs a whole batch as newline-delimited JSON, for
// pipelines that forward into an HTTP-fronted sink rather than syslog.
type HTTPBulkDestination struct {
	opts   wire.HTTPBulkOptions
	client *http.Client
}

// NewHTTPBulkDestination constructs an http_bulk destination.
func NewHTTPBulkDestination(opts wire.HTTPBulkOptions) *HTTPBulkDestination {
	timeout := opts.TimeoutSeconds
	if timeout <= 0 {
		timeout = 3.0
	}
	return &HTTPBulkDestination{
		opts:   opts,
		client: &http.Client{Timeout: time.Duration(timeout * float64(time.Second))},
	}
}

func (d *HTTPBulkDestination) Dial(ctx context.Context) error { return nil }

func (d *HTTPBulkDestination) Close() error { return nil }

// Send posts the whole batch in one request; all events are delivered
// together or not at all.
func (d *HTTPBulkDestination) Send(ctx context.Context, events []wire.Event) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, evt := range events {
		if err := enc.Encode(evt); err != nil {
			return 0, fmt.Errorf("encode event for http_bulk destination: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.opts.URL, &buf)
	if err != nil {
		return 0, fmt.Errorf("build http_bulk request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send http_bulk batch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return 0, fmt.Errorf("http_bulk destination returned status %d", resp.StatusCode)
	}
	return len(events), nil
}
