// Package wire holds the types shared by every Observix component: the
// event model, pipeline/agent/assignment records, and the machine-readable
// error envelope returned by the control plane and indexer.
package wire

import "time"

// Event is the unit of work flowing through an agent pipeline.
//
// Raw is always populated, even after normalization — the original line
// must survive a failed round trip through the indexer.
type Event struct {
	Raw        string         `json:"raw"`
	Timestamp  time.Time      `json:"ts"`
	SourceAddr string         `json:"source_addr,omitempty"`
	Meta       map[string]any `json:"meta,omitempty"`
}

// NewEvent constructs an Event with the receive timestamp filled in.
// Sources that cannot determine an event-level timestamp should use this
// constructor so Timestamp is never the zero value.
func NewEvent(raw string, sourceAddr string) Event {
	return Event{
		Raw:        raw,
		Timestamp:  time.Now().UTC(),
		SourceAddr: sourceAddr,
	}
}

// WithMeta returns a copy of the event with Meta set to meta, replacing any
// existing Meta. Used by the indexed processor to attach normalization
// output without losing Raw.
func (e Event) WithMeta(meta map[string]any) Event {
	e.Meta = meta
	return e
}
