package wire

import (
	"encoding/json"
	"fmt"
)

// SourceKind enumerates the source types a PipelineSpec may declare.
type SourceKind string

const (
	SourceSyslogUDP SourceKind = "syslog_udp"
	SourceSyslogTCP SourceKind = "syslog_tcp"
)

// ProcessorMode enumerates the two processor modes a pipeline may run in.
type ProcessorMode string

const (
	ProcessorRaw     ProcessorMode = "raw"
	ProcessorIndexed ProcessorMode = "indexed"
)

// DestinationKind enumerates the destination types a PipelineSpec may declare.
type DestinationKind string

const (
	DestinationSyslogUDP DestinationKind = "syslog_udp"
	DestinationHTTPBulk  DestinationKind = "http_bulk"
)

// SourceSpec is a tagged-union description of a pipeline's source. Options
// is kept as a raw JSON blob and decoded into a typed struct on demand by
// the matching AsXxx accessor, so dynamic config blobs are validated lazily
// at the point of use.
type SourceSpec struct {
	Kind    SourceKind      `json:"kind" yaml:"kind"`
	Options json.RawMessage `json:"options" yaml:"options"`
}

// SyslogUDPOptions configures a syslog_udp source or destination.
type SyslogUDPOptions struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
	// PRI and AppName are destination-only framing fields.
	PRI     int    `json:"pri,omitempty" yaml:"pri,omitempty"`
	AppName string `json:"app_name,omitempty" yaml:"app_name,omitempty"`
}

// SyslogTCPOptions configures a syslog_tcp source (supplemented source kind).
type SyslogTCPOptions struct {
	Host string `json:"host" yaml:"host"`
	Port int    `json:"port" yaml:"port"`
}

// AsSyslogUDP decodes Options for a SourceSyslogUDP kind.
func (s SourceSpec) AsSyslogUDP() (SyslogUDPOptions, error) {
	var opts SyslogUDPOptions
	if s.Kind != SourceSyslogUDP {
		return opts, fmt.Errorf("source kind %q is not %q", s.Kind, SourceSyslogUDP)
	}
	if err := json.Unmarshal(s.Options, &opts); err != nil {
		return opts, fmt.Errorf("decode syslog_udp source options: %w", err)
	}
	return opts, nil
}

// AsSyslogTCP decodes Options for a SourceSyslogTCP kind.
func (s SourceSpec) AsSyslogTCP() (SyslogTCPOptions, error) {
	var opts SyslogTCPOptions
	if s.Kind != SourceSyslogTCP {
		return opts, fmt.Errorf("source kind %q is not %q", s.Kind, SourceSyslogTCP)
	}
	if err := json.Unmarshal(s.Options, &opts); err != nil {
		return opts, fmt.Errorf("decode syslog_tcp source options: %w", err)
	}
	return opts, nil
}

// Validate checks that the source kind is one Observix understands and
// that its options decode cleanly. Unknown kinds are invalid_spec.
func (s SourceSpec) Validate() error {
	switch s.Kind {
	case SourceSyslogUDP:
		_, err := s.AsSyslogUDP()
		return err
	case SourceSyslogTCP:
		_, err := s.AsSyslogTCP()
		return err
	default:
		return fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

// ProcessorSpec is a tagged-union description of a pipeline's processor.
type ProcessorSpec struct {
	Mode    ProcessorMode   `json:"mode" yaml:"mode"`
	Options json.RawMessage `json:"options,omitempty" yaml:"options,omitempty"`
}

// IndexedOptions configures the indexed processor mode.
type IndexedOptions struct {
	IndexerURL     string  `json:"indexer_url" yaml:"indexer_url"`
	Profile        string  `json:"profile" yaml:"profile"`
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
	// FallbackToRaw governs what happens to a batch when the indexer
	// errors: pass it through unnormalized (true, the default) or drop it.
	FallbackToRaw *bool `json:"fallback_to_raw,omitempty" yaml:"fallback_to_raw,omitempty"`
}

// FallbackEnabled returns the effective fallback_to_raw value (default true).
func (o IndexedOptions) FallbackEnabled() bool {
	if o.FallbackToRaw == nil {
		return true
	}
	return *o.FallbackToRaw
}

// EffectiveTimeout returns TimeoutSeconds, defaulting to 3s.
func (o IndexedOptions) EffectiveTimeout() float64 {
	if o.TimeoutSeconds <= 0 {
		return 3.0
	}
	return o.TimeoutSeconds
}

// AsIndexed decodes Options for an indexed-mode processor.
func (p ProcessorSpec) AsIndexed() (IndexedOptions, error) {
	var opts IndexedOptions
	if p.Mode != ProcessorIndexed {
		return opts, fmt.Errorf("processor mode %q is not %q", p.Mode, ProcessorIndexed)
	}
	if len(p.Options) == 0 {
		return opts, fmt.Errorf("indexed processor requires options")
	}
	if err := json.Unmarshal(p.Options, &opts); err != nil {
		return opts, fmt.Errorf("decode indexed processor options: %w", err)
	}
	if opts.IndexerURL == "" {
		return opts, fmt.Errorf("indexed processor requires indexer_url")
	}
	if opts.Profile == "" {
		return opts, fmt.Errorf("indexed processor requires profile")
	}
	return opts, nil
}

// Validate checks the processor mode and, for indexed mode, its options.
func (p ProcessorSpec) Validate() error {
	switch p.Mode {
	case ProcessorRaw:
		return nil
	case ProcessorIndexed:
		_, err := p.AsIndexed()
		return err
	default:
		return fmt.Errorf("unknown processor mode %q", p.Mode)
	}
}

// DestinationSpec is a tagged-union description of a pipeline's destination.
type DestinationSpec struct {
	Kind    DestinationKind `json:"kind" yaml:"kind"`
	Options json.RawMessage `json:"options" yaml:"options"`
}

// HTTPBulkOptions configures the http_bulk destination (supplemented kind).
type HTTPBulkOptions struct {
	URL            string  `json:"url" yaml:"url"`
	TimeoutSeconds float64 `json:"timeout_seconds,omitempty" yaml:"timeout_seconds,omitempty"`
}

// AsSyslogUDP decodes Options for a DestinationSyslogUDP kind.
func (d DestinationSpec) AsSyslogUDP() (SyslogUDPOptions, error) {
	var opts SyslogUDPOptions
	if d.Kind != DestinationSyslogUDP {
		return opts, fmt.Errorf("destination kind %q is not %q", d.Kind, DestinationSyslogUDP)
	}
	if err := json.Unmarshal(d.Options, &opts); err != nil {
		return opts, fmt.Errorf("decode syslog_udp destination options: %w", err)
	}
	return opts, nil
}

// AsHTTPBulk decodes Options for a DestinationHTTPBulk kind.
func (d DestinationSpec) AsHTTPBulk() (HTTPBulkOptions, error) {
	var opts HTTPBulkOptions
	if d.Kind != DestinationHTTPBulk {
		return opts, fmt.Errorf("destination kind %q is not %q", d.Kind, DestinationHTTPBulk)
	}
	if err := json.Unmarshal(d.Options, &opts); err != nil {
		return opts, fmt.Errorf("decode http_bulk destination options: %w", err)
	}
	if opts.URL == "" {
		return opts, fmt.Errorf("http_bulk destination requires url")
	}
	return opts, nil
}

// Validate checks that the destination kind is understood and its options decode.
func (d DestinationSpec) Validate() error {
	switch d.Kind {
	case DestinationSyslogUDP:
		_, err := d.AsSyslogUDP()
		return err
	case DestinationHTTPBulk:
		_, err := d.AsHTTPBulk()
		return err
	default:
		return fmt.Errorf("unknown destination kind %q", d.Kind)
	}
}

// PipelineSpec is the declarative description of one pipeline: its source,
// processor, destination, and batching bounds.
type PipelineSpec struct {
	Source          SourceSpec      `json:"source" yaml:"source"`
	Processor       ProcessorSpec   `json:"processor" yaml:"processor"`
	Destination     DestinationSpec `json:"destination" yaml:"destination"`
	BatchMaxEvents  int             `json:"batch_max_events" yaml:"batch_max_events"`
	BatchMaxSeconds float64         `json:"batch_max_seconds" yaml:"batch_max_seconds"`
}

// Validate enforces the PipelineSpec invariants. It is called by the
// control plane on create/update; the agent does not call it and relies on
// the AsXxx accessors when it builds a pipeline from an assignment view.
func (s PipelineSpec) Validate() error {
	if s.BatchMaxEvents < 1 {
		return NewSpecError("batch_max_events", fmt.Errorf("must be >= 1, got %d", s.BatchMaxEvents))
	}
	if s.BatchMaxSeconds <= 0 {
		return NewSpecError("batch_max_seconds", fmt.Errorf("must be > 0, got %v", s.BatchMaxSeconds))
	}
	if err := s.Source.Validate(); err != nil {
		return NewSpecError("source", err)
	}
	if err := s.Processor.Validate(); err != nil {
		return NewSpecError("processor", err)
	}
	if err := s.Destination.Validate(); err != nil {
		return NewSpecError("destination", err)
	}
	return nil
}
