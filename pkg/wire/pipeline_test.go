package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawOpts(t *testing.T, v any) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func validSpec(t *testing.T) PipelineSpec {
	return PipelineSpec{
		Source: SourceSpec{
			Kind:    SourceSyslogUDP,
			Options: rawOpts(t, SyslogUDPOptions{Host: "127.0.0.1", Port: 15514}),
		},
		Processor: ProcessorSpec{Mode: ProcessorRaw},
		Destination: DestinationSpec{
			Kind:    DestinationSyslogUDP,
			Options: rawOpts(t, SyslogUDPOptions{Host: "127.0.0.1", Port: 15515, PRI: 13, AppName: "observix"}),
		},
		BatchMaxEvents:  2,
		BatchMaxSeconds: 1.0,
	}
}

func TestPipelineSpecValidateOK(t *testing.T) {
	assert.NoError(t, validSpec(t).Validate())
}

func TestPipelineSpecValidateBatchMaxEvents(t *testing.T) {
	s := validSpec(t)
	s.BatchMaxEvents = 0
	err := s.Validate()
	require.Error(t, err)
	var specErr *SpecError
	assert.ErrorAs(t, err, &specErr)
	assert.Equal(t, "batch_max_events", specErr.Field)
}

func TestPipelineSpecValidateBatchMaxSeconds(t *testing.T) {
	s := validSpec(t)
	s.BatchMaxSeconds = 0
	assert.Error(t, s.Validate())
}

func TestPipelineSpecValidateUnknownSourceKind(t *testing.T) {
	s := validSpec(t)
	s.Source.Kind = "carrier_pigeon"
	assert.Error(t, s.Validate())
}

func TestPipelineSpecValidateIndexedRequiresIndexerURL(t *testing.T) {
	s := validSpec(t)
	s.Processor = ProcessorSpec{
		Mode:    ProcessorIndexed,
		Options: rawOpts(t, IndexedOptions{Profile: "json_auto"}),
	}
	assert.Error(t, s.Validate())
}

func TestIndexedOptionsFallbackDefaultsTrue(t *testing.T) {
	opts := IndexedOptions{}
	assert.True(t, opts.FallbackEnabled())
	f := false
	opts.FallbackToRaw = &f
	assert.False(t, opts.FallbackEnabled())
}

func TestIndexedOptionsEffectiveTimeoutDefault(t *testing.T) {
	assert.Equal(t, 3.0, IndexedOptions{}.EffectiveTimeout())
	assert.Equal(t, 1.5, IndexedOptions{TimeoutSeconds: 1.5}.EffectiveTimeout())
}
