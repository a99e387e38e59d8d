package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeRevisionStableUnderReorder(t *testing.T) {
	a := []PipelineRef{
		{PipelineID: "p1", Version: 1, Enabled: true},
		{PipelineID: "p2", Version: 3, Enabled: false},
	}
	b := []PipelineRef{
		{PipelineID: "p2", Version: 3, Enabled: false},
		{PipelineID: "p1", Version: 1, Enabled: true},
	}
	assert.Equal(t, ComputeRevision(a), ComputeRevision(b))
}

func TestComputeRevisionChangesOnVersionBump(t *testing.T) {
	before := []PipelineRef{{PipelineID: "p1", Version: 1, Enabled: true}}
	after := []PipelineRef{{PipelineID: "p1", Version: 2, Enabled: true}}
	assert.NotEqual(t, ComputeRevision(before), ComputeRevision(after))
}

func TestComputeRevisionChangesOnEnabledFlip(t *testing.T) {
	before := []PipelineRef{{PipelineID: "p1", Version: 1, Enabled: true}}
	after := []PipelineRef{{PipelineID: "p1", Version: 1, Enabled: false}}
	assert.NotEqual(t, ComputeRevision(before), ComputeRevision(after))
}

func TestComputeRevisionEmptySetIsStable(t *testing.T) {
	assert.Equal(t, ComputeRevision(nil), ComputeRevision([]PipelineRef{}))
}
