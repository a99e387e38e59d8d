package wire

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// ComputeRevision hashes the sorted (pipeline_id, version, enabled) tuples
// assigned to an agent+region into an opaque, stable token. Two calls with
// the same set of refs (regardless of input order) produce the same
// Revision; any addition, removal, version bump, or enabled flip changes it.
func ComputeRevision(refs []PipelineRef) Revision {
	sorted := make([]PipelineRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PipelineID < sorted[j].PipelineID
	})

	h := sha256.New()
	for _, r := range sorted {
		fmt.Fprintf(h, "%s|%d|%t\n", r.PipelineID, r.Version, r.Enabled)
	}
	sum := h.Sum(nil)
	return Revision(hex.EncodeToString(sum[:16]))
}
