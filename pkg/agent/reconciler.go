package agent

import "github.com/observix/observix/pkg/wire"

// reconcilePlan is the three sets computed by diffing an AssignmentView
// against the currently running pipelines.
type reconcilePlan struct {
	additions []wire.PipelineRef
	removals  []string
	mutations []wire.PipelineRef
}

// planReconcile computes additions (present, not running, enabled),
// removals (running, not present OR present-but-disabled), and mutations
// (present and running but version differs). running maps pipeline_id to
// the version currently executing.
func planReconcile(desired []wire.PipelineRef, running map[string]int) reconcilePlan {
	var plan reconcilePlan

	present := make(map[string]wire.PipelineRef, len(desired))
	for _, ref := range desired {
		present[ref.PipelineID] = ref
	}

	for id := range running {
		ref, ok := present[id]
		if !ok || !ref.Enabled {
			plan.removals = append(plan.removals, id)
		}
	}

	for id, ref := range present {
		if !ref.Enabled {
			continue
		}
		runningVersion, ok := running[id]
		if !ok {
			plan.additions = append(plan.additions, ref)
			continue
		}
		if runningVersion != ref.Version {
			plan.mutations = append(plan.mutations, ref)
		}
	}

	return plan
}
