package telemetry

import (
	"context"

	"github.com/petasbytes/sasa/internal/metrics"
)

// EmitRunStarted records the start of a run together with local text
// features of the task. The task text itself is not written.
func (s *Sink) EmitRunStarted(ctx context.Context, task, model string, maxIterations int) {
	if s == nil {
		return
	}
	runID, _ := RunIDFromContext(ctx)
	s.Emit("run_started", map[string]any{
		"run_id":           runID,
		"model":            model,
		"max_iterations":   maxIterations,
		"features_version": "1",
		"task":             metrics.CountFeatures(task).Map(),
	})
}
