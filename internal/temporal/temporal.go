// Package temporal classifies contamination risk from the relationship
// between a task's creation date and a model's training data cutoff.
package temporal

import (
	"fmt"
	"time"

	"github.com/taskbank/gatekeeper/internal/types"
)

// Tasks created within this margin after a cutoff still get CAUTION:
// cutoff dates published by providers are approximate.
const cutoffMargin = 30 * 24 * time.Hour

// Assess is a pure function of the two dates.
//
// An unknown cutoff is never treated as safe: without a date the only
// honest verdict is CAUTION.
func Assess(createdAt time.Time, cutoff *time.Time) (types.TemporalRisk, string) {
	if cutoff == nil {
		return types.TemporalCaution, "training cutoff unknown; verify with the model provider"
	}

	switch {
	case !createdAt.After(*cutoff):
		return types.TemporalRisky, fmt.Sprintf(
			"task created %s, on or before the training cutoff %s; content may be in the training data",
			createdAt.Format("2006-01-02"), cutoff.Format("2006-01-02"))
	case createdAt.Before(cutoff.Add(cutoffMargin)):
		return types.TemporalCaution, fmt.Sprintf(
			"task created %s, within 30 days after the training cutoff %s; cutoff dates are approximate",
			createdAt.Format("2006-01-02"), cutoff.Format("2006-01-02"))
	default:
		return types.TemporalSafe, ""
	}
}

// Analyze evaluates a task against the cutoff for the given model and
// returns the full record. A nil table behaves like an empty one.
func Analyze(task *types.Task, modelID string, table *CutoffTable) types.TemporalAnalysis {
	var cutoff *time.Time
	if table != nil {
		cutoff = table.Lookup(modelID)
	}

	risk, notes := Assess(task.CreatedAt, cutoff)
	return types.TemporalAnalysis{
		TaskCreatedAt:  task.CreatedAt,
		TrainingCutoff: cutoff,
		ModelID:        modelID,
		Risk:           risk,
		Notes:          notes,
	}
}
