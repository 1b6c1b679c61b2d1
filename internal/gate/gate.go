// Package gate decides a task's publication status from its quality
// score, contamination risk, and structural validation. Decide is a
// pure function; it never performs the transition itself.
package gate

import (
	"fmt"

	"github.com/taskbank/gatekeeper/internal/types"
)

// Quality thresholds over the 0-100 overall score
const (
	qualityReviewFloor  = 50
	qualityPublishFloor = 70
)

// Decide maps the screening verdicts to a status.
//
//	validation errors        -> DRAFT (cannot progress)
//	contamination CRITICAL   -> DRAFT regardless of quality
//	quality < 50 OR HIGH     -> REVIEW (human must intervene)
//	quality < 70 OR MEDIUM   -> APPROVED (publishable but flagged)
//	otherwise                -> PUBLISHED
//
// DEPRECATED and ARCHIVED are never gate outcomes; they are reached
// only through Transition by explicit curator action.
func Decide(quality float64, risk types.RiskLevel, validation types.ValidationResult) types.Status {
	if validation.HasErrors() {
		return types.StatusDraft
	}
	if risk == types.RiskCritical {
		return types.StatusDraft
	}
	if quality < qualityReviewFloor || risk == types.RiskHigh {
		return types.StatusReview
	}
	if quality < qualityPublishFloor || risk == types.RiskMedium {
		return types.StatusApproved
	}
	return types.StatusPublished
}

// Transition validates an explicit status change requested from
// outside the gate, such as deprecating a published task. The target
// must be reachable from the current status; publishing additionally
// requires both scores to be present.
func Transition(task *types.Task, target types.Status) error {
	if task == nil {
		return fmt.Errorf("task cannot be nil")
	}
	if !target.IsValid() {
		return fmt.Errorf("invalid status: %s", target)
	}
	if !task.Status.CanTransitionTo(target) {
		return fmt.Errorf("cannot transition from %s to %s", task.Status, target)
	}
	if target == types.StatusPublished {
		if task.QualityScore == nil || task.ContaminationScore == nil {
			return fmt.Errorf("cannot publish %s: task has not been fully screened", task.ID)
		}
	}
	return nil
}
