package quality

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/taskbank/gatekeeper/internal/types"
)

// Assessor runs structural validation and every registered calculator
// and folds the results into one assessment record.
type Assessor struct {
	registry *Registry
}

// NewAssessor creates an assessor over the given registry
func NewAssessor(registry *Registry) (*Assessor, error) {
	if registry == nil {
		return nil, fmt.Errorf("registry cannot be nil")
	}
	return &Assessor{registry: registry}, nil
}

// Assess scores the task on every registered metric. A failing
// calculator is logged and skipped; the overall score is the mean of
// the metrics that did complete, and the skip is recorded as a
// validation warning so the reduced coverage is visible.
//
// The returned record is immutable; re-assessment produces a new one.
func (a *Assessor) Assess(ctx context.Context, task *types.Task, bank BankContext) (*types.QualityAssessment, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	assessment := &types.QualityAssessment{
		ID:          uuid.NewString(),
		TaskID:      task.ID,
		TaskVersion: task.Version,
		Validation:  Validate(task),
		AssessedAt:  time.Now().UTC(),
	}

	var total float64
	for _, calc := range a.registry.List() {
		score, err := calc.Calculate(ctx, task, bank)
		if err != nil {
			log.Printf("[QUALITY] %s calculator failed for %s: %v", calc.Metric(), task.ID, err)
			assessment.Validation.Warnings = append(assessment.Validation.Warnings,
				types.ValidationIssue{
					Code:    types.CodeInvalidValue,
					Field:   string(calc.Metric()),
					Message: fmt.Sprintf("%s metric skipped: %v", calc.Metric(), err),
				})
			continue
		}
		assessment.Scores = append(assessment.Scores, *score)
		total += score.Score
	}

	if len(assessment.Scores) > 0 {
		assessment.OverallScore = total / float64(len(assessment.Scores))
	}
	return assessment, nil
}
