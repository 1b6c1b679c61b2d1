package types

import (
	"fmt"
	"time"
)

// QualityMetric identifies an intrinsic quality dimension of a task
type QualityMetric string

const (
	MetricCompleteness       QualityMetric = "completeness"
	MetricClarity            QualityMetric = "clarity"
	MetricDifficultyAccuracy QualityMetric = "difficulty_accuracy"
	MetricUniqueness         QualityMetric = "uniqueness"
	MetricFeasibility        QualityMetric = "feasibility"
)

// IsValid checks if the quality metric value is valid
func (m QualityMetric) IsValid() bool {
	switch m {
	case MetricCompleteness, MetricClarity, MetricDifficultyAccuracy,
		MetricUniqueness, MetricFeasibility:
		return true
	}
	return false
}

// QualityAssessment is the immutable result of assessing a single task
// version. Re-assessment appends a new record; prior records are audit
// evidence and are never updated in place.
type QualityAssessment struct {
	ID           string           `json:"id"`
	TaskID       string           `json:"task_id"`
	TaskVersion  int              `json:"task_version"`
	OverallScore float64          `json:"overall_score"`
	Validation   ValidationResult `json:"validation"`
	Scores       []QualityScore   `json:"scores"`
	AssessedAt   time.Time        `json:"assessed_at"`
}

// Validate checks if the assessment has valid field values
func (a *QualityAssessment) Validate() error {
	if a.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if a.TaskVersion < 1 {
		return fmt.Errorf("task_version must be positive (got %d)", a.TaskVersion)
	}
	if a.OverallScore < 0 || a.OverallScore > 100 {
		return fmt.Errorf("overall_score must be between 0 and 100 (got %.2f)", a.OverallScore)
	}
	for i, s := range a.Scores {
		if !s.Metric.IsValid() {
			return fmt.Errorf("scores[%d]: invalid metric %q", i, s.Metric)
		}
		if s.Score < 0 || s.Score > 100 {
			return fmt.Errorf("scores[%d]: score must be between 0 and 100 (got %.2f)", i, s.Score)
		}
		if s.Confidence < 0 || s.Confidence > 1 {
			return fmt.Errorf("scores[%d]: confidence must be between 0.0 and 1.0 (got %.2f)", i, s.Confidence)
		}
	}
	return nil
}

// QualityScore is the result of one metric calculator
type QualityScore struct {
	Metric          QualityMetric      `json:"metric"`
	Score           float64            `json:"score"` // 0-100
	SubScores       map[string]float64 `json:"sub_scores,omitempty"`
	Issues          []string           `json:"issues,omitempty"`
	Strengths       []string           `json:"strengths,omitempty"`
	Confidence      float64            `json:"confidence"` // 0.0-1.0
	Recommendations []string           `json:"recommendations,omitempty"`
}

// ValidationResult separates hard structural errors from soft warnings.
// Any entry in Errors forces the task back to draft regardless of score.
type ValidationResult struct {
	Errors   []ValidationIssue `json:"errors,omitempty"`
	Warnings []ValidationIssue `json:"warnings,omitempty"`
}

// HasErrors reports whether any hard validation error is present
func (v ValidationResult) HasErrors() bool {
	return len(v.Errors) > 0
}

// ValidationIssue describes a single structural problem with a task
type ValidationIssue struct {
	Code    ValidationCode `json:"code"`
	Field   string         `json:"field"`
	Message string         `json:"message"`
}

// ValidationCode categorizes structural validation findings
type ValidationCode string

const (
	CodeRequiredField ValidationCode = "REQUIRED_FIELD"
	CodeInvalidValue  ValidationCode = "INVALID_VALUE"
	CodeTooShort      ValidationCode = "TOO_SHORT"
	CodeTooLong       ValidationCode = "TOO_LONG"
)
