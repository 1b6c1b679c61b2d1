package types

import (
	"fmt"
	"strings"
	"time"
)

// Task represents a candidate benchmark task in the test bank.
// A task owns its content; assessments and analyses reference it by
// (ID, Version) and never copy content beyond what they need to
// explain a verdict.
type Task struct {
	ID                 string       `json:"id"`
	Name               string       `json:"name"`
	Content            TaskContent  `json:"content"`
	Category           string       `json:"category"`
	DifficultyLevel    Difficulty   `json:"difficulty_level"`
	TaskType           string       `json:"task_type"`
	Tags               []string     `json:"tags,omitempty"`
	Domain             string       `json:"domain,omitempty"`
	Language           string       `json:"language,omitempty"`
	Version            int          `json:"version"`
	Status             Status       `json:"status"`
	QualityScore       *float64     `json:"quality_score,omitempty"`
	ContaminationScore *float64     `json:"contamination_score,omitempty"`
	CreatedBy          string       `json:"created_by"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// TaskContent holds the free-text body of a task.
type TaskContent struct {
	Description        string   `json:"description,omitempty"`
	Prompt             string   `json:"prompt"`
	Constraints        []string `json:"constraints,omitempty"`
	Examples           []string `json:"examples,omitempty"`
	ExpectedOutput     string   `json:"expected_output,omitempty"`
	EvaluationCriteria []string `json:"evaluation_criteria,omitempty"`
}

// FullText returns the concatenated free text of the task content.
// This is the text that similarity and overlap analysis operate on.
func (c TaskContent) FullText() string {
	parts := []string{c.Description, c.Prompt}
	parts = append(parts, c.Constraints...)
	parts = append(parts, c.Examples...)
	if c.ExpectedOutput != "" {
		parts = append(parts, c.ExpectedOutput)
	}
	parts = append(parts, c.EvaluationCriteria...)

	var nonEmpty []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// Validate checks if the task has valid field values.
// Structural completeness (missing prompt, missing examples, etc.) is
// the quality validator's job; this only rejects records the storage
// layer should never accept.
func (t *Task) Validate() error {
	if len(t.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(t.Name) > 500 {
		return fmt.Errorf("name must be 500 characters or less (got %d)", len(t.Name))
	}
	if t.Version < 1 {
		return fmt.Errorf("version must be positive (got %d)", t.Version)
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if !t.DifficultyLevel.IsValid() {
		return fmt.Errorf("invalid difficulty level: %s", t.DifficultyLevel)
	}
	if t.QualityScore != nil && (*t.QualityScore < 0 || *t.QualityScore > 100) {
		return fmt.Errorf("quality_score must be between 0 and 100 (got %.2f)", *t.QualityScore)
	}
	if t.ContaminationScore != nil && (*t.ContaminationScore < 0 || *t.ContaminationScore > 100) {
		return fmt.Errorf("contamination_score must be between 0 and 100 (got %.2f)", *t.ContaminationScore)
	}
	return nil
}

// Status represents the publication lifecycle state of a task
type Status string

const (
	StatusDraft      Status = "draft"
	StatusReview     Status = "review"
	StatusApproved   Status = "approved"
	StatusPublished  Status = "published"
	StatusDeprecated Status = "deprecated"
	StatusArchived   Status = "archived"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusReview, StatusApproved, StatusPublished,
		StatusDeprecated, StatusArchived:
		return true
	}
	return false
}

// ValidTransitions defines the valid transitions for the publication
// lifecycle. The gate only ever moves tasks between draft, review,
// approved, and published; deprecated and archived are reached by
// explicit curator action and are terminal.
//
//	draft ⇄ review ⇄ approved ⇄ published
//	published → deprecated → archived
func (s Status) ValidTransitions() []Status {
	switch s {
	case StatusDraft:
		return []Status{StatusReview, StatusApproved, StatusPublished, StatusArchived}
	case StatusReview:
		return []Status{StatusDraft, StatusApproved, StatusPublished, StatusArchived}
	case StatusApproved:
		return []Status{StatusDraft, StatusReview, StatusPublished, StatusArchived}
	case StatusPublished:
		return []Status{StatusDraft, StatusReview, StatusDeprecated, StatusArchived}
	case StatusDeprecated:
		return []Status{StatusArchived}
	case StatusArchived:
		return []Status{} // Terminal state
	default:
		return []Status{}
	}
}

// CanTransitionTo checks if a transition from this status to the target is valid
func (s Status) CanTransitionTo(target Status) bool {
	for _, valid := range s.ValidTransitions() {
		if valid == target {
			return true
		}
	}
	return false
}

// Difficulty categorizes how hard a task is expected to be
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// IsValid checks if the difficulty value is valid
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// TaskFilter is used to filter task queries
type TaskFilter struct {
	Status     *Status
	Category   *string
	TaskType   *string
	Difficulty *Difficulty
	Limit      int
}
