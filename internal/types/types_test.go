package types

import (
	"strings"
	"testing"
	"time"
)

func validTask() *Task {
	return &Task{
		ID:   "tb-1",
		Name: "Reverse a linked list",
		Content: TaskContent{
			Description:        "Classic pointer manipulation exercise",
			Prompt:             "Write a function that reverses a singly linked list in place.",
			ExpectedOutput:     "The list nodes in reverse order",
			Examples:           []string{"[1,2,3] -> [3,2,1]"},
			EvaluationCriteria: []string{"handles empty list", "O(1) extra space"},
		},
		Category:        "algorithms",
		DifficultyLevel: DifficultyMedium,
		TaskType:        "coding",
		Version:         1,
		Status:          StatusDraft,
		CreatedBy:       "alice",
		CreatedAt:       time.Now(),
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{"valid task", func(t *Task) {}, false},
		{"missing name", func(t *Task) { t.Name = "" }, true},
		{"name too long", func(t *Task) { t.Name = strings.Repeat("x", 501) }, true},
		{"zero version", func(t *Task) { t.Version = 0 }, true},
		{"invalid status", func(t *Task) { t.Status = "limbo" }, true},
		{"invalid difficulty", func(t *Task) { t.DifficultyLevel = "impossible" }, true},
		{"quality score out of range", func(t *Task) { s := 101.0; t.QualityScore = &s }, true},
		{"contamination score negative", func(t *Task) { s := -1.0; t.ContaminationScore = &s }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from   Status
		to     Status
		wantOK bool
	}{
		{StatusDraft, StatusReview, true},
		{StatusDraft, StatusPublished, true},
		{StatusReview, StatusDraft, true},
		{StatusApproved, StatusPublished, true},
		{StatusPublished, StatusDeprecated, true},
		{StatusDeprecated, StatusArchived, true},
		{StatusArchived, StatusDraft, false},
		{StatusDeprecated, StatusPublished, false},
		{StatusDraft, StatusDeprecated, false},
		{StatusReview, StatusDeprecated, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.wantOK {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.wantOK)
			}
		})
	}
}

func TestTerminalStates(t *testing.T) {
	if n := len(StatusArchived.ValidTransitions()); n != 0 {
		t.Errorf("archived should be terminal, got %d transitions", n)
	}
	if transitions := StatusDeprecated.ValidTransitions(); len(transitions) != 1 || transitions[0] != StatusArchived {
		t.Errorf("deprecated should only allow archival, got %v", transitions)
	}
}

func TestFullText(t *testing.T) {
	c := TaskContent{
		Prompt:      "Do the thing.",
		Constraints: []string{"", "in Go"},
	}
	got := c.FullText()
	if got != "Do the thing.\nin Go" {
		t.Errorf("FullText() = %q", got)
	}
}

func TestRiskLevelSeverityOrdering(t *testing.T) {
	order := []RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskCritical}
	for i := 1; i < len(order); i++ {
		if order[i].Severity() <= order[i-1].Severity() {
			t.Errorf("severity of %s should exceed %s", order[i], order[i-1])
		}
	}
}

func TestContaminationAnalysisValidate(t *testing.T) {
	a := &ContaminationAnalysis{
		TaskID:      "tb-1",
		TaskVersion: 1,
		OverallRisk: RiskLow,
	}
	if err := a.Validate(); err != nil {
		t.Errorf("valid analysis rejected: %v", err)
	}

	a.Similarity.OverallSimilarity = 1.5
	if err := a.Validate(); err == nil {
		t.Error("expected error for similarity > 1.0")
	}
}
