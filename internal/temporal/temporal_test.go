package temporal

import (
	"strings"
	"testing"
	"time"

	"github.com/taskbank/gatekeeper/internal/types"
)

func TestAssess(t *testing.T) {
	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		createdAt time.Time
		cutoff    *time.Time
		want      types.TemporalRisk
	}{
		{"created before cutoff", cutoff.AddDate(0, -3, 0), &cutoff, types.TemporalRisky},
		{"created on cutoff day", cutoff, &cutoff, types.TemporalRisky},
		{"created day after cutoff", cutoff.AddDate(0, 0, 1), &cutoff, types.TemporalCaution},
		{"created 29 days after", cutoff.AddDate(0, 0, 29), &cutoff, types.TemporalCaution},
		{"created 30 days after", cutoff.AddDate(0, 0, 30), &cutoff, types.TemporalSafe},
		{"created well after cutoff", cutoff.AddDate(1, 0, 0), &cutoff, types.TemporalSafe},
		{"unknown cutoff", cutoff, nil, types.TemporalCaution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, _ := Assess(tt.createdAt, tt.cutoff)
			if risk != tt.want {
				t.Errorf("Assess() = %s, want %s", risk, tt.want)
			}
		})
	}
}

func TestAssessUnknownCutoffNote(t *testing.T) {
	_, notes := Assess(time.Now(), nil)
	if !strings.Contains(notes, "verify") {
		t.Errorf("unknown cutoff note should point at the provider, got %q", notes)
	}
}

func TestParseCutoffTable(t *testing.T) {
	data := []byte(`
models:
  - id: example-model-1
    cutoff: 2024-12-31
  - id: example-model-2
    cutoff: 2025-06-01
`)
	table, err := ParseCutoffTable(data)
	if err != nil {
		t.Fatalf("ParseCutoffTable failed: %v", err)
	}
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2", table.Len())
	}

	cutoff := table.Lookup("example-model-2")
	if cutoff == nil {
		t.Fatal("known model should have a cutoff")
	}
	if !cutoff.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("cutoff = %v", cutoff)
	}

	if table.Lookup("never-heard-of-it") != nil {
		t.Error("unknown model must map to nil cutoff")
	}
}

func TestParseCutoffTableRejectsBadDates(t *testing.T) {
	if _, err := ParseCutoffTable([]byte("models:\n  - id: m\n    cutoff: someday\n")); err == nil {
		t.Error("expected error for unparseable date")
	}
	if _, err := ParseCutoffTable([]byte("models:\n  - cutoff: 2025-01-01\n")); err == nil {
		t.Error("expected error for missing model id")
	}
}

func TestAnalyzeUnknownModelIsCaution(t *testing.T) {
	task := &types.Task{CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}

	analysis := Analyze(task, "unlisted-model", nil)
	if analysis.Risk != types.TemporalCaution {
		t.Errorf("Risk = %s, want caution for unknown cutoff", analysis.Risk)
	}
	if analysis.TrainingCutoff != nil {
		t.Error("unknown model must record no cutoff")
	}
	if analysis.ModelID != "unlisted-model" {
		t.Errorf("ModelID = %s", analysis.ModelID)
	}
}
