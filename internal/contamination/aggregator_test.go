package contamination

import (
	"testing"
	"time"

	"github.com/taskbank/gatekeeper/internal/types"
)

func TestAggregateAllClear(t *testing.T) {
	verdict := Aggregate(
		types.SimilarityAnalysis{OverallSimilarity: 0.1},
		types.TrainingDataAnalysis{},
		types.TemporalAnalysis{Risk: types.TemporalSafe},
	)
	if verdict.Risk != types.RiskLow {
		t.Errorf("Risk = %s, want low", verdict.Risk)
	}
	if verdict.Score != 0 {
		t.Errorf("Score = %v, want 0", verdict.Score)
	}
	if len(verdict.Recommendations) == 0 {
		t.Error("clean verdict should still say so")
	}
}

func TestAggregateExactDuplicateEscalates(t *testing.T) {
	// High similarity alone only reaches HIGH through the additive
	// bands; an exact duplicate must escalate to CRITICAL regardless.
	verdict := Aggregate(
		types.SimilarityAnalysis{
			OverallSimilarity: 1.0,
			SimilarTasks: []types.SimilarTask{
				{TaskID: "tb-1", Similarity: 1.0, SimilarityType: types.SimilarityExact},
			},
		},
		types.TrainingDataAnalysis{},
		types.TemporalAnalysis{Risk: types.TemporalSafe},
	)
	if verdict.Risk != types.RiskCritical {
		t.Errorf("Risk = %s, want critical for an exact duplicate", verdict.Risk)
	}
	if len(verdict.Recommendations) == 0 {
		t.Error("critical verdict needs recommendations")
	}
}

func TestAggregateTiers(t *testing.T) {
	cutoff := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		sim      float64
		training float64
		temporal types.TemporalRisk
		want     types.RiskLevel
	}{
		// 40 + 100*0.4 + 20 = 100
		{"everything on fire", 0.95, 100, types.TemporalRisky, types.RiskCritical},
		// 40 + 0 + 20 = 60
		{"high similarity and risky date", 0.85, 0, types.TemporalRisky, types.RiskHigh},
		// 25 + 50*0.4 + 0 = 45
		{"moderate similarity and training overlap", 0.7, 50, types.TemporalSafe, types.RiskMedium},
		// 10 + 0 + 10 = 20
		{"weak signals", 0.5, 0, types.TemporalCaution, types.RiskLow},
		// boundary: 40 + 25*0.4 + 10 = 60 exactly
		{"tier boundary high", 0.85, 25, types.TemporalCaution, types.RiskHigh},
		// boundary: 25 + 12.5*0.4 + 10 = 40 exactly
		{"tier boundary medium", 0.7, 12.5, types.TemporalCaution, types.RiskMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Aggregate(
				types.SimilarityAnalysis{OverallSimilarity: tt.sim},
				types.TrainingDataAnalysis{RiskScore: tt.training},
				types.TemporalAnalysis{Risk: tt.temporal, TrainingCutoff: &cutoff},
			)
			if verdict.Risk != tt.want {
				t.Errorf("Risk = %s (score %v), want %s", verdict.Risk, verdict.Score, tt.want)
			}
		})
	}
}

func TestAggregateMonotonic(t *testing.T) {
	// Raising any one contribution never lowers the risk level
	temporalLevels := []types.TemporalRisk{
		types.TemporalSafe, types.TemporalCaution, types.TemporalRisky,
	}
	simLevels := []float64{0.3, 0.5, 0.7, 0.9}
	trainingLevels := []float64{0, 30, 60, 100}

	for _, temporal := range temporalLevels {
		for _, training := range trainingLevels {
			prev := -1
			for _, sim := range simLevels {
				verdict := Aggregate(
					types.SimilarityAnalysis{OverallSimilarity: sim},
					types.TrainingDataAnalysis{RiskScore: training},
					types.TemporalAnalysis{Risk: temporal},
				)
				if sev := verdict.Risk.Severity(); sev < prev {
					t.Errorf("risk decreased as similarity rose (sim=%v training=%v temporal=%s)",
						sim, training, temporal)
				} else {
					prev = sev
				}
			}
		}
	}

	for _, sim := range simLevels {
		for _, temporal := range temporalLevels {
			prev := -1
			for _, training := range trainingLevels {
				verdict := Aggregate(
					types.SimilarityAnalysis{OverallSimilarity: sim},
					types.TrainingDataAnalysis{RiskScore: training},
					types.TemporalAnalysis{Risk: temporal},
				)
				if sev := verdict.Risk.Severity(); sev < prev {
					t.Errorf("risk decreased as training risk rose (sim=%v training=%v temporal=%s)",
						sim, training, temporal)
				} else {
					prev = sev
				}
			}
		}
	}
}

func TestRecommendationsNameTheProblem(t *testing.T) {
	verdict := Aggregate(
		types.SimilarityAnalysis{
			OverallSimilarity: 0.85,
			Plagiarism: []types.PlagiarismIndicator{
				{SourceTaskID: "tb-9", Confidence: 0.9},
			},
		},
		types.TrainingDataAnalysis{
			RiskScore: 55,
			Overlaps: []types.DatasetOverlap{
				{DatasetName: "public-set", OverlapType: types.OverlapExact, Score: 0.97},
			},
			PotentialLeaks: []types.PotentialLeak{
				{Pattern: "benchmark-name", Matched: "HumanEval", Confidence: 0.7},
			},
		},
		types.TemporalAnalysis{Risk: types.TemporalRisky},
	)

	if len(verdict.Recommendations) < 4 {
		t.Errorf("expected a recommendation per finding class, got %v", verdict.Recommendations)
	}
}
