package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Text markers that correlate with harder tasks
var complexityMarkers = []string{
	"optimize", "optimal", "concurrent", "concurrency", "distributed",
	"prove", "proof", "complexity", "np-hard", "np-complete",
	"amortized", "invariant", "thread-safe", "deadlock",
	"race condition", "asymptotic", "logarithmic",
	"dynamic programming", "backtracking", "heuristic", "tradeoff",
}

// DifficultyAccuracyCalculator compares the declared difficulty level
// with complexity indicators derived from the task text. A mismatch of
// one level is a warning; two or more levels costs most of the score.
type DifficultyAccuracyCalculator struct{}

func (c *DifficultyAccuracyCalculator) Metric() types.QualityMetric {
	return types.MetricDifficultyAccuracy
}

func (c *DifficultyAccuracyCalculator) Calculate(_ context.Context, task *types.Task, _ BankContext) (*types.QualityScore, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	declared := difficultyRank(task.DifficultyLevel)
	if declared < 0 {
		return nil, fmt.Errorf("unknown difficulty level: %s", task.DifficultyLevel)
	}

	estimated, indicators := estimateDifficulty(task)
	gap := declared - estimated
	if gap < 0 {
		gap = -gap
	}

	result := &types.QualityScore{
		Metric: types.MetricDifficultyAccuracy,
		SubScores: map[string]float64{
			"declared_rank":  float64(declared),
			"estimated_rank": float64(estimated),
		},
		Score:      100 - float64(gap)*30,
		Confidence: 0.7, // text heuristics only approximate real difficulty
	}
	if result.Score < 0 {
		result.Score = 0
	}

	switch {
	case gap == 0:
		result.Strengths = append(result.Strengths,
			fmt.Sprintf("declared difficulty %s matches the text indicators", task.DifficultyLevel))
	case gap == 1:
		result.Issues = append(result.Issues,
			fmt.Sprintf("declared %s but text indicators suggest %s", task.DifficultyLevel, rankName(estimated)))
	default:
		result.Issues = append(result.Issues,
			fmt.Sprintf("declared %s but text indicators strongly suggest %s (%s)",
				task.DifficultyLevel, rankName(estimated), strings.Join(indicators, ", ")))
		result.Recommendations = append(result.Recommendations,
			"re-check the difficulty level against the task content")
	}

	return result, nil
}

func difficultyRank(d types.Difficulty) int {
	switch d {
	case types.DifficultyEasy:
		return 0
	case types.DifficultyMedium:
		return 1
	case types.DifficultyHard:
		return 2
	case types.DifficultyExpert:
		return 3
	default:
		return -1
	}
}

func rankName(rank int) types.Difficulty {
	switch rank {
	case 0:
		return types.DifficultyEasy
	case 1:
		return types.DifficultyMedium
	case 2:
		return types.DifficultyHard
	default:
		return types.DifficultyExpert
	}
}

// estimateDifficulty derives a 0-3 rank from text volume, constraint
// count, and complexity vocabulary. Returns the matched indicators for
// the report.
func estimateDifficulty(task *types.Task) (int, []string) {
	text := strings.ToLower(task.Content.FullText())

	var indicators []string
	for _, marker := range complexityMarkers {
		if strings.Contains(text, marker) {
			indicators = append(indicators, marker)
		}
	}

	points := 0
	if len(similarity.Tokenize(task.Content.Prompt)) > 60 {
		points++
	}
	if len(task.Content.Constraints) >= 3 {
		points++
	}
	switch {
	case len(indicators) >= 3:
		points += 2
	case len(indicators) >= 1:
		points++
	}

	if points > 3 {
		points = 3
	}
	return points, indicators
}
