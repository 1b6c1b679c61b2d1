package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Prompt length bounds in tokens. Below the floor there is not enough
// to solve; above the ceiling the task is probably several tasks.
const (
	promptMinTokens = 5
	promptMaxTokens = 2000

	maxConstraints = 12
)

// FeasibilityCalculator checks that the task can actually be solved
// and graded as written: a workable prompt size, a sane number of
// constraints, no directly contradictory constraints, and an output a
// grader can compare against.
type FeasibilityCalculator struct{}

func (c *FeasibilityCalculator) Metric() types.QualityMetric {
	return types.MetricFeasibility
}

func (c *FeasibilityCalculator) Calculate(_ context.Context, task *types.Task, _ BankContext) (*types.QualityScore, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	result := &types.QualityScore{
		Metric:     types.MetricFeasibility,
		SubScores:  make(map[string]float64),
		Confidence: 0.8,
	}

	// Prompt size: 35 points
	promptTokens := len(similarity.Tokenize(task.Content.Prompt))
	switch {
	case promptTokens < promptMinTokens:
		result.SubScores["prompt_size"] = 0
		result.Issues = append(result.Issues,
			fmt.Sprintf("prompt has only %d token(s); not enough to solve from", promptTokens))
	case promptTokens > promptMaxTokens:
		result.SubScores["prompt_size"] = 10
		result.Issues = append(result.Issues,
			fmt.Sprintf("prompt runs to %d tokens; likely several tasks in one", promptTokens))
		result.Recommendations = append(result.Recommendations,
			"split the prompt into separate tasks")
	default:
		result.SubScores["prompt_size"] = 35
	}

	// Constraint volume: 20 points
	if n := len(task.Content.Constraints); n > maxConstraints {
		result.SubScores["constraint_volume"] = 5
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d constraints; unlikely all can be satisfied at once", n))
	} else {
		result.SubScores["constraint_volume"] = 20
	}

	// Contradictions: 25 points, zero on any detected pair
	if pair := findContradiction(task.Content.Constraints); pair != "" {
		result.SubScores["consistency"] = 0
		result.Issues = append(result.Issues, "contradictory constraints: "+pair)
		result.Recommendations = append(result.Recommendations,
			"resolve the contradiction between the flagged constraints")
	} else {
		result.SubScores["consistency"] = 25
	}

	// Gradability: 20 points when there is something to grade against
	if strings.TrimSpace(task.Content.ExpectedOutput) != "" ||
		len(task.Content.EvaluationCriteria) > 0 {
		result.SubScores["gradable"] = 20
	} else {
		result.SubScores["gradable"] = 0
		result.Issues = append(result.Issues, "nothing to grade against")
		result.Recommendations = append(result.Recommendations,
			"add an expected output or at least one evaluation criterion")
	}

	for _, s := range result.SubScores {
		result.Score += s
	}
	if len(result.Issues) == 0 {
		result.Strengths = append(result.Strengths, "task is solvable and gradable as written")
	}
	return result, nil
}

// findContradiction flags constraint pairs where one forbids what
// another requires: a "must"/"do not" pair sharing content words.
// Returns the pair for the report, or empty.
func findContradiction(constraints []string) string {
	type parsed struct {
		raw      string
		negated  bool
		keywords map[string]struct{}
	}

	items := make([]parsed, 0, len(constraints))
	for _, raw := range constraints {
		lower := strings.ToLower(raw)
		negated := strings.Contains(lower, "do not") ||
			strings.Contains(lower, "don't") ||
			strings.Contains(lower, "must not") ||
			strings.Contains(lower, "never") ||
			strings.Contains(lower, "without")
		keywords := make(map[string]struct{})
		for _, token := range similarity.Tokenize(lower) {
			if len(token) >= 4 && !isStopword(token) {
				keywords[token] = struct{}{}
			}
		}
		items = append(items, parsed{raw: raw, negated: negated, keywords: keywords})
	}

	for i := 0; i < len(items); i++ {
		for j := i + 1; j < len(items); j++ {
			if items[i].negated == items[j].negated {
				continue
			}
			shared := 0
			for k := range items[i].keywords {
				if _, ok := items[j].keywords[k]; ok {
					shared++
				}
			}
			if shared >= 2 {
				return fmt.Sprintf("%q vs %q", items[i].raw, items[j].raw)
			}
		}
	}
	return ""
}

var stopwords = map[string]struct{}{
	"must": {}, "not": {}, "never": {}, "without": {}, "dont": {},
	"should": {}, "with": {}, "that": {}, "this": {}, "your": {},
	"have": {}, "only": {}, "from": {}, "into": {}, "when": {},
}

func isStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}
