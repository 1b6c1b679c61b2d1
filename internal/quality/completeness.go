package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskbank/gatekeeper/internal/types"
)

// Completeness check weights. Seven checks summing to 100; the prompt
// carries the largest share, so a missing prompt alone caps the metric
// at 75.
const (
	weightName       = 10
	weightDesc       = 15
	weightPrompt     = 25
	weightExpected   = 15
	weightCriteria   = 15
	weightExamples   = 10
	weightConstraint = 10
)

// CompletenessCalculator checks that every content field a grader
// would need is actually filled in. Constraints are optional; the
// check only fails on blank entries in a non-empty list.
type CompletenessCalculator struct{}

func (c *CompletenessCalculator) Metric() types.QualityMetric {
	return types.MetricCompleteness
}

func (c *CompletenessCalculator) Calculate(_ context.Context, task *types.Task, _ BankContext) (*types.QualityScore, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	result := &types.QualityScore{
		Metric:     types.MetricCompleteness,
		SubScores:  make(map[string]float64),
		Confidence: 1.0,
	}

	check := func(name string, weight float64, ok bool, issue, recommendation string) {
		if ok {
			result.SubScores[name] = weight
			result.Score += weight
			return
		}
		result.SubScores[name] = 0
		result.Issues = append(result.Issues, issue)
		if recommendation != "" {
			result.Recommendations = append(result.Recommendations, recommendation)
		}
	}

	content := task.Content
	check("name", weightName,
		strings.TrimSpace(task.Name) != "",
		"task has no name", "give the task a descriptive name")
	check("description", weightDesc,
		strings.TrimSpace(content.Description) != "",
		"task has no description", "add a description of what the task tests")
	check("prompt", weightPrompt,
		strings.TrimSpace(content.Prompt) != "",
		"task has no prompt", "write the prompt the model will be given")
	check("expected_output", weightExpected,
		strings.TrimSpace(content.ExpectedOutput) != "",
		"no expected output", "describe the expected output so results can be graded")
	check("evaluation_criteria", weightCriteria,
		len(content.EvaluationCriteria) > 0 && allNonBlank(content.EvaluationCriteria),
		"no evaluation criteria", "add at least one evaluation criterion")
	check("examples", weightExamples,
		len(content.Examples) > 0 && allNonBlank(content.Examples),
		"no examples", "add at least one worked example")
	check("constraints", weightConstraint,
		allNonBlank(content.Constraints),
		"blank constraint entries", "remove or fill in empty constraints")

	if len(result.Issues) == 0 {
		result.Strengths = append(result.Strengths, "all content fields are present")
	}
	return result, nil
}

// allNonBlank is vacuously true for an empty list
func allNonBlank(items []string) bool {
	for _, item := range items {
		if strings.TrimSpace(item) == "" {
			return false
		}
	}
	return true
}
