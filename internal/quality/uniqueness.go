package quality

import (
	"context"
	"fmt"
	"log"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// UniquenessCalculator scores how much a task adds over what the bank
// already has: the inverse of its best similarity against existing
// tasks. An empty bank scores 100.
type UniquenessCalculator struct {
	engine *similarity.Engine
}

// NewUniquenessCalculator creates a uniqueness calculator backed by
// the given similarity engine
func NewUniquenessCalculator(engine *similarity.Engine) (*UniquenessCalculator, error) {
	if engine == nil {
		return nil, fmt.Errorf("similarity engine cannot be nil")
	}
	return &UniquenessCalculator{engine: engine}, nil
}

func (c *UniquenessCalculator) Metric() types.QualityMetric {
	return types.MetricUniqueness
}

func (c *UniquenessCalculator) Calculate(ctx context.Context, task *types.Task, bank BankContext) (*types.QualityScore, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	result := &types.QualityScore{
		Metric:     types.MetricUniqueness,
		SubScores:  make(map[string]float64),
		Confidence: 1.0,
	}

	var best float64
	var bestID string
	compared := 0
	for _, other := range bank.Existing {
		if other.ID == task.ID {
			continue
		}
		cmp, err := c.engine.Compare(ctx, task, other)
		if err != nil {
			log.Printf("[QUALITY] uniqueness comparison failed for %s vs %s: %v", task.ID, other.ID, err)
			continue
		}
		compared++
		if cmp.Confidence < result.Confidence {
			result.Confidence = cmp.Confidence
		}
		if cmp.Overall > best {
			best = cmp.Overall
			bestID = other.ID
		}
	}

	result.Score = (1 - best) * 100
	result.SubScores["best_similarity"] = best
	result.SubScores["tasks_compared"] = float64(compared)

	switch {
	case compared == 0:
		result.Strengths = append(result.Strengths, "no comparable tasks in the bank")
	case best >= 0.7:
		result.Issues = append(result.Issues,
			fmt.Sprintf("closely resembles existing task %s (similarity %.2f)", bestID, best))
		result.Recommendations = append(result.Recommendations,
			"differentiate the task from the existing near-match or retire one of them")
	case best < 0.3:
		result.Strengths = append(result.Strengths, "clearly distinct from the existing bank")
	}

	return result, nil
}
