// Package contamination folds the similarity, training-corpus, and
// temporal analyses into one risk verdict with recommendations.
package contamination

import (
	"fmt"

	"github.com/taskbank/gatekeeper/internal/types"
)

// Similarity contribution bands over the best-match similarity
const (
	simHighBand     = 0.8
	simModerateBand = 0.6
	simLowBand      = 0.4

	contribSimHigh     = 40
	contribSimModerate = 25
	contribSimLow      = 10
)

// Training-corpus risk is 0-100; it contributes at reduced weight
const trainingWeight = 0.4

// Temporal contributions
const (
	contribRisky   = 20
	contribCaution = 10
)

// Risk tier thresholds over the combined 0-100 score
const (
	tierCritical = 80
	tierHigh     = 60
	tierMedium   = 40
)

// Verdict is the aggregated contamination outcome
type Verdict struct {
	Risk            types.RiskLevel
	Score           float64 // 0-100
	Recommendations []string
}

// Aggregate combines the three analyses. Contributions are additive;
// an exact-match duplicate in the bank escalates straight to CRITICAL
// because a byte-identical task is disqualifying on its own, whatever
// the other signals say.
func Aggregate(sim types.SimilarityAnalysis, training types.TrainingDataAnalysis, temporal types.TemporalAnalysis) Verdict {
	score := similarityContribution(sim.OverallSimilarity) +
		training.RiskScore*trainingWeight +
		temporalContribution(temporal.Risk)
	if score > 100 {
		score = 100
	}

	risk := classify(score)
	if hasExactDuplicate(sim) && risk != types.RiskCritical {
		risk = types.RiskCritical
		score = 100
	}

	return Verdict{
		Risk:            risk,
		Score:           score,
		Recommendations: recommend(risk, sim, training, temporal),
	}
}

func similarityContribution(overall float64) float64 {
	switch {
	case overall > simHighBand:
		return contribSimHigh
	case overall > simModerateBand:
		return contribSimModerate
	case overall > simLowBand:
		return contribSimLow
	default:
		return 0
	}
}

func temporalContribution(risk types.TemporalRisk) float64 {
	switch risk {
	case types.TemporalRisky:
		return contribRisky
	case types.TemporalCaution:
		return contribCaution
	default:
		return 0
	}
}

func classify(score float64) types.RiskLevel {
	switch {
	case score >= tierCritical:
		return types.RiskCritical
	case score >= tierHigh:
		return types.RiskHigh
	case score >= tierMedium:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}

func hasExactDuplicate(sim types.SimilarityAnalysis) bool {
	for _, match := range sim.SimilarTasks {
		if match.SimilarityType == types.SimilarityExact {
			return true
		}
	}
	return false
}

func recommend(risk types.RiskLevel, sim types.SimilarityAnalysis, training types.TrainingDataAnalysis, temporal types.TemporalAnalysis) []string {
	var recs []string

	if hasExactDuplicate(sim) {
		recs = append(recs, "remove or merge: an existing task is effectively identical")
	} else if sim.OverallSimilarity > simHighBand {
		recs = append(recs, fmt.Sprintf(
			"rework the task: best match against the bank is %.2f", sim.OverallSimilarity))
	}
	if len(sim.Plagiarism) > 0 {
		recs = append(recs, "review the flagged text spans copied from existing tasks")
	}
	for _, overlap := range training.Overlaps {
		if overlap.OverlapType == types.OverlapExact {
			recs = append(recs, fmt.Sprintf(
				"task appears verbatim in the %s corpus; replace it", overlap.DatasetName))
		}
	}
	if len(training.PotentialLeaks) > 0 {
		recs = append(recs, "remove references to public benchmarks or code hosts from the task text")
	}
	switch temporal.Risk {
	case types.TemporalRisky:
		recs = append(recs, "task predates the model training cutoff; rewrite with fresh material")
	case types.TemporalCaution:
		if temporal.TrainingCutoff == nil {
			recs = append(recs, "confirm the model training cutoff with the provider")
		}
	}

	if len(recs) == 0 && risk == types.RiskLow {
		recs = append(recs, "no contamination concerns found")
	}
	return recs
}
