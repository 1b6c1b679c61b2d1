package quality

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/types"
)

// Words that leave graders guessing what the author meant
var vagueTerms = []string{
	"etc", "various", "some", "appropriate", "reasonable",
	"stuff", "things", "good", "nice", "properly", "somehow",
}

// Verbs that open a well-formed instruction
var imperativeVerbs = []string{
	"write", "implement", "create", "build", "design", "solve",
	"compute", "find", "return", "explain", "describe", "analyze",
	"compare", "summarize", "translate", "sort", "count", "prove", "parse",
	"fix", "refactor", "optimize", "list", "identify", "determine",
}

// Criteria containing these read as checkable rather than subjective
var measurableMarkers = []string{
	"must", "exactly", "at least", "at most", "within", "equal",
	"matches", "passes", "correct", "all", "every", "no more than",
}

const longSentenceTokens = 40

// ClarityCalculator scores how unambiguous the prompt is: vague
// wording, run-on sentences, whether it opens with an instruction,
// and whether the evaluation criteria are checkable.
type ClarityCalculator struct{}

func (c *ClarityCalculator) Metric() types.QualityMetric {
	return types.MetricClarity
}

func (c *ClarityCalculator) Calculate(_ context.Context, task *types.Task, _ BankContext) (*types.QualityScore, error) {
	if task == nil {
		return nil, fmt.Errorf("task cannot be nil")
	}

	result := &types.QualityScore{
		Metric:     types.MetricClarity,
		SubScores:  make(map[string]float64),
		Confidence: 0.8, // heuristic signal, not a human read
	}

	prompt := task.Content.Prompt
	if strings.TrimSpace(prompt) == "" {
		result.Issues = append(result.Issues, "no prompt to evaluate")
		return result, nil
	}

	// Vague wording: 30 points, minus 10 per distinct vague term
	vague := countVagueTerms(prompt)
	vagueScore := 30.0 - float64(vague)*10
	if vagueScore < 0 {
		vagueScore = 0
	}
	result.SubScores["precise_wording"] = vagueScore
	if vague > 0 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("prompt contains %d vague term(s)", vague))
		result.Recommendations = append(result.Recommendations,
			"replace vague wording with specific requirements")
	}

	// Sentence length: 25 points, minus 10 per run-on sentence
	longSentences := countLongSentences(prompt)
	lengthScore := 25.0 - float64(longSentences)*10
	if lengthScore < 0 {
		lengthScore = 0
	}
	result.SubScores["sentence_length"] = lengthScore
	if longSentences > 0 {
		result.Issues = append(result.Issues,
			fmt.Sprintf("%d sentence(s) run over %d tokens", longSentences, longSentenceTokens))
		result.Recommendations = append(result.Recommendations,
			"break long sentences into shorter ones")
	}

	// Imperative opening: 20 points
	if startsWithImperative(prompt) {
		result.SubScores["imperative_opening"] = 20
		result.Strengths = append(result.Strengths, "prompt opens with a clear instruction")
	} else {
		result.SubScores["imperative_opening"] = 0
		result.Recommendations = append(result.Recommendations,
			"open the prompt with the instruction verb")
	}

	// Measurable criteria: 25 points, scaled by the checkable fraction.
	// No criteria at all is completeness's finding, scored 0 here too.
	measurable := measurableFraction(task.Content.EvaluationCriteria)
	result.SubScores["measurable_criteria"] = 25 * measurable
	if len(task.Content.EvaluationCriteria) > 0 && measurable < 1.0 {
		result.Issues = append(result.Issues, "some evaluation criteria are not checkable")
		result.Recommendations = append(result.Recommendations,
			"phrase criteria so a grader can verify them mechanically")
	}

	for _, s := range result.SubScores {
		result.Score += s
	}
	return result, nil
}

func countVagueTerms(prompt string) int {
	tokens := tokenSet(similarity.Tokenize(prompt))
	count := 0
	for _, term := range vagueTerms {
		if _, ok := tokens[term]; ok {
			count++
		}
	}
	return count
}

func countLongSentences(prompt string) int {
	count := 0
	for _, sentence := range strings.FieldsFunc(prompt, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if len(similarity.Tokenize(sentence)) > longSentenceTokens {
			count++
		}
	}
	return count
}

func startsWithImperative(prompt string) bool {
	tokens := similarity.Tokenize(prompt)
	if len(tokens) == 0 {
		return false
	}
	for _, verb := range imperativeVerbs {
		if tokens[0] == verb {
			return true
		}
	}
	return false
}

func measurableFraction(criteria []string) float64 {
	if len(criteria) == 0 {
		return 0
	}
	measurable := 0
	for _, criterion := range criteria {
		lower := strings.ToLower(criterion)
		for _, marker := range measurableMarkers {
			if strings.Contains(lower, marker) {
				measurable++
				break
			}
		}
	}
	return float64(measurable) / float64(len(criteria))
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
