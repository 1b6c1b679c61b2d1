package screening

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/taskbank/gatekeeper/internal/contamination"
	"github.com/taskbank/gatekeeper/internal/corpus"
	"github.com/taskbank/gatekeeper/internal/duplication"
	"github.com/taskbank/gatekeeper/internal/embedding"
	"github.com/taskbank/gatekeeper/internal/events"
	"github.com/taskbank/gatekeeper/internal/quality"
	"github.com/taskbank/gatekeeper/internal/similarity"
	"github.com/taskbank/gatekeeper/internal/storage"
	"github.com/taskbank/gatekeeper/internal/types"
)

// testEngine wires a full engine over an in-memory store with no
// embedder: every comparison runs degraded on lexical+structural.
func testEngine(t *testing.T) (*Engine, storage.Storage, *events.MemorySink) {
	t.Helper()

	store, err := storage.New(context.Background(), &storage.Config{Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sim := similarity.NewEngine(nil)

	uniq, err := quality.NewUniquenessCalculator(sim)
	require.NoError(t, err)
	registry, err := quality.DefaultRegistry(uniq)
	require.NoError(t, err)
	assessor, err := quality.NewAssessor(registry)
	require.NoError(t, err)

	detector, err := duplication.NewDetector(sim, nil, duplication.DefaultConfig())
	require.NoError(t, err)

	checker, err := corpus.NewChecker(&corpus.Catalog{}, nil)
	require.NoError(t, err)

	sink := &events.MemorySink{}
	engine, err := New(store, sim, assessor, detector, checker, nil, sink, DefaultOptions())
	require.NoError(t, err)
	return engine, store, sink
}

func screenTask(id string) *types.Task {
	return &types.Task{
		ID:   id,
		Name: "Sum two integers",
		Content: types.TaskContent{
			Description:        "Tests basic arithmetic and function definition.",
			Prompt:             "Write a function that returns the sum of two integers given as arguments.",
			Examples:           []string{"sum(2, 3) == 5"},
			ExpectedOutput:     "A function returning the integer sum of its two arguments.",
			EvaluationCriteria: []string{"output must equal the arithmetic sum for all test pairs"},
		},
		Category:        "algorithms",
		DifficultyLevel: types.DifficultyEasy,
		TaskType:        "coding",
		Tags:            []string{"math"},
		Version:         1,
		Status:          types.StatusDraft,
		CreatedBy:       "tester",
	}
}

func TestScreenCleanTaskPublishes(t *testing.T) {
	engine, store, sink := testEngine(t)
	ctx := context.Background()

	task := screenTask("tb-1")
	require.NoError(t, store.CreateTask(ctx, task))

	result, err := engine.Screen(ctx, "tb-1")
	require.NoError(t, err)

	require.Equal(t, types.StatusPublished, result.Status)
	require.Equal(t, types.RiskLow, result.Analysis.OverallRisk)
	require.GreaterOrEqual(t, result.Assessment.OverallScore, 70.0)

	// Scores land on the task row
	updated, err := store.GetTask(ctx, "tb-1")
	require.NoError(t, err)
	require.NotNil(t, updated.QualityScore)
	require.NotNil(t, updated.ContaminationScore)
	require.Equal(t, types.StatusPublished, updated.Status)

	// Events for assessment, analysis, and the status change
	kinds := make(map[events.EventType]int)
	for _, event := range sink.Events() {
		kinds[event.Type]++
	}
	require.Equal(t, 1, kinds[events.EventTypeQualityAssessed])
	require.Equal(t, 1, kinds[events.EventTypeContaminationAnalyzed])
	require.Equal(t, 1, kinds[events.EventTypeStatusChanged])
}

func TestScreenExactDuplicateForcedToDraft(t *testing.T) {
	engine, store, _ := testEngine(t)
	ctx := context.Background()

	original := screenTask("tb-1")
	require.NoError(t, store.CreateTask(ctx, original))

	duplicate := screenTask("tb-2")
	require.NoError(t, store.CreateTask(ctx, duplicate))

	result, err := engine.Screen(ctx, "tb-2")
	require.NoError(t, err)

	require.Equal(t, 1.0, result.Analysis.Similarity.OverallSimilarity)
	require.Equal(t, types.SimilarityExact, result.Analysis.Similarity.SimilarTasks[0].SimilarityType)
	require.Equal(t, types.RiskCritical, result.Analysis.OverallRisk)
	require.Equal(t, types.StatusDraft, result.Status)
}

func TestAnalyzeTracksBestMatchBelowReportThreshold(t *testing.T) {
	engine, store, _ := testEngine(t)
	ctx := context.Background()

	existing := screenTask("tb-1")
	existing.Content.Prompt = "implement a parser that reads comma separated values and returns structured records for each input line using the standard library"
	require.NoError(t, store.CreateTask(ctx, existing))

	candidate := screenTask("tb-2")
	candidate.Content.Prompt = "write a parser which reads comma delimited values and gives structured rows for every input line using the standard library"
	require.NoError(t, store.CreateTask(ctx, candidate))

	analysis, err := engine.AnalyzeContamination(ctx, "tb-2")
	require.NoError(t, err)

	// The best match sits between the aggregator's lowest risk band
	// (0.4) and the default report threshold (0.5): it must feed the
	// risk arithmetic even though nothing is listed as a SimilarTask.
	require.Greater(t, analysis.Similarity.OverallSimilarity, 0.4)
	require.Less(t, analysis.Similarity.OverallSimilarity, 0.5)
	require.Empty(t, analysis.Similarity.SimilarTasks)

	verdict := contamination.Aggregate(analysis.Similarity, analysis.TrainingData, analysis.Temporal)
	require.GreaterOrEqual(t, verdict.Score, 10.0)
}

func TestScreenInvalidTaskForcedToDraft(t *testing.T) {
	engine, store, _ := testEngine(t)
	ctx := context.Background()

	task := screenTask("tb-1")
	task.Content.Prompt = ""
	require.NoError(t, store.CreateTask(ctx, task))

	result, err := engine.Screen(ctx, "tb-1")
	require.NoError(t, err)
	require.True(t, result.Assessment.Validation.HasErrors())
	require.Equal(t, types.StatusDraft, result.Status)
}

func TestDecideStatusRejectsStaleVerdicts(t *testing.T) {
	engine, store, _ := testEngine(t)
	ctx := context.Background()

	task := screenTask("tb-1")
	require.NoError(t, store.CreateTask(ctx, task))

	_, err := engine.Screen(ctx, "tb-1")
	require.NoError(t, err)

	// Editing the content bumps the version and invalidates verdicts
	content := task.Content
	content.Prompt = "Write a function that returns the product of two integers given as arguments."
	_, err = store.UpdateContent(ctx, "tb-1", content)
	require.NoError(t, err)

	_, err = engine.DecideStatus(ctx, "tb-1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "re-run")
}

func TestDecideStatusRefusesTerminalTasks(t *testing.T) {
	engine, store, _ := testEngine(t)
	ctx := context.Background()

	task := screenTask("tb-1")
	require.NoError(t, store.CreateTask(ctx, task))
	_, err := engine.Screen(ctx, "tb-1")
	require.NoError(t, err)

	require.NoError(t, engine.Transition(ctx, "tb-1", types.StatusDeprecated, "curator"))

	_, err = engine.DecideStatus(ctx, "tb-1")
	require.Error(t, err)
}

func TestTransition(t *testing.T) {
	engine, store, sink := testEngine(t)
	ctx := context.Background()

	task := screenTask("tb-1")
	require.NoError(t, store.CreateTask(ctx, task))
	result, err := engine.Screen(ctx, "tb-1")
	require.NoError(t, err)
	require.Equal(t, types.StatusPublished, result.Status)

	require.NoError(t, engine.Transition(ctx, "tb-1", types.StatusDeprecated, "curator"))

	updated, err := store.GetTask(ctx, "tb-1")
	require.NoError(t, err)
	require.Equal(t, types.StatusDeprecated, updated.Status)

	// Deprecated is terminal except for archival
	require.Error(t, engine.Transition(ctx, "tb-1", types.StatusPublished, "curator"))

	changed := 0
	for _, event := range sink.Events() {
		if event.Type == events.EventTypeStatusChanged {
			changed++
		}
	}
	require.Equal(t, 2, changed) // gate publish + curator deprecate
}

func TestSweep(t *testing.T) {
	engine, store, sink := testEngine(t)
	ctx := context.Background()

	prompts := []string{
		"Write a function that returns the sum of two integers given as arguments.",
		"Implement a queue with enqueue and dequeue operations backed by a slice.",
		"Parse a date string in ISO format and return the weekday name.",
	}

	// Distinct prompts so none of the tasks collide as duplicates
	ids := []string{"tb-1", "tb-2", "tb-3"}
	for i, id := range ids {
		task := screenTask(id)
		task.Name = "Task " + id
		task.Content.Prompt = prompts[i]
		require.NoError(t, store.CreateTask(ctx, task))
	}

	// Archived tasks are not swept
	archived := screenTask("tb-old")
	archived.Status = types.StatusArchived
	require.NoError(t, store.CreateTask(ctx, archived))

	report, err := engine.Sweep(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, report.Total)
	require.Equal(t, 3, report.Screened)
	require.Empty(t, report.Failures)

	swept := false
	for _, event := range sink.Events() {
		if event.Type == events.EventTypeSweepCompleted {
			swept = true
		}
	}
	require.True(t, swept)
}

func TestStoreCache(t *testing.T) {
	_, store, _ := testEngine(t)
	ctx := context.Background()

	task := screenTask("tb-1")
	require.NoError(t, store.CreateTask(ctx, task))

	cache := NewStoreCache(store, "test-model")
	key := embedding.Key{TaskID: "tb-1", Version: 1}

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, ok)

	vector := []float32{0.1, 0.2, 0.3}
	require.NoError(t, cache.Put(ctx, key, vector))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, vector, got)
}
