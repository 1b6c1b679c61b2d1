package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/taskbank/gatekeeper/internal/types"
)

func testStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTask(id string) *types.Task {
	return &types.Task{
		ID:   id,
		Name: "Sum two integers",
		Content: types.TaskContent{
			Description:    "Warmup arithmetic task",
			Prompt:         "Write a function add(a, b) returning the sum of two integers.",
			ExpectedOutput: "The integer sum",
		},
		Category:        "algorithms",
		DifficultyLevel: types.DifficultyEasy,
		TaskType:        "coding",
		Tags:            []string{"math", "warmup"},
		Version:         1,
		Status:          types.StatusDraft,
		CreatedBy:       "tester",
	}
}

func TestCreateAndGetTask(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	task := testTask("tb-1")
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	got, err := store.GetTask(ctx, "tb-1")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got.Name != task.Name {
		t.Errorf("Name = %q, want %q", got.Name, task.Name)
	}
	if got.Content.Prompt != task.Content.Prompt {
		t.Errorf("Prompt = %q, want %q", got.Content.Prompt, task.Content.Prompt)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", got.Tags)
	}
	if got.Status != types.StatusDraft {
		t.Errorf("Status = %s, want draft", got.Status)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.GetTask(context.Background(), "tb-missing")
	if err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateContentBumpsVersionAndClearsScores(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	task := testTask("tb-1")
	if err := store.CreateTask(ctx, task); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	q, c := 88.0, 12.0
	if err := store.SetScores(ctx, "tb-1", &q, &c); err != nil {
		t.Fatalf("SetScores failed: %v", err)
	}

	content := task.Content
	content.Prompt = "Write a function add(a, b) returning the sum, handling overflow."
	updated, err := store.UpdateContent(ctx, "tb-1", content)
	if err != nil {
		t.Fatalf("UpdateContent failed: %v", err)
	}

	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2 after content edit", updated.Version)
	}
	if updated.QualityScore != nil || updated.ContaminationScore != nil {
		t.Error("content edit must invalidate cached scores")
	}
}

func TestSetStatusEnforcesTransitions(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.CreateTask(ctx, testTask("tb-1")); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	// draft -> published is a valid gate outcome
	if err := store.SetStatus(ctx, "tb-1", types.StatusPublished, "gate"); err != nil {
		t.Fatalf("draft -> published should succeed: %v", err)
	}

	// published -> approved is not in the state machine
	if err := store.SetStatus(ctx, "tb-1", types.StatusApproved, "gate"); err == nil {
		t.Error("published -> approved should be rejected")
	}

	// explicit deprecation is allowed
	if err := store.SetStatus(ctx, "tb-1", types.StatusDeprecated, "curator"); err != nil {
		t.Fatalf("published -> deprecated should succeed: %v", err)
	}
	if err := store.SetStatus(ctx, "tb-1", types.StatusReview, "gate"); err == nil {
		t.Error("deprecated is terminal except for archival")
	}
}

func TestAssessmentHistoryIsAppendOnly(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.CreateTask(ctx, testTask("tb-1")); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	first := &types.QualityAssessment{
		ID:           "qa-1",
		TaskID:       "tb-1",
		TaskVersion:  1,
		OverallScore: 70,
		AssessedAt:   time.Now().UTC().Add(-time.Hour),
	}
	second := &types.QualityAssessment{
		ID:           "qa-2",
		TaskID:       "tb-1",
		TaskVersion:  2,
		OverallScore: 85,
		AssessedAt:   time.Now().UTC(),
	}

	if err := store.SaveAssessment(ctx, first); err != nil {
		t.Fatalf("SaveAssessment failed: %v", err)
	}
	if err := store.SaveAssessment(ctx, second); err != nil {
		t.Fatalf("SaveAssessment failed: %v", err)
	}

	latest, err := store.GetLatestAssessment(ctx, "tb-1")
	if err != nil {
		t.Fatalf("GetLatestAssessment failed: %v", err)
	}
	if latest.ID != "qa-2" {
		t.Errorf("latest = %s, want qa-2", latest.ID)
	}

	history, err := store.ListAssessments(ctx, "tb-1")
	if err != nil {
		t.Fatalf("ListAssessments failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2 (re-runs must not overwrite)", len(history))
	}
}

func TestAnalysisHistory(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if err := store.CreateTask(ctx, testTask("tb-1")); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	a := &types.ContaminationAnalysis{
		ID:          "ca-1",
		TaskID:      "tb-1",
		TaskVersion: 1,
		OverallRisk: types.RiskMedium,
		Temporal: types.TemporalAnalysis{
			TaskCreatedAt: time.Now().UTC(),
			Risk:          types.TemporalCaution,
		},
	}
	if err := store.SaveAnalysis(ctx, a); err != nil {
		t.Fatalf("SaveAnalysis failed: %v", err)
	}

	got, err := store.GetLatestAnalysis(ctx, "tb-1")
	if err != nil {
		t.Fatalf("GetLatestAnalysis failed: %v", err)
	}
	if got.OverallRisk != types.RiskMedium {
		t.Errorf("OverallRisk = %s, want medium", got.OverallRisk)
	}
	if got.Temporal.Risk != types.TemporalCaution {
		t.Errorf("Temporal.Risk = %s, want caution", got.Temporal.Risk)
	}
}

func TestEmbeddingUpsertIsIdempotent(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	vec1 := []float32{0.1, 0.2, 0.3}
	vec2 := []float32{0.4, 0.5, 0.6}

	if err := store.UpsertEmbedding(ctx, "tb-1", 1, "test-model", vec1); err != nil {
		t.Fatalf("UpsertEmbedding failed: %v", err)
	}
	// Second write for the same version must not error (last write wins)
	if err := store.UpsertEmbedding(ctx, "tb-1", 1, "test-model", vec2); err != nil {
		t.Fatalf("repeat UpsertEmbedding failed: %v", err)
	}

	got, err := store.GetEmbedding(ctx, "tb-1", 1)
	if err != nil {
		t.Fatalf("GetEmbedding failed: %v", err)
	}
	if len(got) != 3 || got[0] != vec2[0] {
		t.Errorf("GetEmbedding = %v, want %v", got, vec2)
	}

	// Different versions are distinct rows
	if err := store.UpsertEmbedding(ctx, "tb-1", 2, "test-model", vec1); err != nil {
		t.Fatalf("UpsertEmbedding v2 failed: %v", err)
	}
	gotV1, err := store.GetEmbedding(ctx, "tb-1", 1)
	if err != nil {
		t.Fatalf("GetEmbedding v1 failed: %v", err)
	}
	if gotV1[0] != vec2[0] {
		t.Errorf("v1 vector clobbered by v2 write")
	}
}

func TestVectorRoundTrip(t *testing.T) {
	in := []float32{1.5, -2.25, 0, 3.14159}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decodeVector failed: %v", err)
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("round trip mismatch at %d: %v != %v", i, in[i], out[i])
		}
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for malformed blob")
	}
}

func TestListTasksFilter(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	a := testTask("tb-1")
	b := testTask("tb-2")
	b.Category = "reasoning"
	if err := store.CreateTask(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.CreateTask(ctx, b); err != nil {
		t.Fatal(err)
	}

	cat := "reasoning"
	got, err := store.ListTasks(ctx, types.TaskFilter{Category: &cat})
	if err != nil {
		t.Fatalf("ListTasks failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != "tb-2" {
		t.Errorf("filtered list = %v, want just tb-2", got)
	}
}
