package storage

import (
	"context"
	"errors"

	"github.com/taskbank/gatekeeper/internal/storage/sqlite"
	"github.com/taskbank/gatekeeper/internal/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = sqlite.ErrNotFound

// Storage defines the interface for task bank storage backends.
//
// Assessments and analyses are append-only: SaveAssessment and
// SaveAnalysis insert new records keyed by (task_id, task_version,
// timestamp) and nothing ever updates them in place, so re-running
// analysis never corrupts prior audit evidence.
type Storage interface {
	// Tasks
	CreateTask(ctx context.Context, task *types.Task) error
	GetTask(ctx context.Context, id string) (*types.Task, error)
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error)
	// UpdateContent replaces the task content, bumps the version, and
	// clears cached quality/contamination scores (they must be
	// recomputed before publication).
	UpdateContent(ctx context.Context, id string, content types.TaskContent) (*types.Task, error)
	// SetStatus transitions the task's lifecycle status. Invalid
	// transitions (per types.Status.CanTransitionTo) are rejected.
	SetStatus(ctx context.Context, id string, status types.Status, actor string) error
	// SetScores records the latest quality and contamination scores on
	// the task row for gate decisions and display.
	SetScores(ctx context.Context, id string, quality, contamination *float64) error

	// Quality assessments (append-only history)
	SaveAssessment(ctx context.Context, a *types.QualityAssessment) error
	GetLatestAssessment(ctx context.Context, taskID string) (*types.QualityAssessment, error)
	ListAssessments(ctx context.Context, taskID string) ([]*types.QualityAssessment, error)

	// Contamination analyses (append-only history)
	SaveAnalysis(ctx context.Context, a *types.ContaminationAnalysis) error
	GetLatestAnalysis(ctx context.Context, taskID string) (*types.ContaminationAnalysis, error)
	ListAnalyses(ctx context.Context, taskID string) ([]*types.ContaminationAnalysis, error)

	// Embedding vectors, keyed (task_id, task_version). Upsert is
	// idempotent; concurrent writers for the same version race safely
	// because content is immutable per version (last write wins).
	UpsertEmbedding(ctx context.Context, taskID string, version int, model string, vector []float32) error
	GetEmbedding(ctx context.Context, taskID string, version int) ([]float32, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path.
	// Default: ".taskbank/gatekeeper.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Path: ".taskbank/gatekeeper.db",
	}
}

// New creates a new SQLite storage backend
func New(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".taskbank/gatekeeper.db"
	}
	return sqlite.New(cfg.Path)
}

// IsNotFound reports whether err indicates a missing record
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
