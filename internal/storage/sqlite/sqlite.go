package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/taskbank/gatekeeper/internal/types"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// timeFormat is the canonical timestamp encoding for all tables
const timeFormat = time.RFC3339Nano

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// New creates a new SQLite storage backend at the given path.
// ":memory:" creates an in-memory database.
func New(path string) (*SQLiteStorage, error) {
	dsn := path
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL mode for better concurrency between the sweep workers
		// and interactive commands
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise get its own empty
		// in-memory database
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// CreateTask inserts a new task record
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task) error {
	if task.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if task.Version == 0 {
		task.Version = 1
	}
	if task.Status == "" {
		task.Status = types.StatusDraft
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	task.UpdatedAt = now

	if err := task.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}

	content, err := json.Marshal(task.Content)
	if err != nil {
		return fmt.Errorf("failed to serialize content: %w", err)
	}
	tags, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("failed to serialize tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, name, content, category, difficulty, task_type,
			tags, domain, language, version, status, quality_score,
			contamination_score, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.Name, string(content), task.Category,
		string(task.DifficultyLevel), task.TaskType, string(tags),
		task.Domain, task.Language, task.Version, string(task.Status),
		task.QualityScore, task.ContaminationScore, task.CreatedBy,
		task.CreatedAt.Format(timeFormat), task.UpdatedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by id
func (s *SQLiteStorage) GetTask(ctx context.Context, id string) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, content, category, difficulty, task_type, tags,
			domain, language, version, status, quality_score,
			contamination_score, created_by, created_at, updated_at
		FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

// rowScanner abstracts sql.Row and sql.Rows for scanTask
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*types.Task, error) {
	var (
		task               types.Task
		content, tags      string
		difficulty, status string
		createdAt, updated string
	)
	err := row.Scan(&task.ID, &task.Name, &content, &task.Category,
		&difficulty, &task.TaskType, &tags, &task.Domain, &task.Language,
		&task.Version, &status, &task.QualityScore, &task.ContaminationScore,
		&task.CreatedBy, &createdAt, &updated)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan task: %w", err)
	}

	if err := json.Unmarshal([]byte(content), &task.Content); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &task.Tags); err != nil {
		return nil, fmt.Errorf("failed to parse tags: %w", err)
	}
	task.DifficultyLevel = types.Difficulty(difficulty)
	task.Status = types.Status(status)
	if task.CreatedAt, err = time.Parse(timeFormat, createdAt); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if task.UpdatedAt, err = time.Parse(timeFormat, updated); err != nil {
		return nil, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return &task, nil
}

// ListTasks retrieves tasks matching the filter, oldest first
func (s *SQLiteStorage) ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	query := `
		SELECT id, name, content, category, difficulty, task_type, tags,
			domain, language, version, status, quality_score,
			contamination_score, created_by, created_at, updated_at
		FROM tasks`
	var conds []string
	var args []interface{}

	if filter.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, *filter.Category)
	}
	if filter.TaskType != nil {
		conds = append(conds, "task_type = ?")
		args = append(args, *filter.TaskType)
	}
	if filter.Difficulty != nil {
		conds = append(conds, "difficulty = ?")
		args = append(args, string(*filter.Difficulty))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*types.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateContent replaces the task content, bumps the version, and
// clears cached scores. Assessments for the previous version remain in
// the history tables untouched.
func (s *SQLiteStorage) UpdateContent(ctx context.Context, id string, content types.TaskContent) (*types.Task, error) {
	data, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize content: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks
		SET content = ?, version = version + 1,
			quality_score = NULL, contamination_score = NULL,
			updated_at = ?
		WHERE id = ?`,
		string(data), time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update content: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(ctx, id)
}

// SetStatus transitions the task lifecycle status, rejecting
// transitions the state machine does not allow
func (s *SQLiteStorage) SetStatus(ctx context.Context, id string, status types.Status, actor string) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task.Status == status {
		return nil
	}
	if !task.Status.CanTransitionTo(status) {
		return fmt.Errorf("invalid transition %s -> %s for task %s", task.Status, status, id)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UTC().Format(timeFormat), id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// SetScores records the latest quality and contamination scores
func (s *SQLiteStorage) SetScores(ctx context.Context, id string, quality, contamination *float64) error {
	query := "UPDATE tasks SET updated_at = ?"
	args := []interface{}{time.Now().UTC().Format(timeFormat)}
	if quality != nil {
		query += ", quality_score = ?"
		args = append(args, *quality)
	}
	if contamination != nil {
		query += ", contamination_score = ?"
		args = append(args, *contamination)
	}
	query += " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update scores: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
