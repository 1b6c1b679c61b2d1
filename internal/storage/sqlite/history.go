package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/taskbank/gatekeeper/internal/types"
)

// SaveAssessment appends a quality assessment to the history.
// Records are never updated in place.
func (s *SQLiteStorage) SaveAssessment(ctx context.Context, a *types.QualityAssessment) error {
	if a.ID == "" {
		return fmt.Errorf("assessment id is required")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid assessment: %w", err)
	}
	if a.AssessedAt.IsZero() {
		a.AssessedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to serialize assessment: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quality_assessments (id, task_id, task_version, overall_score, payload, assessed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.TaskVersion, a.OverallScore, string(payload),
		a.AssessedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert assessment: %w", err)
	}
	return nil
}

// GetLatestAssessment returns the most recent assessment for a task
func (s *SQLiteStorage) GetLatestAssessment(ctx context.Context, taskID string) (*types.QualityAssessment, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM quality_assessments
		WHERE task_id = ?
		ORDER BY assessed_at DESC LIMIT 1`, taskID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}

	var a types.QualityAssessment
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("failed to parse assessment: %w", err)
	}
	return &a, nil
}

// ListAssessments returns the full assessment history for a task, newest first
func (s *SQLiteStorage) ListAssessments(ctx context.Context, taskID string) ([]*types.QualityAssessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM quality_assessments
		WHERE task_id = ?
		ORDER BY assessed_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*types.QualityAssessment
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		var a types.QualityAssessment
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("failed to parse assessment: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// SaveAnalysis appends a contamination analysis to the history
func (s *SQLiteStorage) SaveAnalysis(ctx context.Context, a *types.ContaminationAnalysis) error {
	if a.ID == "" {
		return fmt.Errorf("analysis id is required")
	}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid analysis: %w", err)
	}
	if a.AnalyzedAt.IsZero() {
		a.AnalyzedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to serialize analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO contamination_analyses (id, task_id, task_version, overall_risk, payload, analyzed_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.TaskVersion, string(a.OverallRisk), string(payload),
		a.AnalyzedAt.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to insert analysis: %w", err)
	}
	return nil
}

// GetLatestAnalysis returns the most recent contamination analysis for a task
func (s *SQLiteStorage) GetLatestAnalysis(ctx context.Context, taskID string) (*types.ContaminationAnalysis, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM contamination_analyses
		WHERE task_id = ?
		ORDER BY analyzed_at DESC LIMIT 1`, taskID).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis: %w", err)
	}

	var a types.ContaminationAnalysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}
	return &a, nil
}

// ListAnalyses returns the full analysis history for a task, newest first
func (s *SQLiteStorage) ListAnalyses(ctx context.Context, taskID string) ([]*types.ContaminationAnalysis, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM contamination_analyses
		WHERE task_id = ?
		ORDER BY analyzed_at DESC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*types.ContaminationAnalysis
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		var a types.ContaminationAnalysis
		if err := json.Unmarshal([]byte(payload), &a); err != nil {
			return nil, fmt.Errorf("failed to parse analysis: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
