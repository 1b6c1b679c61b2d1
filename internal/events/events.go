// Package events is the screening side channel: the engine reports
// assessments, analyses, and status changes here without depending on
// who listens. The core stays fully testable with the sink stubbed.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taskbank/gatekeeper/internal/types"
)

// EventType identifies what happened during screening
type EventType string

const (
	// EventTypeQualityAssessed indicates a quality assessment completed
	EventTypeQualityAssessed EventType = "quality_assessed"
	// EventTypeContaminationAnalyzed indicates a contamination analysis completed
	EventTypeContaminationAnalyzed EventType = "contamination_analyzed"
	// EventTypeStatusChanged indicates the gate or a curator moved a task
	EventTypeStatusChanged EventType = "status_changed"
	// EventTypeSweepCompleted indicates a batch re-screening finished
	EventTypeSweepCompleted EventType = "sweep_completed"
	// EventTypeScreeningFailed indicates screening a task failed outright
	EventTypeScreeningFailed EventType = "screening_failed"
)

// Event is one screening occurrence
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	TaskID    string                 `json:"task_id,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// Sink receives screening events. Implementations must not block the
// screening path; Emit errors are the sink's problem, not the
// caller's.
type Sink interface {
	Emit(event *Event)
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) Emit(*Event) {}

// MemorySink collects events for inspection in tests
type MemorySink struct {
	mu     sync.Mutex
	events []*Event
}

func (s *MemorySink) Emit(event *Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// Events returns a snapshot of everything emitted so far
func (s *MemorySink) Events() []*Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Event, len(s.events))
	copy(out, s.events)
	return out
}

// NewQualityAssessedEvent records a completed quality assessment
func NewQualityAssessedEvent(assessment *types.QualityAssessment) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventTypeQualityAssessed,
		TaskID:    assessment.TaskID,
		Timestamp: time.Now().UTC(),
		Message:   "quality assessment completed",
		Data: map[string]interface{}{
			"assessment_id": assessment.ID,
			"task_version":  assessment.TaskVersion,
			"overall_score": assessment.OverallScore,
			"has_errors":    assessment.Validation.HasErrors(),
		},
	}
}

// NewContaminationAnalyzedEvent records a completed contamination analysis
func NewContaminationAnalyzedEvent(analysis *types.ContaminationAnalysis) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventTypeContaminationAnalyzed,
		TaskID:    analysis.TaskID,
		Timestamp: time.Now().UTC(),
		Message:   "contamination analysis completed",
		Data: map[string]interface{}{
			"analysis_id":  analysis.ID,
			"task_version": analysis.TaskVersion,
			"overall_risk": string(analysis.OverallRisk),
		},
	}
}

// NewStatusChangedEvent records a status transition
func NewStatusChangedEvent(taskID string, from, to types.Status, reason string) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventTypeStatusChanged,
		TaskID:    taskID,
		Timestamp: time.Now().UTC(),
		Message:   reason,
		Data: map[string]interface{}{
			"from": string(from),
			"to":   string(to),
		},
	}
}

// NewSweepCompletedEvent records a finished batch sweep
func NewSweepCompletedEvent(total, failed int, elapsed time.Duration) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventTypeSweepCompleted,
		Timestamp: time.Now().UTC(),
		Message:   "batch re-screening completed",
		Data: map[string]interface{}{
			"total":      total,
			"failed":     failed,
			"elapsed_ms": elapsed.Milliseconds(),
		},
	}
}

// NewScreeningFailedEvent records a task that could not be screened
func NewScreeningFailedEvent(taskID string, err error) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      EventTypeScreeningFailed,
		TaskID:    taskID,
		Timestamp: time.Now().UTC(),
		Message:   err.Error(),
	}
}
