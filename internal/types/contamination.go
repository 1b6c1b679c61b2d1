package types

import (
	"fmt"
	"time"
)

// RiskLevel represents the overall contamination risk of a task
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// IsValid checks if the risk level value is valid
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// Severity returns a numeric rank for ordering risk levels
func (r RiskLevel) Severity() int {
	switch r {
	case RiskLow:
		return 0
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return -1
	}
}

// SimilarityType classifies how close two tasks are
type SimilarityType string

const (
	SimilarityExact    SimilarityType = "exact_match"
	SimilarityHigh     SimilarityType = "high_similarity"
	SimilarityModerate SimilarityType = "moderate_similarity"
	SimilaritySemantic SimilarityType = "semantic_similarity"
)

// IsValid checks if the similarity type value is valid
func (s SimilarityType) IsValid() bool {
	switch s {
	case SimilarityExact, SimilarityHigh, SimilarityModerate, SimilaritySemantic:
		return true
	}
	return false
}

// ContaminationAnalysis is the immutable result of screening a single
// task version for contamination risk. Same append-only lifecycle as
// QualityAssessment.
type ContaminationAnalysis struct {
	ID              string               `json:"id"`
	TaskID          string               `json:"task_id"`
	TaskVersion     int                  `json:"task_version"`
	OverallRisk     RiskLevel            `json:"overall_risk"`
	Similarity      SimilarityAnalysis   `json:"similarity_analysis"`
	TrainingData    TrainingDataAnalysis `json:"training_data_analysis"`
	Temporal        TemporalAnalysis     `json:"temporal_analysis"`
	Recommendations []string             `json:"recommendations,omitempty"`
	AnalyzedAt      time.Time            `json:"analyzed_at"`
}

// Validate checks if the analysis has valid field values
func (a *ContaminationAnalysis) Validate() error {
	if a.TaskID == "" {
		return fmt.Errorf("task_id is required")
	}
	if a.TaskVersion < 1 {
		return fmt.Errorf("task_version must be positive (got %d)", a.TaskVersion)
	}
	if !a.OverallRisk.IsValid() {
		return fmt.Errorf("invalid risk level: %s", a.OverallRisk)
	}
	if a.Similarity.OverallSimilarity < 0 || a.Similarity.OverallSimilarity > 1 {
		return fmt.Errorf("overall_similarity must be between 0.0 and 1.0 (got %.2f)",
			a.Similarity.OverallSimilarity)
	}
	if a.TrainingData.RiskScore < 0 || a.TrainingData.RiskScore > 100 {
		return fmt.Errorf("training risk_score must be between 0 and 100 (got %.2f)",
			a.TrainingData.RiskScore)
	}
	return nil
}

// SimilarityAnalysis summarizes how the task relates to the existing bank
type SimilarityAnalysis struct {
	OverallSimilarity float64               `json:"overall_similarity"` // best match, 0-1
	SimilarTasks      []SimilarTask         `json:"similar_tasks,omitempty"`
	Clusters          []DuplicateCluster    `json:"duplicate_clusters,omitempty"`
	Plagiarism        []PlagiarismIndicator `json:"plagiarism_indicators,omitempty"`
	Confidence        float64               `json:"confidence"` // lowered when embeddings were unavailable
}

// SimilarTask records one existing task found similar to the candidate.
// Metadata of the compared task is denormalized for display so callers
// do not need another store round trip.
type SimilarTask struct {
	TaskID              string         `json:"task_id"`
	Similarity          float64        `json:"similarity"` // 0-1
	SimilarityType      SimilarityType `json:"similarity_type"`
	OverlappingSegments []string       `json:"overlapping_segments,omitempty"`
	Name                string         `json:"name"`
	Category            string         `json:"category"`
	TaskType            string         `json:"task_type"`
	DifficultyLevel     Difficulty     `json:"difficulty_level"`
	CreatedAt           time.Time      `json:"created_at"`
}

// DuplicateCluster is a connected component of mutually-similar tasks
// (pairwise similarity above the clustering threshold) with at least
// two members. The representative is the oldest member, tie-broken by
// lowest id.
type DuplicateCluster struct {
	TaskIDs           []string `json:"task_ids"`
	AverageSimilarity float64  `json:"average_similarity"`
	Representative    string   `json:"representative"`
}

// PlagiarismIndicator is evidence that specific text spans in the
// candidate were copied from an existing task.
type PlagiarismIndicator struct {
	SourceTaskID string           `json:"source_task_id"`
	Confidence   float64          `json:"confidence"` // 0-1
	Segments     []MatchedSegment `json:"segments"`
}

// MatchedSegment is one copied span, with token offsets into the
// candidate's text.
type MatchedSegment struct {
	Text       string  `json:"text"`
	StartToken int     `json:"start_token"`
	EndToken   int     `json:"end_token"`
	Similarity float64 `json:"similarity"`
}

// TrainingDataAnalysis summarizes overlap with known external corpora
type TrainingDataAnalysis struct {
	Overlaps       []DatasetOverlap `json:"overlaps,omitempty"`
	PotentialLeaks []PotentialLeak  `json:"potential_leaks,omitempty"`
	RiskScore      float64          `json:"risk_score"` // 0-100
}

// OverlapType classifies overlap with a known dataset
type OverlapType string

const (
	OverlapExact      OverlapType = "exact_match"
	OverlapParaphrase OverlapType = "paraphrase"
	OverlapConcept    OverlapType = "concept_similarity"
)

// IsValid checks if the overlap type value is valid
func (o OverlapType) IsValid() bool {
	switch o {
	case OverlapExact, OverlapParaphrase, OverlapConcept:
		return true
	}
	return false
}

// DatasetOverlap records measured overlap against one known dataset
type DatasetOverlap struct {
	DatasetName string      `json:"dataset_name"`
	OverlapType OverlapType `json:"overlap_type"`
	Score       float64     `json:"score"`      // 0-1
	Confidence  float64     `json:"confidence"` // 0-1
	Excerpt     string      `json:"excerpt,omitempty"`
}

// PotentialLeak is a pattern-match signal (benchmark name, public code
// host reference) rather than a similarity-derived score. Confidence
// sits in a fixed band per pattern class.
type PotentialLeak struct {
	Pattern    string  `json:"pattern"`
	Matched    string  `json:"matched"`
	Confidence float64 `json:"confidence"`
}

// TemporalRisk is contamination risk inferred from the relationship
// between task creation date and a model's training cutoff
type TemporalRisk string

const (
	TemporalSafe    TemporalRisk = "safe"
	TemporalCaution TemporalRisk = "caution"
	TemporalRisky   TemporalRisk = "risky"
)

// IsValid checks if the temporal risk value is valid
func (t TemporalRisk) IsValid() bool {
	switch t {
	case TemporalSafe, TemporalCaution, TemporalRisky:
		return true
	}
	return false
}

// TemporalAnalysis records the creation-date vs training-cutoff verdict
type TemporalAnalysis struct {
	TaskCreatedAt  time.Time    `json:"task_created_at"`
	TrainingCutoff *time.Time   `json:"training_cutoff,omitempty"`
	ModelID        string       `json:"model_id,omitempty"`
	Risk           TemporalRisk `json:"risk"`
	Notes          string       `json:"notes,omitempty"`
}
