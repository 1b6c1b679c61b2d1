package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// UpsertEmbedding stores the embedding vector for a task version.
// INSERT OR REPLACE makes the upsert idempotent: two callers embedding
// the same version concurrently cannot corrupt the row, and since
// content is immutable per version, last write wins is safe.
func (s *SQLiteStorage) UpsertEmbedding(ctx context.Context, taskID string, version int, model string, vector []float32) error {
	if taskID == "" {
		return fmt.Errorf("task id is required")
	}
	if len(vector) == 0 {
		return fmt.Errorf("vector is empty")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO embeddings (task_id, task_version, model, vector, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		taskID, version, model, encodeVector(vector),
		time.Now().UTC().Format(timeFormat))
	if err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	return nil
}

// GetEmbedding retrieves the embedding vector for a task version
func (s *SQLiteStorage) GetEmbedding(ctx context.Context, taskID string, version int) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT vector FROM embeddings WHERE task_id = ? AND task_version = ?`,
		taskID, version).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query embedding: %w", err)
	}
	return decodeVector(blob)
}

// encodeVector packs a float32 slice as little-endian bytes
func encodeVector(vector []float32) []byte {
	buf := make([]byte, 4*len(vector))
	for i, v := range vector {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

// decodeVector unpacks little-endian bytes into a float32 slice
func decodeVector(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("malformed vector blob: %d bytes", len(blob))
	}
	vector := make([]float32, len(blob)/4)
	for i := range vector {
		vector[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return vector, nil
}
