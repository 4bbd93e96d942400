package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// VectorMetadata travels with every indexed vector and is returned on query.
// Content is truncated by the writer before it gets here.
type VectorMetadata struct {
	SessionID string    `json:"sessionId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// VectorRecord is one entry to upsert into the index.
type VectorRecord struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorMatch is one query result, scored by cosine similarity.
type VectorMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorIndex is the semantic-search store written to by the fan-out and read
// by the search route.
type VectorIndex interface {
	Insert(ctx context.Context, records []VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)
}

type sqliteVectorIndex struct {
	db *sql.DB
}

// NewSQLiteVectorIndex creates a VectorIndex on the shared sqlite database.
func NewSQLiteVectorIndex(db *sql.DB) VectorIndex {
	return &sqliteVectorIndex{db: db}
}

func (s *sqliteVectorIndex) Insert(ctx context.Context, records []VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO vectors (id, session_id, embedding, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	for _, rec := range records {
		metadata, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("could not marshal vector metadata: %w", err)
		}
		_, err = tx.ExecContext(ctx, query,
			rec.ID,
			rec.Metadata.SessionID,
			encodeVector(rec.Values),
			string(metadata),
			rec.Metadata.Timestamp.UTC(),
		)
		if err != nil {
			return fmt.Errorf("could not insert vector %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// Query scans the whole index and ranks by cosine similarity. The index holds
// one vector per message of a demo deployment, so a full scan stays cheap.
func (s *sqliteVectorIndex) Query(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error) {
	if topK <= 0 {
		topK = 5
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, embedding, metadata FROM vectors")
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}
	defer rows.Close()

	var matches []VectorMatch
	for rows.Next() {
		var id string
		var blob []byte
		var metadataJSON string
		if err := rows.Scan(&id, &blob, &metadataJSON); err != nil {
			return nil, err
		}

		match := VectorMatch{ID: id, Score: cosineSimilarity(vector, decodeVector(blob))}
		if err := json.Unmarshal([]byte(metadataJSON), &match.Metadata); err != nil {
			return nil, fmt.Errorf("could not unmarshal metadata for vector %s: %w", id, err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// encodeVector packs float32 components little-endian into a BLOB.
func encodeVector(values []float32) []byte {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(blob []byte) []float32 {
	values := make([]float32, len(blob)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(blob[i*4:]))
	}
	return values
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
