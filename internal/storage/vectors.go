// ABOUTME: Chunk embedding persistence and cosine similarity search
// ABOUTME: Lookups are strictly partitioned by document identity
package storage

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/postforge/postforge/internal/models"
)

// VectorStore handles chunk and embedding persistence for indexed documents.
type VectorStore struct {
	db *DB
}

// NewVectorStore creates a VectorStore.
func NewVectorStore(db *DB) *VectorStore {
	return &VectorStore{db: db}
}

// SaveChunks persists all chunks of a document in one transaction.
// Called exactly once per indexed document, at ingestion time.
func (s *VectorStore) SaveChunks(chunks []models.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (id, document_id, position, content, vector)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for _, chunk := range chunks {
		if len(chunk.Vector) == 0 {
			return fmt.Errorf("chunk %s has no embedding vector", chunk.ChunkID)
		}
		if _, err := stmt.Exec(chunk.ChunkID, chunk.DocumentID, chunk.Position,
			chunk.Content, vectorToBlob(chunk.Vector)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// SearchSimilar ranks the document's chunks by cosine similarity to the query
// vector and returns the top maxResults. Only chunks owned by documentID are
// ever considered; the WHERE clause is the partition guarantee.
func (s *VectorStore) SearchSimilar(documentID string, queryVector []float64, maxResults int) ([]models.ChunkHit, error) {
	rows, err := s.db.Query(`
		SELECT id, document_id, position, content, vector
		FROM chunks
		WHERE document_id = ?
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hits []models.ChunkHit
	for rows.Next() {
		var (
			hit  models.ChunkHit
			blob []byte
		)
		if err := rows.Scan(&hit.ChunkID, &hit.DocumentID, &hit.Position, &hit.Content, &blob); err != nil {
			return nil, err
		}
		hit.Vector = blobToVector(blob)
		hit.Score = CosineSimilarity(queryVector, hit.Vector)
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Sort by similarity descending
	sort.Slice(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if maxResults > 0 && len(hits) > maxResults {
		hits = hits[:maxResults]
	}

	return hits, nil
}

// ChunkCount returns the number of stored chunks for a document.
func (s *VectorStore) ChunkCount(documentID string) (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks WHERE document_id = ?`, documentID).Scan(&count)
	return count, err
}

// vectorToBlob converts a float64 slice to a binary blob.
func vectorToBlob(vector []float64) []byte {
	blob := make([]byte, len(vector)*8)
	for i, v := range vector {
		binary.LittleEndian.PutUint64(blob[i*8:], math.Float64bits(v))
	}
	return blob
}

// blobToVector converts a binary blob back to a float64 slice.
func blobToVector(blob []byte) []float64 {
	count := len(blob) / 8
	vector := make([]float64, count)
	for i := 0; i < count; i++ {
		bits := binary.LittleEndian.Uint64(blob[i*8:])
		vector[i] = math.Float64frombits(bits)
	}
	return vector
}

// CosineSimilarity calculates cosine similarity between two vectors.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
