// ABOUTME: Chunk is an embedded text span owned by exactly one indexed document
// ABOUTME: Chunks never leave the indexed retrieval store's document partition
package models

import "github.com/google/uuid"

// Chunk is one overlapping window of an indexed document's text.
type Chunk struct {
	ChunkID    string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"`
	Position   int       `json:"position"`
	Content    string    `json:"content"`
	Vector     []float64 `json:"-"`
}

// ChunkHit is a chunk returned from a similarity lookup with its score.
type ChunkHit struct {
	Chunk
	Score float64 `json:"score"`
}

// NewChunkID generates a unique chunk identifier.
func NewChunkID() string {
	return "chunk_" + uuid.New().String()
}
