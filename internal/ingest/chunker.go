// ABOUTME: Word-window chunker for indexed-tier documents
// ABOUTME: Consecutive chunks overlap so sentences split at a boundary survive in one piece

package ingest

import (
	"strings"

	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/tokens"
)

// Chunker splits extracted text into overlapping word windows sized in tokens.
type Chunker struct {
	chunkTokens   int
	overlapTokens int
}

// NewChunker creates a Chunker. overlapTokens must be smaller than chunkTokens
// or the window would never advance.
func NewChunker(chunkTokens, overlapTokens int) *Chunker {
	if overlapTokens >= chunkTokens {
		overlapTokens = chunkTokens / 10
	}
	return &Chunker{chunkTokens: chunkTokens, overlapTokens: overlapTokens}
}

// Split breaks text into chunks for the given document. Positions are assigned
// in text order so retrieval can reassemble selected chunks as they appeared.
func (c *Chunker) Split(documentID, text string) []models.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	wordsPerChunk := tokens.WordsFor(c.chunkTokens)
	overlapWords := tokens.WordsFor(c.overlapTokens)
	if wordsPerChunk < 1 {
		wordsPerChunk = 1
	}

	var chunks []models.Chunk
	start := 0
	for start < len(words) {
		end := start + wordsPerChunk
		if end > len(words) {
			end = len(words)
		}

		chunks = append(chunks, models.Chunk{
			ChunkID:    models.NewChunkID(),
			DocumentID: documentID,
			Position:   len(chunks),
			Content:    strings.Join(words[start:end], " "),
		})

		if end == len(words) {
			break
		}
		start = end - overlapWords
	}

	return chunks
}
