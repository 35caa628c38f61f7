// ABOUTME: Document is an ingested upload with its tier fixed at ingestion time
// ABOUTME: Tier is a pure function of token count and is never recomputed
package models

import (
	"time"

	"github.com/google/uuid"
)

// Tier is the processing mode assigned to a document at ingestion.
type Tier string

const (
	// TierDirect passes the full extracted text to generation.
	TierDirect Tier = "direct"
	// TierIndexed chunks, embeds, and retrieves by similarity at query time.
	TierIndexed Tier = "indexed"
)

// Document describes an ingested upload. Immutable once created.
type Document struct {
	DocumentID string    `json:"document_id"`
	Filename   string    `json:"filename"`
	SizeBytes  int64     `json:"size_bytes"`
	TokenCount int       `json:"token_count"`
	Tier       Tier      `json:"tier"`
	CreatedAt  time.Time `json:"created_at"`
}

// TierFor decides the tier from a token count. The boundary itself is direct:
// token_count <= threshold means direct, anything above is indexed.
func TierFor(tokenCount, threshold int) Tier {
	if tokenCount <= threshold {
		return TierDirect
	}
	return TierIndexed
}

// NewDocumentID generates a unique document identifier.
func NewDocumentID() string {
	return "doc_" + uuid.New().String()
}
