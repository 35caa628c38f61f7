// ABOUTME: Document store for ingested uploads
// ABOUTME: Rows are immutable; full text is kept only for the direct tier
package storage

import (
	"database/sql"
	"errors"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
)

// DocumentStore handles document persistence.
type DocumentStore struct {
	db *DB
}

// NewDocumentStore creates a DocumentStore.
func NewDocumentStore(db *DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// Save persists a document. fullText should be "" for indexed-tier documents,
// whose content lives in the chunk store instead.
func (s *DocumentStore) Save(doc *models.Document, fullText string) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (id, filename, size_bytes, token_count, tier, full_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, doc.DocumentID, doc.Filename, doc.SizeBytes, doc.TokenCount, string(doc.Tier), fullText, doc.CreatedAt)
	return err
}

// Get retrieves a document by id. Unknown ids fail with NotFound so that the
// caller can tell the user to re-upload.
func (s *DocumentStore) Get(documentID string) (*models.Document, error) {
	var (
		doc  models.Document
		tier string
	)
	err := s.db.QueryRow(`
		SELECT id, filename, size_bytes, token_count, tier, created_at
		FROM documents WHERE id = ?
	`, documentID).Scan(&doc.DocumentID, &doc.Filename, &doc.SizeBytes, &doc.TokenCount, &tier, &doc.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.KindNotFound, "document %s not found, please re-upload", documentID)
	}
	if err != nil {
		return nil, err
	}

	doc.Tier = models.Tier(tier)
	return &doc, nil
}

// FullText returns the stored extracted text for a direct-tier document.
func (s *DocumentStore) FullText(documentID string) (string, error) {
	var text sql.NullString
	err := s.db.QueryRow(`SELECT full_text FROM documents WHERE id = ?`, documentID).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errs.New(errs.KindNotFound, "document %s not found, please re-upload", documentID)
	}
	if err != nil {
		return "", err
	}
	return text.String, nil
}
