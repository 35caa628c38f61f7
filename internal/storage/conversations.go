// ABOUTME: Conversation state store keyed by conversation identity
// ABOUTME: Append-only turns plus at most one active document association
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/postforge/postforge/internal/models"
)

// ConversationStore handles conversation persistence.
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a ConversationStore.
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// Ensure creates the conversation row if it does not exist yet.
func (s *ConversationStore) Ensure(conversationID string) error {
	_, err := s.db.Exec(`
		INSERT INTO conversations (id) VALUES (?)
		ON CONFLICT(id) DO NOTHING
	`, conversationID)
	return err
}

// AppendTurn appends a turn to the conversation, creating it if needed.
// Ordering is by a per-conversation sequence number, not wall clock.
func (s *ConversationStore) AppendTurn(conversationID string, turn *models.Turn) error {
	if err := s.Ensure(conversationID); err != nil {
		return fmt.Errorf("failed to ensure conversation: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var next int
	if err := tx.QueryRow(`
		SELECT COALESCE(MAX(seq), 0) + 1 FROM turns WHERE conversation_id = ?
	`, conversationID).Scan(&next); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO turns (id, conversation_id, seq, role, content, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, turn.TurnID, conversationID, next, string(turn.Role), turn.Content, turn.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE conversations SET updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, conversationID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetRecent returns the last n turns in chronological order.
// An unknown conversation yields an empty slice, not an error.
func (s *ConversationStore) GetRecent(conversationID string, n int) ([]models.Turn, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.Query(`
		SELECT id, role, content, created_at
		FROM (
			SELECT id, role, content, created_at, seq
			FROM turns
			WHERE conversation_id = ?
			ORDER BY seq DESC
			LIMIT ?
		)
		ORDER BY seq ASC
	`, conversationID, n)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var turns []models.Turn
	for rows.Next() {
		var turn models.Turn
		var role string
		if err := rows.Scan(&turn.TurnID, &role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, err
		}
		turn.Role = models.Role(role)
		turns = append(turns, turn)
	}

	return turns, rows.Err()
}

// AssociateDocument links a document to the conversation. The most recently
// uploaded document supersedes any prior association.
func (s *ConversationStore) AssociateDocument(conversationID, documentID string) error {
	if err := s.Ensure(conversationID); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		UPDATE conversations SET document_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, documentID, conversationID)
	return err
}

// ActiveDocument returns the associated document id, or "" when there is none
// or the conversation is unknown.
func (s *ConversationStore) ActiveDocument(conversationID string) (string, error) {
	var docID sql.NullString
	err := s.db.QueryRow(`
		SELECT document_id FROM conversations WHERE id = ?
	`, conversationID).Scan(&docID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !docID.Valid {
		return "", nil
	}
	return docID.String, nil
}

// Clear removes all state for the conversation. Idempotent: clearing an
// unknown or already-cleared identity succeeds, because a UI may race a
// clear against a late error message.
func (s *ConversationStore) Clear(conversationID string) error {
	if _, err := s.db.Exec(`DELETE FROM turns WHERE conversation_id = ?`, conversationID); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM conversations WHERE id = ?`, conversationID)
	return err
}

// Exists reports whether the conversation identity is known.
func (s *ConversationStore) Exists(conversationID string) (bool, error) {
	var one int
	err := s.db.QueryRow(`SELECT 1 FROM conversations WHERE id = ?`, conversationID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
