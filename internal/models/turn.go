// ABOUTME: Turn is a single role-tagged message within a conversation
// ABOUTME: Insertion order is significant; turns are append-only
package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	TurnID    string    `json:"turn_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTurn creates a turn with a generated id and UTC timestamp.
func NewTurn(role Role, content string) (*Turn, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errors.New("turn content cannot be empty")
	}
	if role != RoleUser && role != RoleAssistant {
		return nil, errors.New("turn role must be user or assistant")
	}
	return &Turn{
		TurnID:    "turn_" + uuid.New().String(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewConversationID generates a unique conversation identifier.
func NewConversationID() string {
	return "conv_" + uuid.New().String()
}
