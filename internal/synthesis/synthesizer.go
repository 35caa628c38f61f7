// ABOUTME: Schema-validated post generation with a bounded retry loop
// ABOUTME: The synthesizer is the only writer of conversation turns

package synthesis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/budget"
	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
)

// ChatModel produces a JSON-mode chat completion.
type ChatModel interface {
	ChatJSON(ctx context.Context, system, user string, temperature float32) (string, error)
}

// Synthesizer turns a budgeted context into a validated post.
type Synthesizer struct {
	chat          ChatModel
	conversations *storage.ConversationStore
	maxAttempts   int
	logger        *zap.Logger
}

// NewSynthesizer creates a Synthesizer.
func NewSynthesizer(chat ChatModel, conversations *storage.ConversationStore, maxAttempts int, logger *zap.Logger) *Synthesizer {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Synthesizer{
		chat:          chat,
		conversations: conversations,
		maxAttempts:   maxAttempts,
		logger:        logger,
	}
}

// Synthesize generates a post from the budgeted context and, once the post
// validates, records the query and the post as the conversation's next
// user/assistant exchange. A failed synthesis writes nothing, so retrying the
// request starts from unchanged history. Schema failures are retried up to
// the attempt bound; transport failures are not retried here because the chat
// client already retries them internally.
func (s *Synthesizer) Synthesize(ctx context.Context, conversationID, query string, bctx budget.Context) (*models.GeneratedPost, error) {
	userPrompt := buildUserPrompt(query, bctx)

	var lastReason string
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		prompt := userPrompt
		if lastReason != "" {
			prompt += retryNudge(lastReason)
		}

		raw, err := s.chat.ChatJSON(ctx, systemPrompt, prompt, 0.7)
		if err != nil {
			return nil, err
		}

		post, reason := parsePost(raw)
		if post == nil {
			lastReason = reason
			s.logger.Warn("synthesis attempt produced invalid output",
				zap.String("conversation_id", conversationID),
				zap.Int("attempt", attempt),
				zap.String("reason", reason))
			continue
		}

		if err := s.recordExchange(conversationID, query, post); err != nil {
			return nil, err
		}
		return post, nil
	}

	return nil, errs.New(errs.KindGenerationInvalid,
		"model output failed schema validation after %d attempts: %s", s.maxAttempts, lastReason)
}

// parsePost decodes and validates one model response. Returns a nil post and
// the rejection reason when the response does not satisfy the schema.
func parsePost(raw string) (*models.GeneratedPost, string) {
	var post models.GeneratedPost
	if err := json.Unmarshal([]byte(raw), &post); err != nil {
		return nil, fmt.Sprintf("not valid JSON: %v", err)
	}
	if err := post.Validate(); err != nil {
		return nil, err.Error()
	}
	return &post, ""
}

// recordExchange persists the query and the validated post as the
// conversation's next user/assistant pair so later refinement requests see
// what was asked and what was produced.
func (s *Synthesizer) recordExchange(conversationID, query string, post *models.GeneratedPost) error {
	userTurn, err := models.NewTurn(models.RoleUser, query)
	if err != nil {
		return err
	}
	if err := s.conversations.AppendTurn(conversationID, userTurn); err != nil {
		return err
	}

	content := post.Content
	if len(post.Hashtags) > 0 {
		content += "\n\n" + strings.Join(post.Hashtags, " ")
	}
	assistantTurn, err := models.NewTurn(models.RoleAssistant, content)
	if err != nil {
		return err
	}
	return s.conversations.AppendTurn(conversationID, assistantTurn)
}
