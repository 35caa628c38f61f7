// ABOUTME: Tests for the synthesis retry loop with a scripted chat model
// ABOUTME: Covers schema retry, terminal invalidity, and exchange recording

package synthesis

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/budget"
	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
)

type scriptedChat struct {
	responses []string
	err       error
	prompts   []string
}

func (s *scriptedChat) ChatJSON(_ context.Context, _ string, user string, _ float32) (string, error) {
	s.prompts = append(s.prompts, user)
	if s.err != nil {
		return "", s.err
	}
	i := len(s.prompts) - 1
	if i >= len(s.responses) {
		i = len(s.responses) - 1
	}
	return s.responses[i], nil
}

func testSynthesizer(t *testing.T, chat ChatModel, maxAttempts int) (*Synthesizer, *storage.ConversationStore) {
	t.Helper()
	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	conversations := storage.NewConversationStore(db)
	return NewSynthesizer(chat, conversations, maxAttempts, zap.NewNop()), conversations
}

func webContext(findings string) budget.Context {
	return budget.Context{Tool: models.ToolWeb, Findings: findings}
}

const validResponse = `{"content": "A solid post about Go.", "hashtags": ["golang", "#Engineering"], "key_points": ["point one"]}`

func TestSynthesize_ValidFirstAttempt(t *testing.T) {
	chat := &scriptedChat{responses: []string{validResponse}}
	s, conversations := testSynthesizer(t, chat, 3)

	post, err := s.Synthesize(context.Background(), "conv_1", "write about Go", webContext("findings"))
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	if post.Content != "A solid post about Go." {
		t.Errorf("Content = %q", post.Content)
	}
	if len(post.Hashtags) != 2 || post.Hashtags[0] != "#golang" {
		t.Errorf("Hashtags = %v, want normalized with # prefix", post.Hashtags)
	}

	turns, err := conversations.GetRecent("conv_1", 10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(turns) != 2 || turns[0].Role != models.RoleUser || turns[1].Role != models.RoleAssistant {
		t.Fatalf("turns = %+v, want a user/assistant pair", turns)
	}
	if turns[0].Content != "write about Go" {
		t.Errorf("user turn = %q, want the query", turns[0].Content)
	}
	if !strings.Contains(turns[1].Content, "#golang #Engineering") {
		t.Errorf("assistant turn %q should carry the hashtags", turns[1].Content)
	}
}

func TestSynthesize_RetriesAfterSchemaFailure(t *testing.T) {
	chat := &scriptedChat{responses: []string{
		`this is not json`,
		`{"content": "", "hashtags": []}`,
		validResponse,
	}}
	s, _ := testSynthesizer(t, chat, 3)

	post, err := s.Synthesize(context.Background(), "conv_1", "write about Go", webContext("findings"))
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if post == nil || post.Content == "" {
		t.Fatal("expected a valid post on the third attempt")
	}

	if len(chat.prompts) != 3 {
		t.Fatalf("chat called %d times, want 3", len(chat.prompts))
	}
	if !strings.Contains(chat.prompts[1], "rejected") {
		t.Error("retry prompt should explain the previous rejection")
	}
	if strings.Contains(chat.prompts[0], "rejected") {
		t.Error("first prompt should carry no rejection nudge")
	}
}

func TestSynthesize_TerminalGenerationInvalid(t *testing.T) {
	chat := &scriptedChat{responses: []string{`still not json`}}
	s, conversations := testSynthesizer(t, chat, 3)

	_, err := s.Synthesize(context.Background(), "conv_1", "write about Go", webContext("findings"))
	if errs.KindOf(err) != errs.KindGenerationInvalid {
		t.Fatalf("KindOf(err) = %v, want GenerationInvalid", errs.KindOf(err))
	}
	if len(chat.prompts) != 3 {
		t.Errorf("chat called %d times, want the full attempt budget", len(chat.prompts))
	}

	// A failed synthesis must leave the conversation empty, user turn included
	turns, err := conversations.GetRecent("conv_1", 10)
	if err != nil {
		t.Fatalf("GetRecent() error = %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("turns after failed synthesis = %d, want 0", len(turns))
	}
}

func TestSynthesize_TransportErrorNotRetriedHere(t *testing.T) {
	chat := &scriptedChat{err: errs.New(errs.KindUpstreamUnavailable, "model down")}
	s, _ := testSynthesizer(t, chat, 3)

	_, err := s.Synthesize(context.Background(), "conv_1", "write about Go", webContext("findings"))
	if errs.KindOf(err) != errs.KindUpstreamUnavailable {
		t.Fatalf("KindOf(err) = %v, want UpstreamUnavailable", errs.KindOf(err))
	}
	if len(chat.prompts) != 1 {
		t.Errorf("chat called %d times, transport failures should surface immediately", len(chat.prompts))
	}
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt("refine the hook", budget.Context{
		Tool:     models.ToolDocument,
		History:  "User: write about Go\nAssistant: done",
		Findings: "passage one",
	})

	if !strings.Contains(prompt, "Request: refine the hook") {
		t.Error("prompt missing the request line")
	}
	if !strings.Contains(prompt, "Conversation so far") {
		t.Error("prompt missing the history block")
	}
	if !strings.Contains(prompt, "uploaded document") {
		t.Error("prompt should label the material by source tool")
	}

	bare := buildUserPrompt("topic", budget.Context{Tool: models.ToolWeb})
	if !strings.Contains(bare, "no material retrieved") {
		t.Error("empty findings should be flagged to the model")
	}
}
