// ABOUTME: End-to-end generation flow: dispatch, gather, budget, synthesize
// ABOUTME: Conversation history is snapshotted before the new user turn lands

package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/budget"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
)

// Researcher gathers findings for a topic query.
type Researcher interface {
	Search(ctx context.Context, query string) ([]models.SearchResult, error)
}

// FindingsFormatter renders search results into the findings block.
type FindingsFormatter func([]models.SearchResult) string

// Normalizer resolves a video URL to a transcript.
type Normalizer interface {
	Normalize(ctx context.Context, url string) (*models.TranscriptResult, error)
}

// Retriever answers a query against an indexed document.
type Retriever interface {
	Retrieve(ctx context.Context, documentID, query string) (string, error)
}

// Synthesizer produces the validated post and records the user/assistant
// exchange.
type Synthesizer interface {
	Synthesize(ctx context.Context, conversationID, query string, bctx budget.Context) (*models.GeneratedPost, error)
}

// Ingestor validates and stores an uploaded document.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, data []byte) (*models.Document, error)
}

// Request is one generation request.
type Request struct {
	Query          string
	ConversationID string // "" starts a new conversation
}

// Result is the outcome of a generation request.
type Result struct {
	ConversationID string
	Tool           models.ToolKind
	Post           *models.GeneratedPost
	Truncated      bool
}

// Config bounds the orchestrator.
type Config struct {
	HistoryExchanges int
}

// Orchestrator wires dispatch, research, budgeting, and synthesis together.
type Orchestrator struct {
	cfg           Config
	conversations *storage.ConversationStore
	documents     *storage.DocumentStore
	researcher    Researcher
	format        FindingsFormatter
	normalizer    Normalizer
	retriever     Retriever
	budgeter      *budget.Budgeter
	synthesizer   Synthesizer
	ingestor      Ingestor
	logger        *zap.Logger
}

// New creates an Orchestrator.
func New(cfg Config, conversations *storage.ConversationStore, documents *storage.DocumentStore,
	researcher Researcher, format FindingsFormatter, normalizer Normalizer, retriever Retriever,
	budgeter *budget.Budgeter, synthesizer Synthesizer, ingestor Ingestor, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:           cfg,
		conversations: conversations,
		documents:     documents,
		researcher:    researcher,
		format:        format,
		normalizer:    normalizer,
		retriever:     retriever,
		budgeter:      budgeter,
		synthesizer:   synthesizer,
		ingestor:      ingestor,
		logger:        logger,
	}
}

// Generate runs one request end to end. On failure nothing is written to the
// conversation, so a retry of the same request starts from the same state.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = models.NewConversationID()
	}
	if err := o.conversations.Ensure(conversationID); err != nil {
		return nil, err
	}

	// History and the active document are read before this request mutates
	// anything.
	history, err := o.conversations.GetRecent(conversationID, o.cfg.HistoryExchanges*2)
	if err != nil {
		return nil, err
	}
	activeDoc, err := o.conversations.ActiveDocument(conversationID)
	if err != nil {
		return nil, err
	}

	dispatch := classify(req.Query, activeDoc)
	o.logger.Info("dispatched request",
		zap.String("conversation_id", conversationID),
		zap.String("tool", string(dispatch.Tool)))

	findings, err := o.gather(ctx, dispatch, req.Query)
	if err != nil {
		return nil, err
	}

	bctx := o.budgeter.Build(dispatch.Tool, history, findings)

	// The synthesizer records the user/assistant exchange only after the
	// post validates, so a failed request leaves the conversation untouched.
	post, err := o.synthesizer.Synthesize(ctx, conversationID, req.Query, bctx)
	if err != nil {
		return nil, err
	}

	return &Result{
		ConversationID: conversationID,
		Tool:           dispatch.Tool,
		Post:           post,
		Truncated:      bctx.Truncated,
	}, nil
}

// gather runs the dispatched tool and returns the findings block.
func (o *Orchestrator) gather(ctx context.Context, dispatch Dispatch, query string) (string, error) {
	switch dispatch.Tool {
	case models.ToolDocument:
		return o.gatherDocument(ctx, dispatch.DocumentID, query)
	case models.ToolVideo:
		result, err := o.normalizer.Normalize(ctx, dispatch.VideoURL)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Video: %s by %s\n\n%s", result.Title, result.Author, result.Transcript), nil
	default:
		results, err := o.researcher.Search(ctx, query)
		if err != nil {
			return "", err
		}
		return o.format(results), nil
	}
}

// gatherDocument serves direct-tier documents whole and indexed-tier
// documents through retrieval.
func (o *Orchestrator) gatherDocument(ctx context.Context, documentID, query string) (string, error) {
	doc, err := o.documents.Get(documentID)
	if err != nil {
		return "", err
	}

	if doc.Tier == models.TierDirect {
		return o.documents.FullText(documentID)
	}
	return o.retriever.Retrieve(ctx, documentID, query)
}

// IngestDocument stores an upload and, when a conversation is named, makes it
// that conversation's active document.
func (o *Orchestrator) IngestDocument(ctx context.Context, filename string, data []byte, conversationID string) (*models.Document, error) {
	doc, err := o.ingestor.Ingest(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	if conversationID != "" {
		if err := o.conversations.Ensure(conversationID); err != nil {
			return nil, err
		}
		if err := o.conversations.AssociateDocument(conversationID, doc.DocumentID); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// ClearConversation deletes a conversation's turns and document association.
// Clearing an unknown conversation succeeds.
func (o *Orchestrator) ClearConversation(conversationID string) error {
	return o.conversations.Clear(conversationID)
}
