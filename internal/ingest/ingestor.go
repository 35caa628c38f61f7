// ABOUTME: Document ingestion pipeline: validate, extract, tier, and persist
// ABOUTME: Indexed-tier documents are chunked and embedded synchronously before the call returns

package ingest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
	"github.com/postforge/postforge/internal/tokens"
)

// Embedder produces embedding vectors for a batch of texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Config bounds what the ingestor will accept.
type Config struct {
	MaxUploadBytes      int64
	MaxDocumentTokens   int
	TierThresholdTokens int
	ChunkSizeTokens     int
	ChunkOverlapTokens  int
}

// Ingestor runs uploads through extraction, tier selection, and storage.
type Ingestor struct {
	cfg      Config
	docs     *storage.DocumentStore
	vectors  *storage.VectorStore
	embedder Embedder
	chunker  *Chunker
	logger   *zap.Logger
}

// NewIngestor creates an Ingestor.
func NewIngestor(cfg Config, docs *storage.DocumentStore, vectors *storage.VectorStore, embedder Embedder, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		cfg:      cfg,
		docs:     docs,
		vectors:  vectors,
		embedder: embedder,
		chunker:  NewChunker(cfg.ChunkSizeTokens, cfg.ChunkOverlapTokens),
		logger:   logger,
	}
}

// Ingest validates and stores an uploaded document, returning its record.
// Once Ingest returns, the document is immediately usable in generation
// requests regardless of tier.
func (in *Ingestor) Ingest(ctx context.Context, filename string, data []byte) (*models.Document, error) {
	if int64(len(data)) > in.cfg.MaxUploadBytes {
		return nil, errs.New(errs.KindPayloadTooLarge,
			"file is %d bytes, the maximum upload size is %d bytes", len(data), in.cfg.MaxUploadBytes)
	}

	text, err := ExtractText(filename, data)
	if err != nil {
		return nil, err
	}

	tokenCount := tokens.Estimate(text)
	if tokenCount > in.cfg.MaxDocumentTokens {
		return nil, errs.New(errs.KindLimitExceeded,
			"document is roughly %d tokens, the maximum is %d", tokenCount, in.cfg.MaxDocumentTokens)
	}

	doc := &models.Document{
		DocumentID: models.NewDocumentID(),
		Filename:   filename,
		SizeBytes:  int64(len(data)),
		TokenCount: tokenCount,
		Tier:       models.TierFor(tokenCount, in.cfg.TierThresholdTokens),
		CreatedAt:  time.Now().UTC(),
	}

	switch doc.Tier {
	case models.TierDirect:
		if err := in.docs.Save(doc, text); err != nil {
			return nil, err
		}
	case models.TierIndexed:
		if err := in.ingestIndexed(ctx, doc, text); err != nil {
			return nil, err
		}
	}

	in.logger.Info("document ingested",
		zap.String("document_id", doc.DocumentID),
		zap.String("filename", filename),
		zap.Int("token_count", tokenCount),
		zap.String("tier", string(doc.Tier)))

	return doc, nil
}

func (in *Ingestor) ingestIndexed(ctx context.Context, doc *models.Document, text string) error {
	chunks := in.chunker.Split(doc.DocumentID, text)

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}

	vectors, err := in.embedder.Embed(ctx, contents)
	if err != nil {
		return err
	}
	if len(vectors) != len(chunks) {
		return errs.New(errs.KindUpstreamUnavailable,
			"embedding provider returned %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Vector = vectors[i]
	}

	if err := in.docs.Save(doc, ""); err != nil {
		return err
	}
	return in.vectors.SaveChunks(chunks)
}
