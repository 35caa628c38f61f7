// ABOUTME: Multi-query retrieval over an indexed document's chunks
// ABOUTME: Selected chunks are reassembled in document order, not score order

package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
)

// Expander produces paraphrased variants of a query for broader recall.
type Expander interface {
	ExpandQuery(ctx context.Context, query string, max int) ([]string, error)
}

// Embedder produces embedding vectors for a batch of texts.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Config bounds retrieval.
type Config struct {
	TopN          int
	MaxSubQueries int
}

// Retriever answers a query against one indexed document.
type Retriever struct {
	cfg      Config
	docs     *storage.DocumentStore
	vectors  *storage.VectorStore
	expander Expander
	embedder Embedder
	logger   *zap.Logger
}

// NewRetriever creates a Retriever.
func NewRetriever(cfg Config, docs *storage.DocumentStore, vectors *storage.VectorStore, expander Expander, embedder Embedder, logger *zap.Logger) *Retriever {
	return &Retriever{
		cfg:      cfg,
		docs:     docs,
		vectors:  vectors,
		expander: expander,
		embedder: embedder,
		logger:   logger,
	}
}

// Retrieve returns the passage text most relevant to the query within the
// document. The original query always participates in the search; expansion
// failures degrade to it silently.
func (r *Retriever) Retrieve(ctx context.Context, documentID, query string) (string, error) {
	// Fails with NotFound before any model call when the document is unknown
	if _, err := r.docs.Get(documentID); err != nil {
		return "", err
	}

	queries := r.expandedQueries(ctx, query)

	vectors, err := r.embedder.Embed(ctx, queries)
	if err != nil {
		return "", err
	}
	if len(vectors) != len(queries) {
		return "", errs.New(errs.KindUpstreamUnavailable,
			"embedding provider returned %d vectors for %d queries", len(vectors), len(queries))
	}

	hits, err := r.searchAll(ctx, documentID, vectors)
	if err != nil {
		return "", err
	}

	selected := r.selectTop(hits)
	if len(selected) == 0 {
		return "", nil
	}

	// Reassemble in the order the passages appeared in the document
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].Position < selected[j].Position
	})

	parts := make([]string, len(selected))
	for i, hit := range selected {
		parts[i] = hit.Content
	}
	return strings.Join(parts, "\n\n"), nil
}

// expandedQueries returns the original query plus LLM paraphrases, capped at
// MaxSubQueries total.
func (r *Retriever) expandedQueries(ctx context.Context, query string) []string {
	queries := []string{query}

	if r.cfg.MaxSubQueries <= 1 {
		return queries
	}

	variants, err := r.expander.ExpandQuery(ctx, query, r.cfg.MaxSubQueries-1)
	if err != nil {
		r.logger.Warn("query expansion failed, searching with the original query only",
			zap.Error(err))
		return queries
	}

	for _, v := range variants {
		v = strings.TrimSpace(v)
		if v == "" || v == query {
			continue
		}
		queries = append(queries, v)
		if len(queries) == r.cfg.MaxSubQueries {
			break
		}
	}
	return queries
}

// searchAll runs one similarity lookup per query vector concurrently and
// dedupes hits by chunk id, keeping each chunk's best score.
func (r *Retriever) searchAll(ctx context.Context, documentID string, vectors [][]float64) (map[string]models.ChunkHit, error) {
	var mu sync.Mutex
	best := make(map[string]models.ChunkHit)

	g, _ := errgroup.WithContext(ctx)
	for _, vector := range vectors {
		g.Go(func() error {
			hits, err := r.vectors.SearchSimilar(documentID, vector, r.cfg.TopN)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, hit := range hits {
				if prev, ok := best[hit.ChunkID]; !ok || hit.Score > prev.Score {
					best[hit.ChunkID] = hit
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return best, nil
}

// selectTop ranks deduped hits by score and keeps the top N.
func (r *Retriever) selectTop(best map[string]models.ChunkHit) []models.ChunkHit {
	hits := make([]models.ChunkHit, 0, len(best))
	for _, hit := range best {
		hits = append(hits, hit)
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if r.cfg.TopN > 0 && len(hits) > r.cfg.TopN {
		hits = hits[:r.cfg.TopN]
	}
	return hits
}
