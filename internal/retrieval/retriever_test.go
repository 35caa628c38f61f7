// ABOUTME: Tests for multi-query retrieval with fake expansion and embeddings
// ABOUTME: Document-order reassembly and expansion degradation are the key cases

package retrieval

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
)

type fakeExpander struct {
	variants []string
	err      error
	calls    int
}

func (f *fakeExpander) ExpandQuery(_ context.Context, _ string, _ int) ([]string, error) {
	f.calls++
	return f.variants, f.err
}

type fakeEmbedder struct {
	vector []float64
	calls  [][]string
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls = append(f.calls, texts)
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = f.vector
	}
	return vectors, nil
}

func setup(t *testing.T, cfg Config, expander Expander, embedder Embedder) (*Retriever, *storage.DocumentStore, *storage.VectorStore) {
	t.Helper()
	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	docs := storage.NewDocumentStore(db)
	vectors := storage.NewVectorStore(db)
	return NewRetriever(cfg, docs, vectors, expander, embedder, zap.NewNop()), docs, vectors
}

func storeIndexedDoc(t *testing.T, docs *storage.DocumentStore, vectors *storage.VectorStore, id string, chunks []models.Chunk) {
	t.Helper()
	err := docs.Save(&models.Document{
		DocumentID: id,
		Filename:   "doc.pdf",
		SizeBytes:  1,
		TokenCount: 100_000,
		Tier:       models.TierIndexed,
		CreatedAt:  time.Now().UTC(),
	}, "")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := vectors.SaveChunks(chunks); err != nil {
		t.Fatalf("SaveChunks() error = %v", err)
	}
}

func TestRetrieve_UnknownDocument(t *testing.T) {
	r, _, _ := setup(t, Config{TopN: 10, MaxSubQueries: 5}, &fakeExpander{}, &fakeEmbedder{vector: []float64{1, 0}})

	_, err := r.Retrieve(context.Background(), "doc_missing", "query")
	if errs.KindOf(err) != errs.KindNotFound {
		t.Errorf("KindOf(err) = %v, want NotFound", errs.KindOf(err))
	}
}

func TestRetrieve_DocumentOrderReassembly(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{1, 0, 0}}
	r, docs, vectors := setup(t, Config{TopN: 2, MaxSubQueries: 1}, &fakeExpander{}, embedder)

	// The best-scoring chunk sits late in the document; order must follow
	// position, not score.
	storeIndexedDoc(t, docs, vectors, "doc_1", []models.Chunk{
		{ChunkID: "chunk_a", DocumentID: "doc_1", Position: 0, Content: "early passage", Vector: []float64{1, 0.2, 0}},
		{ChunkID: "chunk_b", DocumentID: "doc_1", Position: 1, Content: "irrelevant middle", Vector: []float64{0, 1, 0}},
		{ChunkID: "chunk_c", DocumentID: "doc_1", Position: 2, Content: "late passage", Vector: []float64{1, 0, 0}},
	})

	passage, err := r.Retrieve(context.Background(), "doc_1", "query")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	want := "early passage\n\nlate passage"
	if passage != want {
		t.Errorf("Retrieve() = %q, want %q", passage, want)
	}
}

func TestRetrieve_ExpansionVariantsSearched(t *testing.T) {
	expander := &fakeExpander{variants: []string{"variant one", "variant two"}}
	embedder := &fakeEmbedder{vector: []float64{1, 0, 0}}
	r, docs, vectors := setup(t, Config{TopN: 10, MaxSubQueries: 5}, expander, embedder)

	storeIndexedDoc(t, docs, vectors, "doc_1", []models.Chunk{
		{ChunkID: "chunk_a", DocumentID: "doc_1", Position: 0, Content: "content", Vector: []float64{1, 0, 0}},
	})

	if _, err := r.Retrieve(context.Background(), "doc_1", "original"); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if len(embedder.calls) != 1 {
		t.Fatalf("embedder called %d times, want one batch", len(embedder.calls))
	}
	batch := embedder.calls[0]
	if len(batch) != 3 || batch[0] != "original" {
		t.Errorf("embedded queries = %v, want original plus two variants", batch)
	}
}

func TestRetrieve_ExpansionFailureDegrades(t *testing.T) {
	expander := &fakeExpander{err: errors.New("model unavailable")}
	embedder := &fakeEmbedder{vector: []float64{1, 0, 0}}
	r, docs, vectors := setup(t, Config{TopN: 10, MaxSubQueries: 5}, expander, embedder)

	storeIndexedDoc(t, docs, vectors, "doc_1", []models.Chunk{
		{ChunkID: "chunk_a", DocumentID: "doc_1", Position: 0, Content: "content", Vector: []float64{1, 0, 0}},
	})

	passage, err := r.Retrieve(context.Background(), "doc_1", "original")
	if err != nil {
		t.Fatalf("Retrieve() should degrade to the original query, got error %v", err)
	}
	if passage != "content" {
		t.Errorf("Retrieve() = %q", passage)
	}

	if len(embedder.calls[0]) != 1 {
		t.Errorf("embedded %d queries after expansion failure, want just the original", len(embedder.calls[0]))
	}
}

func TestRetrieve_CapsSubQueries(t *testing.T) {
	expander := &fakeExpander{variants: []string{"v1", "v2", "v3", "v4", "v5", "v6"}}
	embedder := &fakeEmbedder{vector: []float64{1, 0, 0}}
	r, docs, vectors := setup(t, Config{TopN: 10, MaxSubQueries: 3}, expander, embedder)

	storeIndexedDoc(t, docs, vectors, "doc_1", []models.Chunk{
		{ChunkID: "chunk_a", DocumentID: "doc_1", Position: 0, Content: "content", Vector: []float64{1, 0, 0}},
	})

	if _, err := r.Retrieve(context.Background(), "doc_1", "original"); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(embedder.calls[0]) != 3 {
		t.Errorf("embedded %d queries, want capped at 3", len(embedder.calls[0]))
	}
}

func TestRetrieve_NoRelevantChunks(t *testing.T) {
	embedder := &fakeEmbedder{vector: []float64{1, 0, 0}}
	r, docs, vectors := setup(t, Config{TopN: 10, MaxSubQueries: 1}, &fakeExpander{}, embedder)

	storeIndexedDoc(t, docs, vectors, "doc_1", nil)

	passage, err := r.Retrieve(context.Background(), "doc_1", "query")
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if passage != "" {
		t.Errorf("Retrieve() = %q, want empty for a chunkless document", passage)
	}
}
