// ABOUTME: Tests for the ingestion pipeline with a fake embedding provider
// ABOUTME: Covers size rejection, token ceiling, tier selection, and indexed chunk persistence

package ingest

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
	"github.com/postforge/postforge/internal/storage"
)

type fakeEmbedder struct {
	calls int
	fail  bool
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float64, error) {
	f.calls++
	if f.fail {
		return nil, errs.New(errs.KindUpstreamUnavailable, "embedding provider down")
	}
	vectors := make([][]float64, len(texts))
	for i := range texts {
		vectors[i] = []float64{float64(i), 1, 0}
	}
	return vectors, nil
}

func testIngestor(t *testing.T, cfg Config, embedder Embedder) (*Ingestor, *storage.DB) {
	t.Helper()
	db, err := storage.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	docs := storage.NewDocumentStore(db)
	vectors := storage.NewVectorStore(db)
	return NewIngestor(cfg, docs, vectors, embedder, zap.NewNop()), db
}

func defaultCfg() Config {
	return Config{
		MaxUploadBytes:      3 * 1024 * 1024,
		MaxDocumentTokens:   120_000,
		TierThresholdTokens: 80_000,
		ChunkSizeTokens:     1000,
		ChunkOverlapTokens:  100,
	}
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i)
	}
	return strings.Join(parts, " ")
}

func TestIngest_RejectsOversizedUpload(t *testing.T) {
	cfg := defaultCfg()
	cfg.MaxUploadBytes = 100
	ingestor, _ := testIngestor(t, cfg, &fakeEmbedder{})

	_, err := ingestor.Ingest(context.Background(), "big.txt", []byte(words(200)))
	if errs.KindOf(err) != errs.KindPayloadTooLarge {
		t.Errorf("KindOf(err) = %v, want PayloadTooLarge", errs.KindOf(err))
	}
}

func TestIngest_RejectsUnsupportedFormat(t *testing.T) {
	ingestor, _ := testIngestor(t, defaultCfg(), &fakeEmbedder{})

	_, err := ingestor.Ingest(context.Background(), "photo.png", []byte{0x89, 0x50})
	if errs.KindOf(err) != errs.KindUnsupportedFormat {
		t.Errorf("KindOf(err) = %v, want UnsupportedFormat", errs.KindOf(err))
	}
}

func TestIngest_RejectsOverTokenCeiling(t *testing.T) {
	cfg := defaultCfg()
	cfg.MaxDocumentTokens = 100
	ingestor, _ := testIngestor(t, cfg, &fakeEmbedder{})

	_, err := ingestor.Ingest(context.Background(), "long.txt", []byte(words(500)))
	if errs.KindOf(err) != errs.KindLimitExceeded {
		t.Errorf("KindOf(err) = %v, want LimitExceeded", errs.KindOf(err))
	}
}

func TestIngest_DirectTierKeepsFullText(t *testing.T) {
	embedder := &fakeEmbedder{}
	ingestor, db := testIngestor(t, defaultCfg(), embedder)

	text := "short document that fits well under the threshold"
	doc, err := ingestor.Ingest(context.Background(), "note.txt", []byte(text))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if doc.Tier != models.TierDirect {
		t.Errorf("Tier = %v, want direct", doc.Tier)
	}
	if embedder.calls != 0 {
		t.Errorf("embedder called %d times for direct tier, want 0", embedder.calls)
	}

	stored, err := storage.NewDocumentStore(db).FullText(doc.DocumentID)
	if err != nil {
		t.Fatalf("FullText() error = %v", err)
	}
	if stored != text {
		t.Errorf("stored full text = %q", stored)
	}
}

func TestIngest_IndexedTierChunksAndEmbeds(t *testing.T) {
	cfg := defaultCfg()
	cfg.TierThresholdTokens = 100
	embedder := &fakeEmbedder{}
	ingestor, db := testIngestor(t, cfg, embedder)

	doc, err := ingestor.Ingest(context.Background(), "report.txt", []byte(words(3000)))
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}

	if doc.Tier != models.TierIndexed {
		t.Errorf("Tier = %v, want indexed", doc.Tier)
	}
	if embedder.calls != 1 {
		t.Errorf("embedder called %d times, want one batch call", embedder.calls)
	}

	count, err := storage.NewVectorStore(db).ChunkCount(doc.DocumentID)
	if err != nil {
		t.Fatalf("ChunkCount() error = %v", err)
	}
	if count == 0 {
		t.Error("indexed document should have stored chunks")
	}
}

func TestIngest_EmbedFailureNothingStored(t *testing.T) {
	cfg := defaultCfg()
	cfg.TierThresholdTokens = 100
	ingestor, db := testIngestor(t, cfg, &fakeEmbedder{fail: true})

	_, err := ingestor.Ingest(context.Background(), "report.txt", []byte(words(3000)))
	if errs.KindOf(err) != errs.KindUpstreamUnavailable {
		t.Fatalf("KindOf(err) = %v, want UpstreamUnavailable", errs.KindOf(err))
	}

	// The failed document must not be half-visible
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 0 {
		t.Errorf("documents stored after embed failure = %d, want 0", count)
	}
}
