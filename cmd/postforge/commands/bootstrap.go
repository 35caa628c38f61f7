// ABOUTME: Shared service construction for the serve and mcp commands
// ABOUTME: Builds storage, providers, and the orchestrator from one Config

package commands

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/postforge/postforge/internal/budget"
	"github.com/postforge/postforge/internal/config"
	"github.com/postforge/postforge/internal/ingest"
	"github.com/postforge/postforge/internal/llm"
	"github.com/postforge/postforge/internal/orchestrator"
	"github.com/postforge/postforge/internal/research"
	"github.com/postforge/postforge/internal/retrieval"
	"github.com/postforge/postforge/internal/storage"
	"github.com/postforge/postforge/internal/synthesis"
	"github.com/postforge/postforge/internal/video"
)

// services bundles everything a command needs to run.
type services struct {
	cfg    *config.Config
	db     *storage.DB
	orch   *orchestrator.Orchestrator
	logger *zap.Logger
}

func (s *services) close() {
	_ = s.db.Close()
	_ = s.logger.Sync()
}

// buildServices loads configuration and wires the full service graph.
func buildServices() (*services, error) {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}

	logger, err := newLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conversations := storage.NewConversationStore(db)
	documents := storage.NewDocumentStore(db)
	vectors := storage.NewVectorStore(db)

	llmClient, err := llm.NewClient(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        cfg.LLMTimeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	var providers []research.Provider
	if cfg.TavilyKey != "" {
		providers = append(providers, research.NewTavilyProvider(cfg.TavilyKey, cfg.SearchTimeout))
	}
	if cfg.ExaKey != "" {
		providers = append(providers, research.NewExaProvider(cfg.ExaKey, cfg.SearchTimeout))
	}
	if len(providers) == 0 {
		logger.Warn("no search provider keys configured, topic queries will fail")
	}
	aggregator := research.NewAggregator(research.AggregatorConfig{
		ResultsPerProvider: cfg.ResultsPerProvider,
		ResultMaxChars:     cfg.ResultMaxChars,
		ProviderTimeout:    cfg.SearchTimeout,
	}, providers, logger)

	normalizer := video.NewNormalizer(video.NormalizerConfig{
		MaxDuration:       cfg.VideoMaxDuration,
		FetchTimeout:      cfg.FetchTimeout,
		TranscribeTimeout: cfg.TranscribeTimeout,
	},
		video.NewInnertubeProber(cfg.ProbeTimeout),
		video.NewHTTPFetcher(cfg.FetchTimeout, 256<<20),
		llmClient, logger)

	retriever := retrieval.NewRetriever(retrieval.Config{
		TopN:          cfg.RetrievalTopN,
		MaxSubQueries: cfg.MaxSubQueries,
	}, documents, vectors, llmClient, llmClient, logger)

	ingestor := ingest.NewIngestor(ingest.Config{
		MaxUploadBytes:      cfg.MaxUploadBytes,
		MaxDocumentTokens:   cfg.MaxDocumentTokens,
		TierThresholdTokens: cfg.TierThresholdTokens,
		ChunkSizeTokens:     cfg.ChunkSizeTokens,
		ChunkOverlapTokens:  cfg.ChunkOverlapTokens,
	}, documents, vectors, llmClient, logger)

	budgeter := budget.NewBudgeter(cfg.ContextBudgetTokens, logger)
	synthesizer := synthesis.NewSynthesizer(llmClient, conversations, cfg.SynthesisMaxAttempts, logger)

	orch := orchestrator.New(orchestrator.Config{HistoryExchanges: cfg.HistoryTurns},
		conversations, documents, aggregator, research.FormatFindings,
		normalizer, retriever, budgeter, synthesizer, ingestor, logger)

	return &services{cfg: cfg, db: db, orch: orch, logger: logger}, nil
}

// newLogger builds the process logger. MCP runs over stdio, so logs always go
// to stderr.
func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}
