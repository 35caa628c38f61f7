// ABOUTME: Centralized configuration for the post research service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all configuration for the research and synthesis engine.
type Config struct {
	// Server settings
	HTTPAddr string
	DBPath   string

	// OpenAI settings
	OpenAIKey      string
	ChatModel      string
	EmbeddingModel string
	LLMTimeout     time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Web research settings
	TavilyKey          string
	ExaKey             string
	SearchTimeout      time.Duration
	ResultsPerProvider int
	ResultMaxChars     int

	// Video settings
	VideoMaxDuration  time.Duration
	ProbeTimeout      time.Duration
	FetchTimeout      time.Duration
	TranscribeTimeout time.Duration

	// Document settings
	MaxUploadBytes      int64
	TierThresholdTokens int
	MaxDocumentTokens   int
	ChunkSizeTokens     int
	ChunkOverlapTokens  int
	RetrievalTopN       int
	MaxSubQueries       int

	// Synthesis settings
	ContextBudgetTokens  int
	HistoryTurns         int
	SynthesisMaxAttempts int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr: getEnv("POSTFORGE_ADDR", ":8080"),
		DBPath:   getEnv("POSTFORGE_DB", defaultDBPath()),

		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		ChatModel:      getEnv("POSTFORGE_CHAT_MODEL", "gpt-4o-mini"),
		EmbeddingModel: getEnv("POSTFORGE_EMBEDDING_MODEL", "text-embedding-3-small"),
		LLMTimeout:     getEnvDuration("POSTFORGE_LLM_TIMEOUT", 60*time.Second),
		MaxRetries:     getEnvInt("POSTFORGE_LLM_MAX_RETRIES", 3),
		RetryDelay:     getEnvDuration("POSTFORGE_LLM_RETRY_DELAY", 2*time.Second),

		TavilyKey:          os.Getenv("TAVILY_API_KEY"),
		ExaKey:             os.Getenv("EXA_API_KEY"),
		SearchTimeout:      getEnvDuration("POSTFORGE_SEARCH_TIMEOUT", 10*time.Second),
		ResultsPerProvider: getEnvInt("POSTFORGE_SEARCH_RESULTS", 3),
		ResultMaxChars:     getEnvInt("POSTFORGE_RESULT_MAX_CHARS", 4000),

		VideoMaxDuration:  getEnvDuration("POSTFORGE_VIDEO_MAX_DURATION", 15*time.Minute),
		ProbeTimeout:      getEnvDuration("POSTFORGE_VIDEO_PROBE_TIMEOUT", 10*time.Second),
		FetchTimeout:      getEnvDuration("POSTFORGE_VIDEO_FETCH_TIMEOUT", 30*time.Second),
		TranscribeTimeout: getEnvDuration("POSTFORGE_TRANSCRIBE_TIMEOUT", 120*time.Second),

		MaxUploadBytes:      getEnvInt64("POSTFORGE_MAX_UPLOAD_BYTES", 3*1024*1024),
		TierThresholdTokens: getEnvInt("POSTFORGE_TIER_THRESHOLD", 80_000),
		MaxDocumentTokens:   getEnvInt("POSTFORGE_MAX_DOCUMENT_TOKENS", 120_000),
		ChunkSizeTokens:     getEnvInt("POSTFORGE_CHUNK_SIZE", 1000),
		ChunkOverlapTokens:  getEnvInt("POSTFORGE_CHUNK_OVERLAP", 100),
		RetrievalTopN:       getEnvInt("POSTFORGE_RETRIEVAL_TOP_N", 10),
		MaxSubQueries:       getEnvInt("POSTFORGE_MAX_SUB_QUERIES", 5),

		ContextBudgetTokens:  getEnvInt("POSTFORGE_CONTEXT_BUDGET", 15_000),
		HistoryTurns:         getEnvInt("POSTFORGE_HISTORY_TURNS", 2),
		SynthesisMaxAttempts: getEnvInt("POSTFORGE_SYNTHESIS_ATTEMPTS", 3),
	}

	return cfg, cfg.Validate()
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.TierThresholdTokens <= 0 {
		return fmt.Errorf("POSTFORGE_TIER_THRESHOLD must be positive, got %d", c.TierThresholdTokens)
	}
	if c.MaxDocumentTokens < c.TierThresholdTokens {
		return fmt.Errorf("POSTFORGE_MAX_DOCUMENT_TOKENS (%d) must be >= tier threshold (%d)",
			c.MaxDocumentTokens, c.TierThresholdTokens)
	}
	if c.ChunkOverlapTokens >= c.ChunkSizeTokens {
		return fmt.Errorf("POSTFORGE_CHUNK_OVERLAP (%d) must be smaller than chunk size (%d)",
			c.ChunkOverlapTokens, c.ChunkSizeTokens)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("POSTFORGE_LLM_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.SynthesisMaxAttempts < 1 {
		return fmt.Errorf("POSTFORGE_SYNTHESIS_ATTEMPTS must be at least 1, got %d", c.SynthesisMaxAttempts)
	}
	if c.ContextBudgetTokens <= 0 {
		return fmt.Errorf("POSTFORGE_CONTEXT_BUDGET must be positive, got %d", c.ContextBudgetTokens)
	}
	if c.HistoryTurns < 0 {
		return fmt.Errorf("POSTFORGE_HISTORY_TURNS must be >= 0, got %d", c.HistoryTurns)
	}
	return nil
}

func defaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "postforge.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "postforge", "postforge.db")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvInt64(key string, defaultVal int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
