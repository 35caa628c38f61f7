// ABOUTME: OpenAI client for chat completions, embeddings, and transcription
// ABOUTME: Wraps sashabaranov/go-openai with per-call timeouts and bounded retries
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = string(openai.SmallEmbedding3)

	// maxRetryBackoff caps the delay between retries of one upstream call
	maxRetryBackoff = 30 * time.Second
)

// ClientConfig holds configuration for the OpenAI client.
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration for an API key.
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        60 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
}

// Client wraps the OpenAI API with retry logic. Retries cover transport
// failures only; schema-level validation is the caller's concern.
type Client struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a Client with the given configuration.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = DefaultChatModel
	}
	if cfg.EmbeddingModel == "" {
		cfg.EmbeddingModel = DefaultEmbeddingModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &Client{
		client:         openai.NewClient(cfg.APIKey),
		chatModel:      cfg.ChatModel,
		embeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		timeout:        cfg.Timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// ChatJSON runs a chat completion in JSON mode and returns the raw content.
// The model is instructed (via response_format) to emit a single JSON object.
func (c *Client) ChatJSON(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt, maxRetryBackoff)); err != nil {
				return "", err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: temperature,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			continue
		}

		return resp.Choices[0].Message.Content, nil
	}

	return "", errs.Wrap(errs.KindUpstreamUnavailable, lastErr,
		"chat completion failed after %d attempts", c.maxRetries+1)
}

// ExpandQuery asks the chat model for up to max paraphrased retrieval queries.
// Returns only the variations; the caller decides whether to prepend the original.
func (c *Client) ExpandQuery(ctx context.Context, query string, max int) ([]string, error) {
	systemPrompt := `You generate retrieval query variations. Given a query about a document,
produce semantically similar rephrasings that would help retrieve relevant
content from a vector store. Keep the core intent intact.

Return ONLY a JSON object of the form {"queries": ["...", "..."]}.`

	userPrompt := fmt.Sprintf("Original query: %q\nProduce at most %d rephrasings.", query, max)

	content, err := c.ChatJSON(ctx, systemPrompt, userPrompt, 0.7)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Queries []string `json:"queries"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse query expansion: %w", err)
	}

	if max > 0 && len(parsed.Queries) > max {
		parsed.Queries = parsed.Queries[:max]
	}
	return parsed.Queries, nil
}

// Embed generates embedding vectors for a batch of texts.
// Result order matches input order.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.Backoff(c.retryDelay, attempt, maxRetryBackoff)); err != nil {
				return nil, err
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		if len(resp.Data) != len(texts) {
			lastErr = fmt.Errorf("attempt %d: got %d embeddings for %d inputs", attempt+1, len(resp.Data), len(texts))
			continue
		}

		vectors := make([][]float64, len(resp.Data))
		for i, data := range resp.Data {
			vec := make([]float64, len(data.Embedding))
			for j, v := range data.Embedding {
				vec[j] = float64(v)
			}
			vectors[i] = vec
		}
		return vectors, nil
	}

	return nil, errs.Wrap(errs.KindUpstreamUnavailable, lastErr,
		"embedding generation failed after %d attempts", c.maxRetries+1)
}

// Transcribe runs Whisper transcription on a local audio file.
// Transcription is not retried: a single call is already expensive, and the
// caller's timeout bounds the whole operation.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: audioPath,
	})
	if err != nil {
		return "", errs.Wrap(errs.KindUpstreamUnavailable, err, "transcription failed")
	}
	return resp.Text, nil
}

// sleepCtx sleeps for d unless the context is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
