// ABOUTME: Tavily search provider
// ABOUTME: Single POST to the search endpoint, API key in the request body

package research

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
)

const tavilyEndpoint = "https://api.tavily.com/search"

// TavilyProvider searches the web through the Tavily API.
type TavilyProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewTavilyProvider creates a TavilyProvider.
func NewTavilyProvider(apiKey string, timeout time.Duration) *TavilyProvider {
	return &TavilyProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *TavilyProvider) Name() string { return "tavily" }

type tavilyRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type tavilyResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements Provider.
func (p *TavilyProvider) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	body, err := json.Marshal(tavilyRequest{APIKey: p.apiKey, Query: query, MaxResults: maxResults})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tavilyEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstreamUnavailable, err, "tavily request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindUpstreamUnavailable, "tavily returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstreamUnavailable, err, "failed to read tavily response")
	}

	var tr tavilyResponse
	if err := json.Unmarshal(data, &tr); err != nil {
		return nil, errs.Wrap(errs.KindUpstreamUnavailable, err, "malformed tavily response")
	}

	results := make([]models.SearchResult, 0, len(tr.Results))
	for _, r := range tr.Results {
		results = append(results, models.SearchResult{
			Source:  p.Name(),
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Content,
		})
	}
	return results, nil
}
