// ABOUTME: Exa search provider
// ABOUTME: API key travels in the x-api-key header, page text requested inline

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

const exaEndpoint = "https://api.exa.ai/search"

// ExaProvider searches the web through the Exa API.
type ExaProvider struct {
	apiKey     string
	httpClient *http.Client
}

// NewExaProvider creates an ExaProvider.
func NewExaProvider(apiKey string, timeout time.Duration) *ExaProvider {
	return &ExaProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *ExaProvider) Name() string { return "exa" }

type exaRequest struct {
	Query      string      `json:"query"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text bool `json:"text"`
}

type exaResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// Search implements Provider.
func (p *ExaProvider) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	body, err := json.Marshal(exaRequest{
		Query:      query,
		NumResults: maxResults,
		Contents:   exaContents{Text: true},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, exaEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstreamUnavailable, err, "exa request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindUpstreamUnavailable, "exa returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, errs.Wrap(errs.KindUpstreamUnavailable, err, "failed to read exa response")
	}

	var er exaResponse
	if err := json.Unmarshal(data, &er); err != nil {
		return nil, errs.Wrap(errs.KindUpstreamUnavailable, err, "malformed exa response")
	}

	results := make([]models.SearchResult, 0, len(er.Results))
	for _, r := range er.Results {
		results = append(results, models.SearchResult{
			Source:  p.Name(),
			URL:     r.URL,
			Title:   r.Title,
			Content: r.Text,
		})
	}
	return results, nil
}
