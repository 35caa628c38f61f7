// ABOUTME: Caption track download and json3 transcript assembly
// ABOUTME: Segments are joined in event order with collapsed whitespace

package video

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/postforge/postforge/internal/errs"
)

// Fetcher downloads a resource by URL. It exists so the normalizer can be
// tested without touching the network.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	httpClient *http.Client
	maxBytes   int64
}

// NewHTTPFetcher creates an HTTPFetcher with a per-request timeout and a
// response size ceiling.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64) *HTTPFetcher {
	return &HTTPFetcher{
		httpClient: &http.Client{Timeout: timeout},
		maxBytes:   maxBytes,
	}
}

// Fetch downloads the URL body.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", androidUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errs.Wrap(errs.KindSourceUnavailable, err, "download failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(errs.KindSourceUnavailable, "download returned status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
}

type captionDocument struct {
	Events []struct {
		Segs []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// parseCaptions turns a json3 caption document into a flat transcript.
func parseCaptions(data []byte) (string, error) {
	var doc captionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", errs.Wrap(errs.KindSourceUnavailable, err, "malformed caption track")
	}

	var sb strings.Builder
	for _, event := range doc.Events {
		for _, seg := range event.Segs {
			sb.WriteString(seg.UTF8)
		}
	}

	transcript := strings.Join(strings.Fields(sb.String()), " ")
	if transcript == "" {
		return "", errs.New(errs.KindSourceUnavailable, "caption track contained no text")
	}
	return transcript, nil
}
