// ABOUTME: Fans one query out to all search providers and merges their results
// ABOUTME: Results merge in fixed provider order with first-seen URL dedupe

package research

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/postforge/postforge/internal/errs"
	"github.com/postforge/postforge/internal/models"
)

// AggregatorConfig bounds the fanout.
type AggregatorConfig struct {
	ResultsPerProvider int
	ResultMaxChars     int
	ProviderTimeout    time.Duration
}

// Aggregator runs a query against every configured provider in parallel.
// One provider failing is tolerated; all of them failing is not.
type Aggregator struct {
	cfg       AggregatorConfig
	providers []Provider
	logger    *zap.Logger
}

// NewAggregator creates an Aggregator. Provider order is fixed at construction
// and determines merge order, so output is deterministic for a given set of
// provider responses.
func NewAggregator(cfg AggregatorConfig, providers []Provider, logger *zap.Logger) *Aggregator {
	return &Aggregator{cfg: cfg, providers: providers, logger: logger}
}

// Search fans the query out and merges results. Duplicate URLs keep the copy
// from the earliest provider in construction order.
func (a *Aggregator) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	if len(a.providers) == 0 {
		return nil, errs.New(errs.KindUpstreamUnavailable, "no search providers configured")
	}

	slots := make([][]models.SearchResult, len(a.providers))
	failures := make([]error, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)
	for i, provider := range a.providers {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, a.cfg.ProviderTimeout)
			defer cancel()

			results, err := provider.Search(pctx, query, a.cfg.ResultsPerProvider)
			if err != nil {
				// Tolerated unless every provider fails
				a.logger.Warn("search provider failed",
					zap.String("provider", provider.Name()), zap.Error(err))
				failures[i] = err
				return nil
			}
			slots[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	allFailed := true
	for _, err := range failures {
		if err == nil {
			allFailed = false
			break
		}
	}
	if allFailed {
		return nil, errs.New(errs.KindUpstreamUnavailable, "all search providers failed for query %q", query)
	}

	return a.merge(slots), nil
}

func (a *Aggregator) merge(slots [][]models.SearchResult) []models.SearchResult {
	seen := make(map[string]bool)
	var merged []models.SearchResult
	for _, slot := range slots {
		for _, result := range slot {
			key := models.NormalizeURL(result.URL)
			if seen[key] {
				continue
			}
			seen[key] = true

			result.Content = truncateRunes(result.Content, a.cfg.ResultMaxChars)
			merged = append(merged, result)
		}
	}
	return merged
}

// truncateRunes caps s at max characters, cutting on a rune boundary so a
// multibyte character at the limit is dropped whole rather than split.
func truncateRunes(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// FormatFindings renders merged results as the findings block handed to
// synthesis, one numbered source per result.
func FormatFindings(results []models.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	sections := make([]string, len(results))
	for i, r := range results {
		sections[i] = fmt.Sprintf("Source %d (%s): %s\nURL: %s\n%s",
			i+1, r.Source, r.Title, r.URL, r.Content)
	}
	return strings.Join(sections, "\n---\n")
}
