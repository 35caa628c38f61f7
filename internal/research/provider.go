// ABOUTME: Search provider abstraction for the web research path
// ABOUTME: Providers are interchangeable; the aggregator only sees this interface

package research

import (
	"context"

	"github.com/postforge/postforge/internal/models"
)

// Provider is a web search backend.
type Provider interface {
	// Name identifies the provider in findings and logs.
	Name() string
	// Search runs one query and returns up to maxResults results.
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
}
