// ABOUTME: SearchResult is a single web research hit from one provider
// ABOUTME: Identity for deduplication is the normalized URL, first seen wins
package models

import (
	"net/url"
	"strings"
)

// SearchResult is one result from a web search provider.
type SearchResult struct {
	Source  string `json:"source"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NormalizeURL canonicalizes a URL for deduplication: lowercase scheme and
// host, fragment dropped, trailing slash trimmed. Unparseable input is
// returned trimmed so that identical junk still deduplicates.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return strings.TrimRight(raw, "/")
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.Path = strings.TrimRight(u.Path, "/")

	return u.String()
}
