// ABOUTME: Tests for search result URL normalization
// ABOUTME: Normalized URLs are the deduplication identity across providers

package models

import "testing"

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercase host",
			in:   "https://Example.COM/Article",
			want: "https://example.com/Article",
		},
		{
			name: "trailing slash trimmed",
			in:   "https://example.com/article/",
			want: "https://example.com/article",
		},
		{
			name: "fragment dropped",
			in:   "https://example.com/article#section-2",
			want: "https://example.com/article",
		},
		{
			name: "query preserved",
			in:   "https://example.com/a?id=1",
			want: "https://example.com/a?id=1",
		},
		{
			name: "surrounding whitespace",
			in:   "  https://example.com/a  ",
			want: "https://example.com/a",
		},
		{
			name: "unparseable input trimmed",
			in:   "not a url/",
			want: "not a url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL_EquivalentForms(t *testing.T) {
	// Two providers returning the same page in different forms must collide.
	a := NormalizeURL("https://example.com/post/")
	b := NormalizeURL("https://EXAMPLE.com/post#top")
	if a != b {
		t.Errorf("equivalent URLs normalize differently: %q vs %q", a, b)
	}
}
