// ABOUTME: YouTube URL recognition and video id extraction
// ABOUTME: Handles watch, short-link, shorts, and embed URL shapes

package video

import (
	"net/url"
	"strings"
)

// IsVideoURL reports whether the query contains a recognizable YouTube URL.
func IsVideoURL(query string) bool {
	return FindVideoURL(query) != ""
}

// FindVideoURL scans the query's whitespace-separated fields and returns the
// first YouTube URL found, or "".
func FindVideoURL(query string) string {
	for _, field := range strings.Fields(query) {
		if ExtractVideoID(field) != "" {
			return field
		}
	}
	return ""
}

// ExtractVideoID pulls the 11-character video id out of a YouTube URL.
// Returns "" when the input is not a YouTube URL.
func ExtractVideoID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtu.be":
		return validID(strings.TrimPrefix(u.Path, "/"))
	case "youtube.com", "m.youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			return validID(u.Query().Get("v"))
		case strings.HasPrefix(u.Path, "/shorts/"):
			return validID(strings.TrimPrefix(u.Path, "/shorts/"))
		case strings.HasPrefix(u.Path, "/embed/"):
			return validID(strings.TrimPrefix(u.Path, "/embed/"))
		case strings.HasPrefix(u.Path, "/live/"):
			return validID(strings.TrimPrefix(u.Path, "/live/"))
		}
	}
	return ""
}

func validID(id string) string {
	if i := strings.IndexAny(id, "/?&#"); i >= 0 {
		id = id[:i]
	}
	if len(id) != 11 {
		return ""
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return ""
		}
	}
	return id
}
