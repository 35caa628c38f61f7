// ABOUTME: GeneratedPost is the schema-validated output of structured synthesis
// ABOUTME: Invalid synthesizer output is never surfaced as a GeneratedPost
package models

import (
	"errors"
	"strings"
)

// GeneratedPost is a finished short-form social post.
type GeneratedPost struct {
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	KeyPoints []string `json:"key_points,omitempty"`
}

// Validate checks the synthesis schema and normalizes hashtags in place.
// Content must be non-empty; every hashtag ends up prefixed with '#'.
func (p *GeneratedPost) Validate() error {
	if strings.TrimSpace(p.Content) == "" {
		return errors.New("post content is empty")
	}

	normalized := make([]string, 0, len(p.Hashtags))
	for _, tag := range p.Hashtags {
		tag = NormalizeHashtag(tag)
		if tag == "" {
			continue
		}
		normalized = append(normalized, tag)
	}
	p.Hashtags = normalized

	return nil
}

// NormalizeHashtag trims a tag and ensures the leading '#'.
// Returns "" for tags that are empty after trimming.
func NormalizeHashtag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimLeft(tag, "#")
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}
	// Hashtags cannot contain interior whitespace
	tag = strings.Join(strings.Fields(tag), "")
	return "#" + tag
}
