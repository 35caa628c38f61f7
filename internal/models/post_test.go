// ABOUTME: Tests for GeneratedPost schema validation and hashtag normalization
// ABOUTME: Verifies the invariant that every surfaced hashtag starts with '#'

package models

import (
	"reflect"
	"testing"
)

func TestNormalizeHashtag(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already prefixed", "#AI", "#AI"},
		{"missing prefix", "AI", "#AI"},
		{"double prefix collapsed", "##AI", "#AI"},
		{"surrounding whitespace", "  Leadership  ", "#Leadership"},
		{"interior whitespace removed", "machine learning", "#machinelearning"},
		{"empty", "", ""},
		{"only hash", "#", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeHashtag(tt.in); got != tt.want {
				t.Errorf("NormalizeHashtag(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGeneratedPost_Validate(t *testing.T) {
	post := GeneratedPost{
		Content:  "Three things I learned about distributed systems this week.",
		Hashtags: []string{"Engineering", "#Distributed", "", "  "},
	}

	if err := post.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	want := []string{"#Engineering", "#Distributed"}
	if !reflect.DeepEqual(post.Hashtags, want) {
		t.Errorf("Hashtags after Validate = %v, want %v", post.Hashtags, want)
	}
}

func TestGeneratedPost_Validate_EmptyContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty string", ""},
		{"whitespace only", "  \n\t "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post := GeneratedPost{Content: tt.content, Hashtags: []string{"#ok"}}
			if err := post.Validate(); err == nil {
				t.Error("Validate() should reject empty content")
			}
		})
	}
}

func TestGeneratedPost_Validate_NoHashtags(t *testing.T) {
	post := GeneratedPost{Content: "A post without tags."}
	if err := post.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(post.Hashtags) != 0 {
		t.Errorf("Hashtags = %v, want empty", post.Hashtags)
	}
}
