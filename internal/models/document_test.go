// ABOUTME: Tests for document tier assignment
// ABOUTME: Verifies the 80k boundary is deterministic and inclusive on the direct side

package models

import "testing"

func TestTierFor(t *testing.T) {
	const threshold = 80_000

	tests := []struct {
		name       string
		tokenCount int
		want       Tier
	}{
		{"small document", 50_000, TierDirect},
		{"exactly at boundary", 80_000, TierDirect},
		{"one over boundary", 80_001, TierIndexed},
		{"large document", 120_000, TierIndexed},
		{"empty document", 0, TierDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.tokenCount, threshold); got != tt.want {
				t.Errorf("TierFor(%d, %d) = %v, want %v", tt.tokenCount, threshold, got, tt.want)
			}
		})
	}
}

func TestNewDocumentID_Unique(t *testing.T) {
	a := NewDocumentID()
	b := NewDocumentID()
	if a == b {
		t.Error("NewDocumentID() should produce unique IDs")
	}
	if len(a) <= len("doc_") {
		t.Errorf("NewDocumentID() = %q, too short", a)
	}
}
