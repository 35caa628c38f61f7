// ABOUTME: Tests for exponential backoff calculation
// ABOUTME: Verifies growth, jitter bounds, and the configurable ceiling

package util

import (
	"testing"
	"time"
)

const testCap = 30 * time.Second

func TestBackoff_ZeroAttempt(t *testing.T) {
	if got := Backoff(time.Second, 0, testCap); got != 0 {
		t.Errorf("Backoff(1s, 0) = %v, want 0", got)
	}
	if got := Backoff(time.Second, -1, testCap); got != 0 {
		t.Errorf("Backoff(1s, -1) = %v, want 0", got)
	}
}

func TestBackoff_WithinJitterBounds(t *testing.T) {
	base := time.Second

	tests := []struct {
		attempt int
		nominal time.Duration
	}{
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
	}

	for _, tt := range tests {
		for i := 0; i < 20; i++ {
			got := Backoff(base, tt.attempt, testCap)
			low := tt.nominal - tt.nominal/4
			high := tt.nominal + tt.nominal/4
			if got < low || got > high {
				t.Errorf("Backoff(1s, %d) = %v, want within [%v, %v]", tt.attempt, got, low, high)
			}
		}
	}
}

func TestBackoff_Capped(t *testing.T) {
	// Large attempts must stay near the ceiling even with jitter.
	for i := 0; i < 20; i++ {
		got := Backoff(time.Second, 25, testCap)
		if got > 38*time.Second {
			t.Errorf("Backoff(1s, 25) = %v, exceeds cap plus jitter", got)
		}
	}
}

func TestBackoff_CustomCap(t *testing.T) {
	for i := 0; i < 20; i++ {
		got := Backoff(time.Second, 10, 5*time.Second)
		if got > 5*time.Second+5*time.Second/4 {
			t.Errorf("Backoff(1s, 10, 5s) = %v, exceeds 5s cap plus jitter", got)
		}
	}
}

func TestBackoff_NoCap(t *testing.T) {
	// A non-positive maxDelay leaves growth unbounded.
	for i := 0; i < 20; i++ {
		got := Backoff(time.Second, 8, 0)
		nominal := 256 * time.Second
		if got < nominal-nominal/4 || got > nominal+nominal/4 {
			t.Errorf("Backoff(1s, 8, 0) = %v, want near %v", got, nominal)
		}
	}
}

func TestBackoff_OverflowSafe(t *testing.T) {
	if got := Backoff(time.Second, 1000, testCap); got <= 0 {
		t.Errorf("Backoff(1s, 1000) = %v, want positive", got)
	}
	if got := Backoff(time.Hour, 30, testCap); got <= 0 || got > 38*time.Second {
		t.Errorf("Backoff(1h, 30) = %v, want within the cap", got)
	}
}
