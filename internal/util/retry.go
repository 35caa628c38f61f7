// ABOUTME: Retry utilities for external API calls with exponential backoff
// ABOUTME: Shared by the LLM client so all upstream retries behave the same
package util

import (
	"math/rand/v2"
	"time"
)

// Backoff returns the jittered delay before retry number attempt. The base
// delay doubles each attempt up to maxDelay, then jitter of up to 25% in
// either direction is applied so concurrent callers spread out. A maxDelay
// of zero or less means no ceiling.
func Backoff(baseDelay time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in the bit shift
	if attempt > 30 {
		attempt = 30
	}
	delay := baseDelay << uint(attempt)
	overflowed := delay <= 0 || delay/baseDelay != 1<<uint(attempt)
	if maxDelay > 0 && (overflowed || delay > maxDelay) {
		delay = maxDelay
	} else if overflowed {
		delay = baseDelay
	}

	// Jitter: -25% to +25%
	if half := int64(delay) / 2; half > 0 {
		return delay + time.Duration(rand.Int64N(half)) - delay/4
	}
	return delay
}
