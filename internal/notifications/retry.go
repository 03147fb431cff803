// Package notifications provides the notification outbox, realtime publish,
// and best-effort push fan-out.
package notifications

import (
	"time"
)

// RetryPolicy bounds retries of an outbox write. Backoff maps the 1-based
// attempt number to the sleep before the next attempt.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// SingleAttempt is the default policy: no retry.
func SingleAttempt() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

// FixedDelay retries up to maxAttempts with a constant delay between attempts.
func FixedDelay(maxAttempts int, delay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: maxAttempts,
		Backoff:     func(int) time.Duration { return delay },
	}
}

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) delay(attempt int) time.Duration {
	if p.Backoff == nil {
		return 0
	}
	return p.Backoff(attempt)
}
