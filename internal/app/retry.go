package app

import "time"

// RetryPolicy describes how data fetches are retried: a bounded number of
// attempts with a fixed backoff schedule. Injected via configuration so
// tests can use a zero-delay policy.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     []time.Duration // Delay after attempt N is Backoff[min(N-1, len-1)]
}

// Delay returns the pause before retrying after the given 1-based attempt.
// The schedule's last entry is reused once the attempts outrun it.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if len(p.Backoff) == 0 {
		return 0
	}
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(p.Backoff) {
		idx = len(p.Backoff) - 1
	}
	return p.Backoff[idx]
}
