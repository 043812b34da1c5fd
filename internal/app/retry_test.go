package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryPolicy_Delay(t *testing.T) {
	policy := RetryPolicy{
		MaxAttempts: 3,
		Backoff:     []time.Duration{time.Second, 2 * time.Second, 4 * time.Second},
	}

	tests := []struct {
		name     string
		attempt  int
		expected time.Duration
	}{
		{"first attempt", 1, time.Second},
		{"second attempt", 2, 2 * time.Second},
		{"third attempt", 3, 4 * time.Second},
		{"beyond schedule reuses last entry", 7, 4 * time.Second},
		{"attempt below one clamps to first entry", 0, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, policy.Delay(tt.attempt))
		})
	}
}

func TestRetryPolicy_Delay_EmptySchedule(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3}
	assert.Equal(t, time.Duration(0), policy.Delay(1))
}
