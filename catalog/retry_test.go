package catalog

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoff_EventualSuccess(t *testing.T) {
	attempts := 0
	fetch := func() error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary error")
		}
		return nil
	}

	err := retryWithBackoff(context.Background(), slog.Default(), fetch, 5, time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 3, attempts, "should succeed on third attempt")
}

func TestRetryWithBackoff_AllAttemptsFail(t *testing.T) {
	attempts := 0
	expectedErr := errors.New("persistent error")
	fetch := func() error {
		attempts++
		return expectedErr
	}

	err := retryWithBackoff(context.Background(), slog.Default(), fetch, 3, time.Millisecond)
	assert.Equal(t, expectedErr, err, "should return the last error")
	assert.Equal(t, 3, attempts)
}

func TestRetryWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	fetch := func() error {
		attempts++
		if attempts == 2 {
			cancel()
		}
		return errors.New("error")
	}

	err := retryWithBackoff(ctx, slog.Default(), fetch, 10, time.Millisecond)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, attempts)
}

func TestRetryWithBackoff_InvalidAttempts(t *testing.T) {
	err := retryWithBackoff(context.Background(), slog.Default(), func() error { return nil }, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
}

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		name    string
		base    time.Duration
		attempt int
		want    time.Duration
	}{
		{"first retry uses base", 500 * time.Millisecond, 1, 500 * time.Millisecond},
		{"doubles per attempt", 500 * time.Millisecond, 3, 2 * time.Second},
		{"capped", 500 * time.Millisecond, 10, MaxRetryDelay},
		{"large attempt does not overflow", 500 * time.Millisecond, 200, MaxRetryDelay},
		{"base above cap", time.Hour, 1, MaxRetryDelay},
		{"zero base", 0, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, backoffDelay(tt.base, tt.attempt))
		})
	}
}
