// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import (
	"context"
	"log/slog"
	"time"
)

// MaxRetryDelay caps the wait between fetch attempts.
const MaxRetryDelay = 30 * time.Second

// retryWithBackoff runs fetch until it succeeds, the attempts run out or ctx
// is done. The delay doubles after every failed attempt.
func retryWithBackoff(ctx context.Context, logger *slog.Logger, fetch func() error, maxAttempts int, baseDelay time.Duration) error {
	if maxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = fetch()
		if lastErr == nil {
			if attempt > 1 {
				logger.Debug("catalog fetch succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		logger.Debug("catalog fetch failed, will retry", "attempt", attempt, "maxAttempts", maxAttempts, "err", lastErr)

		if attempt == maxAttempts {
			break
		}

		timer := time.NewTimer(backoffDelay(baseDelay, attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

// backoffDelay returns baseDelay * 2^(attempt-1), capped at MaxRetryDelay.
func backoffDelay(baseDelay time.Duration, attempt int) time.Duration {
	if baseDelay <= 0 {
		return 0
	}
	delay := min(baseDelay, MaxRetryDelay)
	for i := 1; i < attempt && delay < MaxRetryDelay; i++ {
		delay = min(delay*2, MaxRetryDelay)
	}
	return delay
}
