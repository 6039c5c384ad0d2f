package reactive

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// DefaultRetryBaseDelay and DefaultRetryMaxDelay bound the exponential
// backoff RetryWithBackoff uses between attempts.
const (
	DefaultRetryBaseDelay = 1 * time.Second
	DefaultRetryMaxDelay  = 10 * time.Second
)

// RetryWithBackoff runs operation up to maxAttempts times with exponential
// backoff between attempts, the way a D-Bus-backed service retries its
// initial discovery call when the owning daemon (bluetoothd,
// NetworkManager, ...) hasn't finished starting yet. done cancels the wait
// between attempts; it does not interrupt an in-flight operation call.
func RetryWithBackoff(done <-chan struct{}, backend string, maxAttempts int, log zerolog.Logger, operation func(attempt int) error) error {
	return retryWithBackoffConfig(done, backend, maxAttempts, DefaultRetryBaseDelay, DefaultRetryMaxDelay, log, operation)
}

func retryWithBackoffConfig(done <-chan struct{}, backend string, maxAttempts int, baseDelay, maxDelay time.Duration, log zerolog.Logger, operation func(attempt int) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := backoffDelay(attempt, baseDelay, maxDelay)
			log.Debug().Int("attempt", attempt).Dur("delay", delay).Str("backend", backend).Msg("retrying after backend error")
			select {
			case <-time.After(delay):
			case <-done:
				return &ConnectionFailedError{Backend: backend, Err: fmt.Errorf("retry cancelled: %w", lastErr)}
			}
		}

		if err := operation(attempt); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return &ConnectionFailedError{Backend: backend, Err: fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)}
}

// backoffDelay doubles the delay each attempt (attempt 2 -> baseDelay,
// attempt 3 -> 2x, attempt 4 -> 4x, ...), capped at maxDelay.
func backoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	multiplier := uint(1) << uint(attempt-2)
	delay := time.Duration(float64(baseDelay) * float64(multiplier))
	if delay > maxDelay {
		delay = maxDelay
	}
	return delay
}
