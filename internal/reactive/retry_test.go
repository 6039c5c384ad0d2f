package reactive

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestRetryWithBackoffSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := retryWithBackoffConfig(nil, "bluetooth", 3, time.Millisecond, 5*time.Millisecond, zerolog.Nop(), func(attempt int) error {
		attempts++
		if attempt < 3 {
			return errors.New("not ready")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestRetryWithBackoffReturnsConnectionFailedAfterExhaustingAttempts(t *testing.T) {
	err := retryWithBackoffConfig(nil, "bluetooth", 2, time.Millisecond, 5*time.Millisecond, zerolog.Nop(), func(attempt int) error {
		return errors.New("daemon unreachable")
	})
	require.Error(t, err)
	var connErr *ConnectionFailedError
	require.ErrorAs(t, err, &connErr)
	require.Equal(t, "bluetooth", connErr.Backend)
}

func TestRetryWithBackoffStopsOnDone(t *testing.T) {
	done := make(chan struct{})
	close(done)

	err := retryWithBackoffConfig(done, "network", 5, time.Second, time.Second, zerolog.Nop(), func(attempt int) error {
		return errors.New("still failing")
	})
	require.Error(t, err)
}
