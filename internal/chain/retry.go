package chain

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	durerr "github.com/quartzlabs/durapool/pkg/errors"
)

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts int           // Maximum number of attempts (including initial)
	BaseDelay   time.Duration // Initial delay between retries
	MaxDelay    time.Duration // Maximum delay between retries
}

// DefaultRetryConfig returns the default retry configuration.
// 3 attempts total (1 initial + 2 retries) with delays: 250ms, 500ms.
// Refresh cycles come around again soon, so long retry tails are not
// worth holding a permit for.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    time.Second,
	}
}

// Retry executes the operation with the default retry configuration.
func Retry[T any](ctx context.Context, operation func() (T, error)) (T, error) {
	return RetryWithConfig(ctx, DefaultRetryConfig(), operation)
}

// RetryWithConfig executes the operation with exponential backoff retry.
func RetryWithConfig[T any](ctx context.Context, cfg RetryConfig, operation func() (T, error)) (T, error) {
	var result T
	var err error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err = operation()
		if err == nil {
			return result, nil
		}

		if !IsRetryable(err) {
			return result, err
		}

		// Don't delay after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			timer := time.NewTimer(backoffDelay(attempt, cfg.BaseDelay, cfg.MaxDelay))
			select {
			case <-ctx.Done():
				timer.Stop()
				return result, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return result, fmt.Errorf("operation failed after %d attempts: %w", cfg.MaxAttempts, err)
}

// backoffDelay computes the delay for the given attempt using
// exponential backoff with jitter. Jitter prevents thundering herd
// when multiple goroutines retry simultaneously.
func backoffDelay(attempt int, baseDelay, maxDelay time.Duration) time.Duration {
	delay := baseDelay * (1 << attempt) // 2^attempt * baseDelay
	if delay > maxDelay {
		delay = maxDelay
	}
	// Jitter in [delay/2, delay); retry jitter does not need crypto randomness.
	half := delay / 2
	return half + rand.N(half) //nolint:gosec // G404: jitter only
}

// IsRetryable returns true if the error should trigger a retry.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, durerr.ErrNetworkError) ||
		errors.Is(err, context.DeadlineExceeded)
}
