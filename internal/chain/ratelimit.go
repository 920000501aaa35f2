package chain

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound RPC calls with a token bucket.
// One limiter guards one endpoint; the refresh fan-out shares it so the
// permit pool cannot overwhelm the RPC node even at full concurrency.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter allowing ratePerSecond requests
// with the given burst.
func NewRateLimiter(ratePerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), burst),
	}
}

// DefaultRateLimiter returns a limiter with default settings:
// 5 requests/second, burst of 10.
func DefaultRateLimiter() *RateLimiter {
	return NewRateLimiter(5, 10)
}

// Allow reports whether a request may proceed immediately.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait blocks until a request is allowed or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
