package victorops

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimiter throttles reporting API calls with a token bucket. The
// On-Call API enforces its own per-key limits; staying under them here
// avoids burning a fetch on a 429.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter allowing perSecond calls with the
// given burst size.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Wait blocks until the limiter allows the call, or the context is canceled.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}
