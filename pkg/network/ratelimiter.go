package network

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outgoing requests with a token bucket
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter
// rate: requests per second (0 = unlimited)
func NewRateLimiter(rps float64) *RateLimiter {
	if rps <= 0 {
		return nil // No rate limiting
	}

	// Bucket starts full with one second worth of tokens
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Wait blocks until a token is available or the context is done
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil // No rate limiting
	}
	return rl.limiter.Wait(ctx)
}
