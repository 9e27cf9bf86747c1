package ports

import (
	"context"
	"time"
)

// RateLimitResult reports the outcome of one rate-limit check.
type RateLimitResult struct {
	Allowed bool
	// Remaining is the capacity left in the current window after this call.
	Remaining int
	Limit     int
	// ResetSeconds is the time until the oldest counted request leaves the
	// window; only meaningful when the request was rejected.
	ResetSeconds int
}

// RateLimitStore provides the counting primitive behind the rate limiter.
// The in-memory store is correct for a single process only; swap in the
// Redis store when running more than one instance.
type RateLimitStore interface {
	Check(ctx context.Context, key string, limit int, window time.Duration) (RateLimitResult, error)
}

// EndpointClass buckets routes into rate-limit policies.
type EndpointClass string

const (
	ClassLogin         EndpointClass = "login"
	ClassRegister      EndpointClass = "register"
	ClassPasswordReset EndpointClass = "password_reset"
	ClassTwoFactor     EndpointClass = "two_factor"
	ClassAPI           EndpointClass = "api"
	ClassDefault       EndpointClass = "default"
)

// RateLimiterService applies the per-endpoint-class policy for a client.
type RateLimiterService interface {
	Check(ctx context.Context, class EndpointClass, clientID string) (RateLimitResult, error)
}
