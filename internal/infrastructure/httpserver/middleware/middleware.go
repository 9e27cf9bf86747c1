package middleware

import (
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances.
type MiddlewareCollection struct {
	JWT       *JWTMiddleware
	Scope     *ScopeMiddleware
	Logging   *LoggingMiddleware
	RateLimit *RateLimitMiddleware
	Metrics   *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware.
func NewMiddlewareCollection(
	authService ports.AuthService,
	tenantService ports.TenantService,
	rateLimiterService ports.RateLimiterService,
	ext sqlx.ExtContext,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:       NewJWTMiddleware(authService, logger),
		Scope:     NewScopeMiddleware(tenantService, ext, logger),
		Logging:   NewLoggingMiddleware(logger),
		RateLimit: NewRateLimitMiddleware(rateLimiterService, logger),
		Metrics:   NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}
