package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/httpserver/helpers"
)

type RateLimitMiddleware struct {
	rateLimiter ports.RateLimiterService
	logger      *logrus.Logger
}

func NewRateLimitMiddleware(rateLimiter ports.RateLimiterService, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{rateLimiter: rateLimiter, logger: logger}
}

// classify buckets a request path into its rate-limit class. Sensitive auth
// endpoints get their own tight buckets, everything under the API prefix
// shares the api bucket.
func classify(path string) ports.EndpointClass {
	switch {
	case strings.HasPrefix(path, "/api/v1/auth/login"):
		return ports.ClassLogin
	case strings.HasPrefix(path, "/api/v1/auth/password-reset"):
		return ports.ClassPasswordReset
	case strings.HasPrefix(path, "/api/v1/auth/2fa"):
		return ports.ClassTwoFactor
	case path == "/api/v1/tenants" || strings.HasPrefix(path, "/api/v1/tenants/signup"):
		return ports.ClassRegister
	case strings.HasPrefix(path, "/api/v1/"):
		return ports.ClassAPI
	default:
		return ports.ClassDefault
	}
}

// Handler limits by authenticated tenant where available, otherwise by
// client IP. Limiter errors fail open; headers carry the window state.
func (r *RateLimitMiddleware) Handler() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if path == "/health" || path == "/metrics" {
				return next(c)
			}

			clientID := c.RealIP()
			if tenantID, ok := helpers.GetTenantIDRaw(c); ok {
				clientID = tenantID.String()
			}

			class := classify(path)
			result, err := r.rateLimiter.Check(c.Request().Context(), class, clientID)

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))

			if err != nil {
				if r.logger != nil {
					r.logger.WithError(err).WithField("class", class).Warn("rate limiter error; allowing request (fail-open)")
				}
				return next(c)
			}
			if !result.Allowed {
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", result.ResetSeconds))
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}
			return next(c)
		}
	}
}
