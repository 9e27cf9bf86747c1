package middleware

import (
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
	"github.com/propgate/propgate/internal/infrastructure/httpserver/helpers"
)

// ScopeMiddleware builds the per-request tenant isolation guard from the
// authenticated tenant id. Runs after RequireJWT.
type ScopeMiddleware struct {
	tenantService ports.TenantService
	ext           sqlx.ExtContext
	logger        *logrus.Logger
}

func NewScopeMiddleware(tenantService ports.TenantService, ext sqlx.ExtContext, logger *logrus.Logger) *ScopeMiddleware {
	return &ScopeMiddleware{tenantService: tenantService, ext: ext, logger: logger}
}

// RequireScope loads the tenant, rejects suspended subscriptions, and puts
// a fresh guard scope into the request context.
func (m *ScopeMiddleware) RequireScope() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantID, err := helpers.GetTenantIDFromContext(c)
			if err != nil {
				return err
			}

			t, err := m.tenantService.GetTenant(c.Request().Context(), tenantID)
			if err != nil {
				if m.logger != nil {
					m.logger.WithFields(logrus.Fields{"tenant_id": tenantID}).WithError(err).Warn("failed to resolve tenant for scope")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown tenant")
			}
			if !t.CanAccess() {
				return echo.NewHTTPError(http.StatusForbidden, fmt.Sprintf("subscription is %s", t.SubscriptionStatus))
			}

			helpers.SetTenant(c, t)
			helpers.SetScope(c, guard.NewScope(m.ext, t.ID))
			return next(c)
		}
	}
}
