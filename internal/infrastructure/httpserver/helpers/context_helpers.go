package helpers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

func GetTenantFromContext(c echo.Context) (*tenant.Tenant, error) {
	t, ok := GetTenantRaw(c)
	if !ok || t == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid tenant context")
	}
	return t, nil
}

// GetScopeFromContext returns the request's tenant isolation guard. Every
// handler that touches tenant data goes through this.
func GetScopeFromContext(c echo.Context) (*guard.Scope, error) {
	sc, ok := GetScopeRaw(c)
	if !ok || sc == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid tenant scope")
	}
	return sc, nil
}

func GetUserIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := GetUserIDRaw(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user context")
	}
	return id, nil
}

func GetTenantIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := GetTenantIDRaw(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid tenant context")
	}
	return id, nil
}

func GetUserRoleFromContext(c echo.Context) (user.Role, error) {
	r, ok := GetUserRoleRaw(c)
	if !ok {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid role context")
	}
	return r, nil
}

func GetJWTTokenFromContext(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "empty token")
	}
	return token, nil
}
