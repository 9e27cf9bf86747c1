package helpers

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

type ctxKey string

const (
	keyTenant    ctxKey = "tenant"
	keyScope     ctxKey = "scope"
	keyUserID    ctxKey = "user_id"
	keyTenantID  ctxKey = "tenant_id"
	keyUserRole  ctxKey = "user_role"
	keyUserEmail ctxKey = "user_email"
)

func SetTenant(c echo.Context, t *tenant.Tenant) { c.Set(string(keyTenant), t) }
func GetTenantRaw(c echo.Context) (*tenant.Tenant, bool) {
	t, ok := c.Get(string(keyTenant)).(*tenant.Tenant)
	return t, ok
}

func SetScope(c echo.Context, sc *guard.Scope) { c.Set(string(keyScope), sc) }
func GetScopeRaw(c echo.Context) (*guard.Scope, bool) {
	sc, ok := c.Get(string(keyScope)).(*guard.Scope)
	return sc, ok
}

func SetUserID(c echo.Context, id uuid.UUID) { c.Set(string(keyUserID), id) }
func GetUserIDRaw(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(keyUserID)).(uuid.UUID)
	return id, ok
}

func SetTenantID(c echo.Context, id uuid.UUID) { c.Set(string(keyTenantID), id) }
func GetTenantIDRaw(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(string(keyTenantID)).(uuid.UUID)
	return id, ok
}

func SetUserRole(c echo.Context, r user.Role) { c.Set(string(keyUserRole), r) }
func GetUserRoleRaw(c echo.Context) (user.Role, bool) {
	r, ok := c.Get(string(keyUserRole)).(user.Role)
	return r, ok
}

func SetUserEmail(c echo.Context, email string) { c.Set(string(keyUserEmail), email) }
func GetUserEmailRaw(c echo.Context) (string, bool) {
	s, ok := c.Get(string(keyUserEmail)).(string)
	return s, ok
}
