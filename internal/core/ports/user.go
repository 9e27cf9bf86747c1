package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// UserRepository defines data operations on user accounts. Writes go through
// the guard; lookups by email happen before a tenant scope exists (login)
// and are keyed globally by the unique email column.
type UserRepository interface {
	Create(ctx context.Context, sc *guard.Scope, u *user.User) error
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	// GetTenantAdmin returns the oldest active admin of the scoped tenant,
	// used as the notification recipient for tenant-level events.
	GetTenantAdmin(ctx context.Context, sc *guard.Scope) (*user.User, error)
}

// AuthService issues access tokens and runs the security-sensitive account
// flows. Session storage is an external concern; tokens are self-contained.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, u *user.User, err error)
	// RequestPasswordReset always reports success to the caller so account
	// existence cannot be probed; the notification is sent best-effort.
	RequestPasswordReset(ctx context.Context, email string) error
	ValidateToken(tokenString string) (*AuthClaims, error)
}

// AuthClaims is the decoded content of an access token.
type AuthClaims struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	Email    string
	Role     user.Role
}
