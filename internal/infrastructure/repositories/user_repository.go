package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

const userColumns = `id, tenant_id, email, password_hash, first_name, last_name, role, is_active, created_at, updated_at`

// UserRepository implements the user repository interface.
type UserRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewUserRepository(database *db.Database, logger *logrus.Logger) ports.UserRepository {
	return &UserRepository{db: database, logger: logger}
}

// Create inserts the user through the guard; the tenant id on the record is
// whatever the scope dictates, never the caller's value.
func (r *UserRepository) Create(ctx context.Context, sc *guard.Scope, u *user.User) error {
	err := sc.Insert(ctx, "users",
		[]string{"id", "tenant_id", "email", "password_hash", "first_name", "last_name", "role", "is_active"},
		u.ID, u.TenantID, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role, u.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail is a pre-authentication lookup on the globally unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	if err := r.db.DB.GetContext(ctx, &u, query, email); err != nil {
		return nil, translateRowError(err)
	}
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	if err := r.db.DB.GetContext(ctx, &u, query, id); err != nil {
		return nil, translateRowError(err)
	}
	return &u, nil
}

// GetTenantAdmin returns the oldest active admin of the scoped tenant.
func (r *UserRepository) GetTenantAdmin(ctx context.Context, sc *guard.Scope) (*user.User, error) {
	var users []*user.User
	err := sc.Select(ctx, &users, "users", userColumns,
		"role = ? AND is_active = TRUE", "ORDER BY created_at ASC LIMIT 1", user.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant admin: %w", err)
	}
	if len(users) == 0 {
		return nil, ports.ErrNotFound
	}
	return users[0], nil
}
