package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	impl "github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/test/mocks"
)

var testJWTConfig = impl.JWTConfig{Secret: "test-secret", AccessTokenTTL: 15 * time.Minute}

func activeUser(t *testing.T, password string) *user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return &user.User{
		ID:           uuid.New(),
		TenantID:     uuid.New(),
		Email:        "admin@acme.example",
		PasswordHash: string(hash),
		Role:         user.RoleAdmin,
		IsActive:     true,
	}
}

func TestLogin_TokenRoundTrip(t *testing.T) {
	u := activeUser(t, "correct horse 1")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	tenantRepo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, SubscriptionStatus: tenant.StatusActive}, nil
		},
	}
	svc := impl.NewAuthService(userRepo, tenantRepo, &mocks.EmailServiceMock{}, testJWTConfig, nil)

	token, loggedIn, err := svc.Login(context.Background(), u.Email, "correct horse 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if loggedIn.ID != u.ID {
		t.Fatalf("wrong user returned")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("failed to validate issued token: %v", err)
	}
	if claims.UserID != u.ID || claims.TenantID != u.TenantID {
		t.Fatalf("claims carry wrong ids: %+v", claims)
	}
	if claims.Role != user.RoleAdmin || claims.Email != u.Email {
		t.Fatalf("claims carry wrong role or email: %+v", claims)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	u := activeUser(t, "correct horse 1")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	svc := impl.NewAuthService(userRepo, &mocks.TenantRepositoryMock{}, &mocks.EmailServiceMock{}, testJWTConfig, nil)

	if _, _, err := svc.Login(context.Background(), u.Email, "wrong"); !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_UnknownAccount(t *testing.T) {
	svc := impl.NewAuthService(&mocks.UserRepositoryMock{}, &mocks.TenantRepositoryMock{}, &mocks.EmailServiceMock{}, testJWTConfig, nil)
	if _, _, err := svc.Login(context.Background(), "nobody@acme.example", "pw"); !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_InactiveUser(t *testing.T) {
	u := activeUser(t, "correct horse 1")
	u.IsActive = false
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	svc := impl.NewAuthService(userRepo, &mocks.TenantRepositoryMock{}, &mocks.EmailServiceMock{}, testJWTConfig, nil)

	if _, _, err := svc.Login(context.Background(), u.Email, "correct horse 1"); !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestLogin_CanceledTenant(t *testing.T) {
	u := activeUser(t, "correct horse 1")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	tenantRepo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, SubscriptionStatus: tenant.StatusCanceled}, nil
		},
	}
	svc := impl.NewAuthService(userRepo, tenantRepo, &mocks.EmailServiceMock{}, testJWTConfig, nil)

	if _, _, err := svc.Login(context.Background(), u.Email, "correct horse 1"); !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestValidateToken_Tampered(t *testing.T) {
	u := activeUser(t, "correct horse 1")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) { return u, nil },
	}
	tenantRepo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, SubscriptionStatus: tenant.StatusActive}, nil
		},
	}
	svc := impl.NewAuthService(userRepo, tenantRepo, &mocks.EmailServiceMock{}, testJWTConfig, nil)
	token, _, err := svc.Login(context.Background(), u.Email, "correct horse 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	other := impl.NewAuthService(userRepo, tenantRepo, &mocks.EmailServiceMock{}, impl.JWTConfig{Secret: "other-secret", AccessTokenTTL: time.Minute}, nil)
	if _, err := other.ValidateToken(token); !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("a token signed with another secret must be rejected, got %v", err)
	}
	if _, err := svc.ValidateToken(token + "x"); !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("a mangled token must be rejected, got %v", err)
	}
}

func TestRequestPasswordReset_NeverLeaksExistence(t *testing.T) {
	sent := 0
	u := activeUser(t, "correct horse 1")
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			if email == u.Email {
				return u, nil
			}
			return nil, ports.ErrNotFound
		},
	}
	emailSvc := &mocks.EmailServiceMock{
		SendPasswordResetNoticeFn: func(ctx context.Context, to, firstName string) error {
			sent++
			return nil
		},
	}
	svc := impl.NewAuthService(userRepo, &mocks.TenantRepositoryMock{}, emailSvc, testJWTConfig, nil)

	if err := svc.RequestPasswordReset(context.Background(), u.Email); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.RequestPasswordReset(context.Background(), "nobody@acme.example"); err != nil {
		t.Fatalf("unknown accounts must not surface an error, got %v", err)
	}
	if sent != 1 {
		t.Fatalf("notice sent %d times, want 1", sent)
	}
}
