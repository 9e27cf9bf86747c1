package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	impl "github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
	"github.com/propgate/propgate/test/mocks"
)

func signupRequest() *tenant.CreateTenantRequest {
	return &tenant.CreateTenantRequest{
		Name:            "Acme Hausverwaltung",
		Slug:            "acme",
		Plan:            tenant.PlanStarter,
		BillingInterval: tenant.IntervalMonthly,
		AdminUser: tenant.CreateTenantAdminRequest{
			Email:     "admin@acme.example",
			Password:  "s3cret-enough",
			FirstName: "Ada",
			LastName:  "Admin",
		},
	}
}

func TestCreateTenant_SlugTaken(t *testing.T) {
	repo := &mocks.TenantRepositoryMock{
		GetBySlugFn: func(ctx context.Context, slug string) (*tenant.Tenant, error) {
			return &tenant.Tenant{Slug: slug}, nil
		},
	}
	svc := impl.NewTenantService(repo, &mocks.UserRepositoryMock{}, nil, nil)

	_, err := svc.CreateTenant(context.Background(), signupRequest())
	if !errors.Is(err, ports.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for taken slug, got %v", err)
	}
}

func TestCreateTenant_EmailTaken(t *testing.T) {
	userRepo := &mocks.UserRepositoryMock{
		GetByEmailFn: func(ctx context.Context, email string) (*user.User, error) {
			return &user.User{Email: email}, nil
		},
	}
	svc := impl.NewTenantService(&mocks.TenantRepositoryMock{}, userRepo, nil, nil)

	_, err := svc.CreateTenant(context.Background(), signupRequest())
	if !errors.Is(err, ports.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for taken email, got %v", err)
	}
}

func TestCreateTenant_Success(t *testing.T) {
	var createdTenant *tenant.Tenant
	var createdAdmin *user.User
	repo := &mocks.TenantRepositoryMock{
		CreateFn: func(ctx context.Context, nt *tenant.Tenant) error {
			createdTenant = nt
			return nil
		},
	}
	userRepo := &mocks.UserRepositoryMock{
		CreateFn: func(ctx context.Context, sc *guard.Scope, u *user.User) error {
			createdAdmin = u
			return nil
		},
	}
	svc := impl.NewTenantService(repo, userRepo, nil, nil)

	out, err := svc.CreateTenant(context.Background(), signupRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createdTenant == nil || createdAdmin == nil {
		t.Fatalf("tenant and admin must both be persisted")
	}
	if out.SubscriptionStatus != tenant.StatusTrialing || out.TrialEndsAt == nil {
		t.Fatalf("new tenants start trialing with a trial end date: %+v", out)
	}
	if len(out.ReferralCode) != 8 {
		t.Fatalf("referral code %q, want 8 characters", out.ReferralCode)
	}
	if createdAdmin.TenantID != out.ID || createdAdmin.Role != user.RoleAdmin || !createdAdmin.IsActive {
		t.Fatalf("admin user is miswired: %+v", createdAdmin)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(createdAdmin.PasswordHash), []byte("s3cret-enough")); err != nil {
		t.Fatalf("admin password hash does not verify: %v", err)
	}
}

func TestCreateTenant_DropsUnknownReferralCode(t *testing.T) {
	var createdTenant *tenant.Tenant
	repo := &mocks.TenantRepositoryMock{
		CreateFn: func(ctx context.Context, nt *tenant.Tenant) error {
			createdTenant = nt
			return nil
		},
	}
	svc := impl.NewTenantService(repo, &mocks.UserRepositoryMock{}, nil, nil)

	req := signupRequest()
	unknown := "NOPE1234"
	req.ReferredBy = &unknown
	if _, err := svc.CreateTenant(context.Background(), req); err != nil {
		t.Fatalf("an unknown referral code must not fail the signup: %v", err)
	}
	if createdTenant.ReferredBy != nil {
		t.Fatalf("unknown referral code must be dropped, got %v", *createdTenant.ReferredBy)
	}
}

func TestCreateTenant_KeepsKnownReferralCode(t *testing.T) {
	known := "REFCODE1"
	var createdTenant *tenant.Tenant
	repo := &mocks.TenantRepositoryMock{
		GetByReferralCodeFn: func(ctx context.Context, code string) (*tenant.Tenant, error) {
			if code == known {
				return &tenant.Tenant{ID: uuid.New(), ReferralCode: known}, nil
			}
			return nil, ports.ErrNotFound
		},
		CreateFn: func(ctx context.Context, nt *tenant.Tenant) error {
			createdTenant = nt
			return nil
		},
	}
	svc := impl.NewTenantService(repo, &mocks.UserRepositoryMock{}, nil, nil)

	req := signupRequest()
	req.ReferredBy = &known
	if _, err := svc.CreateTenant(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createdTenant.ReferredBy == nil || *createdTenant.ReferredBy != known {
		t.Fatalf("known referral code must be kept")
	}
}

func TestUpdateDunningSettings_MergesFields(t *testing.T) {
	id := uuid.New()
	repo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, tid uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: tid, Dunning: tenant.DunningSettings{AutoEnabled: false, OverdueThresholdDays: 3}}, nil
		},
	}
	svc := impl.NewTenantService(repo, &mocks.UserRepositoryMock{}, nil, nil)

	enabled := true
	out, err := svc.UpdateDunningSettings(context.Background(), id, &tenant.UpdateDunningSettingsRequest{AutoEnabled: &enabled})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.Dunning.AutoEnabled || out.Dunning.OverdueThresholdDays != 3 {
		t.Fatalf("partial update must keep untouched fields: %+v", out.Dunning)
	}
}

func TestUpdateDunningSettings_RejectsZeroThreshold(t *testing.T) {
	repo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, tid uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: tid}, nil
		},
	}
	svc := impl.NewTenantService(repo, &mocks.UserRepositoryMock{}, nil, nil)

	zero := 0
	if _, err := svc.UpdateDunningSettings(context.Background(), uuid.New(), &tenant.UpdateDunningSettingsRequest{OverdueThresholdDays: &zero}); err == nil {
		t.Fatalf("expected error for threshold below one day")
	}
}
