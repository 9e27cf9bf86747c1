package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/propgate/propgate/internal/core/domain/tenant"
)

// TenantRepository defines data operations on tenants. Tenants are the
// isolation root and are looked up by their own keys, so this repository is
// not behind the guard.
type TenantRepository interface {
	Create(ctx context.Context, t *tenant.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error)
	GetByReferralCode(ctx context.Context, code string) (*tenant.Tenant, error)
	GetByBillingCustomerID(ctx context.Context, customerID string) (*tenant.Tenant, error)
	UpdateSubscriptionState(ctx context.Context, id uuid.UUID, status tenant.SubscriptionStatus, trialEndsAt, currentPeriodEnd *time.Time) error
	UpdateDunningSettings(ctx context.Context, id uuid.UUID, settings tenant.DunningSettings) error
	// MarkReferralUsed flips the sticky referral flag. Returns false when
	// the flag was already set, which makes concurrent webhook deliveries
	// resolve to a single winner.
	MarkReferralUsed(ctx context.Context, id uuid.UUID) (bool, error)
	ListAutoDunning(ctx context.Context) ([]*tenant.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error)
	Count(ctx context.Context) (int, error)
}

// TenantService defines tenant business logic.
type TenantService interface {
	CreateTenant(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error)
	GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	UpdateDunningSettings(ctx context.Context, id uuid.UUID, req *tenant.UpdateDunningSettingsRequest) (*tenant.Tenant, error)
}
