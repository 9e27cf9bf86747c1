package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/ports"
)

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingTenantRepository decorates a TenantRepository with a read-through
// cache on the hot lookups (by id and by billing customer id). Writes
// invalidate by id; code/slug lookups stay uncached since they only occur
// on signup and referral resolution.
type CachingTenantRepository struct {
	ports.TenantRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingTenantRepository(inner ports.TenantRepository, cache ports.Cache, ttl time.Duration) *CachingTenantRepository {
	return &CachingTenantRepository{TenantRepository: inner, cache: cache, ttl: ttl}
}

func tenantIDKey(id uuid.UUID) string     { return "tenant:id:" + id.String() }
func tenantCustomerKey(cid string) string { return "tenant:customer:" + cid }

func (r *CachingTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if t, ok := cacheGet[tenant.Tenant](r.cache, ctx, tenantIDKey(id)); ok {
		return t, nil
	}
	t, err := r.TenantRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cacheSetSilently(r.cache, ctx, tenantIDKey(id), t, r.ttl)
	return t, nil
}

func (r *CachingTenantRepository) GetByBillingCustomerID(ctx context.Context, customerID string) (*tenant.Tenant, error) {
	if t, ok := cacheGet[tenant.Tenant](r.cache, ctx, tenantCustomerKey(customerID)); ok {
		return t, nil
	}
	t, err := r.TenantRepository.GetByBillingCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	cacheSetSilently(r.cache, ctx, tenantCustomerKey(customerID), t, r.ttl)
	return t, nil
}

func (r *CachingTenantRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if r.cache == nil {
		return
	}
	if t, err := r.TenantRepository.GetByID(ctx, id); err == nil && t.BillingCustomerID != "" {
		_ = r.cache.Delete(ctx, tenantCustomerKey(t.BillingCustomerID))
	}
	_ = r.cache.Delete(ctx, tenantIDKey(id))
}

func (r *CachingTenantRepository) UpdateSubscriptionState(ctx context.Context, id uuid.UUID, status tenant.SubscriptionStatus, trialEndsAt, currentPeriodEnd *time.Time) error {
	if err := r.TenantRepository.UpdateSubscriptionState(ctx, id, status, trialEndsAt, currentPeriodEnd); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachingTenantRepository) UpdateDunningSettings(ctx context.Context, id uuid.UUID, settings tenant.DunningSettings) error {
	if err := r.TenantRepository.UpdateDunningSettings(ctx, id, settings); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachingTenantRepository) MarkReferralUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	flipped, err := r.TenantRepository.MarkReferralUsed(ctx, id)
	if err != nil {
		return false, err
	}
	if flipped {
		r.invalidate(ctx, id)
	}
	return flipped, nil
}
