package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
)

const tenantColumns = `id, name, slug, plan, billing_interval, subscription_status,
	trial_ends_at, current_period_end, billing_customer_id, referral_code,
	referred_by, referral_used, dunning_auto_enabled, dunning_threshold_days,
	created_at, updated_at`

// TenantRepository implements the tenant repository interface. Tenants are
// the isolation root and are addressed by their own unique keys, so queries
// here run outside the guard.
type TenantRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(database *db.Database, logger *logrus.Logger) ports.TenantRepository {
	return &TenantRepository{db: database, logger: logger}
}

func (r *TenantRepository) scanTenant(row interface{ Scan(...any) error }) (*tenant.Tenant, error) {
	var t tenant.Tenant
	err := row.Scan(
		&t.ID, &t.Name, &t.Slug, &t.Plan, &t.BillingInterval, &t.SubscriptionStatus,
		&t.TrialEndsAt, &t.CurrentPeriodEnd, &t.BillingCustomerID, &t.ReferralCode,
		&t.ReferredBy, &t.ReferralUsed, &t.Dunning.AutoEnabled, &t.Dunning.OverdueThresholdDays,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, translateRowError(err)
	}
	return &t, nil
}

func (r *TenantRepository) getBy(ctx context.Context, column string, value any) (*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE %s = $1`, tenantColumns, column)
	t, err := r.scanTenant(r.db.DB.QueryRowContext(ctx, query, value))
	if err != nil {
		if err == ports.ErrNotFound {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tenant by %s: %w", column, err)
	}
	return t, nil
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, plan, billing_interval, subscription_status,
			trial_ends_at, current_period_end, billing_customer_id, referral_code,
			referred_by, referral_used, dunning_auto_enabled, dunning_threshold_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.DB.ExecContext(ctx, query,
		t.ID, t.Name, t.Slug, t.Plan, t.BillingInterval, t.SubscriptionStatus,
		t.TrialEndsAt, t.CurrentPeriodEnd, t.BillingCustomerID, t.ReferralCode,
		t.ReferredBy, t.ReferralUsed, t.Dunning.AutoEnabled, t.Dunning.OverdueThresholdDays)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicate
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return r.getBy(ctx, "id", id)
}

func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *TenantRepository) GetByReferralCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	return r.getBy(ctx, "referral_code", code)
}

func (r *TenantRepository) GetByBillingCustomerID(ctx context.Context, customerID string) (*tenant.Tenant, error) {
	return r.getBy(ctx, "billing_customer_id", customerID)
}

// UpdateSubscriptionState syncs billing fields from the provider.
func (r *TenantRepository) UpdateSubscriptionState(ctx context.Context, id uuid.UUID, status tenant.SubscriptionStatus, trialEndsAt, currentPeriodEnd *time.Time) error {
	query := `
		UPDATE tenants
		SET subscription_status = $2,
			trial_ends_at = COALESCE($3, trial_ends_at),
			current_period_end = COALESCE($4, current_period_end),
			updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, status, trialEndsAt, currentPeriodEnd)
	if err != nil {
		return fmt.Errorf("failed to update subscription state: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *TenantRepository) UpdateDunningSettings(ctx context.Context, id uuid.UUID, settings tenant.DunningSettings) error {
	query := `
		UPDATE tenants
		SET dunning_auto_enabled = $2, dunning_threshold_days = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.DB.ExecContext(ctx, query, id, settings.AutoEnabled, settings.OverdueThresholdDays)
	if err != nil {
		return fmt.Errorf("failed to update dunning settings: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// MarkReferralUsed flips the sticky flag. The WHERE clause makes the
// transition happen at most once; a second caller sees zero rows.
func (r *TenantRepository) MarkReferralUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE tenants SET referral_used = TRUE, updated_at = NOW() WHERE id = $1 AND referral_used = FALSE`

	result, err := r.db.DB.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark referral used: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListAutoDunning returns all tenants with the automatic dunning run enabled.
func (r *TenantRepository) ListAutoDunning(ctx context.Context) ([]*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants WHERE dunning_auto_enabled = TRUE ORDER BY created_at`, tenantColumns)

	rows, err := r.db.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list auto-dunning tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := r.scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenants: %w", err)
	}
	return tenants, nil
}

// List retrieves tenants with pagination
func (r *TenantRepository) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	query := fmt.Sprintf(`SELECT %s FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`, tenantColumns)

	rows, err := r.db.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*tenant.Tenant
	for rows.Next() {
		t, err := r.scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tenants: %w", err)
	}
	return tenants, nil
}

// Count returns the total number of tenants
func (r *TenantRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM tenants`); err != nil {
		return 0, fmt.Errorf("failed to count tenants: %w", err)
	}
	return count, nil
}
