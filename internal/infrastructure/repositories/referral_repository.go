package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/billing"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
)

// ReferralRepository implements the referral abuse-detection store. The
// used_payment_methods and referral_credits tables are global by design;
// their unique constraints carry the at-most-once guarantees, so
// ErrDuplicate from here is a signal, not a failure. The only delete is
// the rollback of a pending credit whose provider-side grant failed.
type ReferralRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewReferralRepository(database *db.Database, logger *logrus.Logger) ports.ReferralRepository {
	return &ReferralRepository{db: database, logger: logger}
}

func (r *ReferralRepository) RecordUsedPaymentMethod(ctx context.Context, fingerprintHash, relationshipHash string) error {
	query := `INSERT INTO used_payment_methods (id, fingerprint_hash, relationship_hash) VALUES ($1, $2, $3)`

	_, err := r.db.DB.ExecContext(ctx, query, uuid.New(), fingerprintHash, relationshipHash)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicate
		}
		return fmt.Errorf("failed to record used payment method: %w", err)
	}
	return nil
}

func (r *ReferralRepository) FingerprintRelationship(ctx context.Context, fingerprintHash string) (string, error) {
	var relationshipHash string
	query := `SELECT relationship_hash FROM used_payment_methods WHERE fingerprint_hash = $1`
	if err := r.db.DB.GetContext(ctx, &relationshipHash, query, fingerprintHash); err != nil {
		if err := translateRowError(err); err == ports.ErrNotFound {
			return "", ports.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up fingerprint: %w", err)
	}
	return relationshipHash, nil
}

func (r *ReferralRepository) CreateCredit(ctx context.Context, credit *billing.ReferralCredit) error {
	query := `
		INSERT INTO referral_credits (id, referrer_tenant_id, referred_tenant_id, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.DB.ExecContext(ctx, query,
		credit.ID, credit.ReferrerTenantID, credit.ReferredTenantID,
		credit.AmountCents, credit.Currency, credit.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.ErrDuplicate
		}
		return fmt.Errorf("failed to create referral credit: %w", err)
	}
	return nil
}

func (r *ReferralRepository) GetCreditByReferredTenant(ctx context.Context, referredTenantID uuid.UUID) (*billing.ReferralCredit, error) {
	var credit billing.ReferralCredit
	query := `
		SELECT id, referrer_tenant_id, referred_tenant_id, amount_cents, currency, status, created_at
		FROM referral_credits
		WHERE referred_tenant_id = $1`
	if err := r.db.DB.GetContext(ctx, &credit, query, referredTenantID); err != nil {
		if err := translateRowError(err); err == ports.ErrNotFound {
			return nil, ports.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load referral credit: %w", err)
	}
	return &credit, nil
}

func (r *ReferralRepository) DeleteCredit(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM referral_credits WHERE id = $1 AND status = $2`
	if _, err := r.db.DB.ExecContext(ctx, query, id, billing.CreditStatusPending); err != nil {
		return fmt.Errorf("failed to delete pending referral credit: %w", err)
	}
	return nil
}

func (r *ReferralRepository) MarkCreditGranted(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE referral_credits SET status = $1 WHERE id = $2`
	if _, err := r.db.DB.ExecContext(ctx, query, billing.CreditStatusGranted, id); err != nil {
		return fmt.Errorf("failed to mark referral credit granted: %w", err)
	}
	return nil
}

func (r *ReferralRepository) ListCreditsByReferrer(ctx context.Context, referrerTenantID uuid.UUID) ([]*billing.ReferralCredit, error) {
	var out []*billing.ReferralCredit
	query := `
		SELECT id, referrer_tenant_id, referred_tenant_id, amount_cents, currency, status, created_at
		FROM referral_credits
		WHERE referrer_tenant_id = $1
		ORDER BY created_at DESC`
	if err := r.db.DB.SelectContext(ctx, &out, query, referrerTenantID); err != nil {
		return nil, fmt.Errorf("failed to list referral credits: %w", err)
	}
	return out, nil
}
