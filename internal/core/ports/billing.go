package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/propgate/propgate/internal/core/domain/billing"
)

// ReferralRepository persists the abuse-detection state of the referral
// program. Both tables are global (not tenant-scoped) and insert-only.
type ReferralRepository interface {
	// RecordUsedPaymentMethod inserts the fingerprint hash. ErrDuplicate
	// means the instrument was already used in a referral context; the
	// unique constraint makes this race-safe under concurrent delivery.
	RecordUsedPaymentMethod(ctx context.Context, fingerprintHash, relationshipHash string) error
	// FingerprintRelationship returns the relationship hash stored for the
	// fingerprint, or ErrNotFound. A match with the caller's own hash marks
	// a retry of the same referral rather than a reused instrument.
	FingerprintRelationship(ctx context.Context, fingerprintHash string) (string, error)
	// CreateCredit inserts the referral credit row. ErrDuplicate means a
	// credit for the referred tenant already exists.
	CreateCredit(ctx context.Context, credit *billing.ReferralCredit) error
	GetCreditByReferredTenant(ctx context.Context, referredTenantID uuid.UUID) (*billing.ReferralCredit, error)
	// MarkCreditGranted moves a pending credit to granted once the balance
	// credit landed at the billing provider.
	MarkCreditGranted(ctx context.Context, id uuid.UUID) error
	// DeleteCredit removes a pending credit whose provider-side grant
	// failed, so the next payment event starts over.
	DeleteCredit(ctx context.Context, id uuid.UUID) error
	ListCreditsByReferrer(ctx context.Context, referrerTenantID uuid.UUID) ([]*billing.ReferralCredit, error)
}

// BillingClient is the external billing provider surface this service
// consumes. The provider's ledger is not reimplemented here.
type BillingClient interface {
	// PaymentMethodFingerprint resolves the stable instrument fingerprint
	// behind a payment intent.
	PaymentMethodFingerprint(ctx context.Context, paymentIntentID string) (string, error)
	// CreditCustomerBalance credits the customer's account balance.
	CreditCustomerBalance(ctx context.Context, customerID string, amountCents int64, currency, description string) error
}

// ReferralService reacts to qualifying payment events.
type ReferralService interface {
	HandlePaymentSucceeded(ctx context.Context, billingCustomerID, paymentIntentID string) error
}

// BillingWebhookService verifies and dispatches billing provider events.
type BillingWebhookService interface {
	Process(ctx context.Context, payload []byte, signature string) (*billing.WebhookResult, error)
}
