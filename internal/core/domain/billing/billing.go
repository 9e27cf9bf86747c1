package billing

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/propgate/propgate/internal/core/domain/tenant"
)

// UsedPaymentMethod records the one-way hash of a payment-instrument
// fingerprint seen in a referral context. Rows are insert-only; the unique
// constraint on FingerprintHash is what makes abuse detection race-safe.
type UsedPaymentMethod struct {
	ID               uuid.UUID `json:"id" db:"id"`
	FingerprintHash  string    `json:"fingerprint_hash" db:"fingerprint_hash"`
	RelationshipHash string    `json:"relationship_hash" db:"relationship_hash"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// ReferralCredit is a one-time credit granted to a referrer. At most one row
// exists per referred tenant (unique constraint).
type ReferralCredit struct {
	ID               uuid.UUID `json:"id" db:"id"`
	ReferrerTenantID uuid.UUID `json:"referrer_tenant_id" db:"referrer_tenant_id"`
	ReferredTenantID uuid.UUID `json:"referred_tenant_id" db:"referred_tenant_id"`
	AmountCents      int64     `json:"amount_cents" db:"amount_cents"`
	Currency         string    `json:"currency" db:"currency"`
	Status           string    `json:"status" db:"status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

const (
	CreditStatusPending = "pending"
	CreditStatusGranted = "granted"
)

// HashFingerprint hashes a provider-issued payment-instrument fingerprint.
// The raw fingerprint is never stored.
func HashFingerprint(fingerprint string) string {
	sum := sha256.Sum256([]byte(fingerprint))
	return hex.EncodeToString(sum[:])
}

// HashRelationship hashes the referrer/referred pairing for audit lookups
// without exposing the referral graph.
func HashRelationship(referrerCode string, referredTenantID uuid.UUID) string {
	sum := sha256.Sum256([]byte(referrerCode + "|" + referredTenantID.String()))
	return hex.EncodeToString(sum[:])
}

// CreditAmountCents is the policy table mapping the referrer's plan and
// billing interval to the credit granted, in euro cents.
func CreditAmountCents(plan tenant.SubscriptionPlan, interval tenant.BillingInterval) int64 {
	var monthly int64
	switch plan {
	case tenant.PlanStarter:
		monthly = 990
	case tenant.PlanPro:
		monthly = 1990
	case tenant.PlanEnterprise:
		monthly = 4990
	default:
		monthly = 990
	}
	if interval == tenant.IntervalYearly {
		return monthly * 2
	}
	return monthly
}

// WebhookResult reports the outcome of processing one billing event.
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Message   string `json:"message,omitempty"`
}
