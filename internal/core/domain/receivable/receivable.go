package receivable

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receivable is an amount owed by an occupant (Sollstellung), optionally
// tied to a lease. The open amount is derived: amount due minus payments.
type Receivable struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	TenantID  uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	LeaseID   *uuid.UUID      `json:"lease_id,omitempty" db:"lease_id"`
	Purpose   string          `json:"purpose" db:"purpose"`
	AmountDue decimal.Decimal `json:"amount_due" db:"amount_due"`
	DueDate   time.Time       `json:"due_date" db:"due_date"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// IsOverdue reports whether the due date has passed at the given instant.
func (r *Receivable) IsOverdue(now time.Time) bool {
	return r.DueDate.Before(now)
}

// OpenAmount returns amount due minus the paid total, never negative.
func (r *Receivable) OpenAmount(paid decimal.Decimal) decimal.Decimal {
	open := r.AmountDue.Sub(paid)
	if open.IsNegative() {
		return decimal.Zero
	}
	return open
}

// Payment is money applied against a receivable.
type Payment struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	TenantID     uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	ReceivableID uuid.UUID       `json:"receivable_id" db:"receivable_id"`
	Amount       decimal.Decimal `json:"amount" db:"amount"`
	PaidAt       time.Time       `json:"paid_at" db:"paid_at"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

type CreateReceivableRequest struct {
	LeaseID   *uuid.UUID      `json:"lease_id,omitempty"`
	Purpose   string          `json:"purpose" validate:"required"`
	AmountDue decimal.Decimal `json:"amount_due" validate:"required"`
	DueDate   time.Time       `json:"due_date" validate:"required"`
}

type CreatePaymentRequest struct {
	ReceivableID uuid.UUID       `json:"receivable_id" validate:"required"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	PaidAt       time.Time       `json:"paid_at"`
}
