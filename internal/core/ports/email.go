package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/propgate/propgate/internal/core/domain/dunning"
)

// EmailService defines the outbound notification surface. All sends are
// best-effort from the caller's perspective; a failed send never rolls back
// the triggering operation.
type EmailService interface {
	SendDunningNotice(ctx context.Context, to, occupantName string, stage dunning.Stage, openAmount decimal.Decimal) error
	SendReferralCreditNotice(ctx context.Context, to, tenantName string, amountCents int64) error
	SendPasswordResetNotice(ctx context.Context, to, firstName string) error
}
