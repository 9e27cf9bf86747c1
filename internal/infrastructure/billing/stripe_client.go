package billing

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/customerbalancetransaction"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/propgate/propgate/internal/core/ports"
)

// StripeClient implements the billing provider surface. Subscriptions and
// invoicing live entirely at the provider; we only read instrument
// fingerprints and write balance credits.
type StripeClient struct {
	logger *logrus.Logger
}

// NewStripeClient sets the global API key for the stripe-go library and
// returns the client.
func NewStripeClient(secretKey string, logger *logrus.Logger) ports.BillingClient {
	stripe.Key = secretKey
	return &StripeClient{logger: logger}
}

// PaymentMethodFingerprint resolves the stable fingerprint of the
// instrument behind a payment intent. Returns "" when the instrument type
// carries no fingerprint; the caller decides what that means.
func (c *StripeClient) PaymentMethodFingerprint(ctx context.Context, paymentIntentID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	}
	params.AddExpand("payment_method")

	pi, err := paymentintent.Get(paymentIntentID, params)
	if err != nil {
		return "", fmt.Errorf("failed to get payment intent %s: %w", paymentIntentID, err)
	}
	pm := pi.PaymentMethod
	if pm == nil {
		return "", nil
	}

	switch {
	case pm.Card != nil:
		return pm.Card.Fingerprint, nil
	case pm.SEPADebit != nil:
		return pm.SEPADebit.Fingerprint, nil
	default:
		if c.logger != nil {
			c.logger.WithFields(logrus.Fields{"payment_method_type": pm.Type}).Debug("payment method type has no fingerprint")
		}
		return "", nil
	}
}

// CreditCustomerBalance lowers the customer's balance; a negative amount is
// a credit applied against the next invoice.
func (c *StripeClient) CreditCustomerBalance(ctx context.Context, customerID string, amountCents int64, currency, description string) error {
	params := &stripe.CustomerBalanceTransactionParams{
		Params:      stripe.Params{Context: ctx},
		Customer:    stripe.String(customerID),
		Amount:      stripe.Int64(-amountCents),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}
	if _, err := customerbalancetransaction.New(params); err != nil {
		return fmt.Errorf("failed to credit customer %s: %w", customerID, err)
	}
	return nil
}
