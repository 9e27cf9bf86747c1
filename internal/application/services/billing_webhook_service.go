package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/propgate/propgate/internal/core/domain/billing"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/ports"
)

// Lightweight views of the provider payloads. Decoding event.Data.Raw into
// our own structs keeps us off the provider SDK's full object model, which
// shifts between major versions.
type invoiceEventObject struct {
	ID            string `json:"id"`
	Customer      string `json:"customer"`
	PaymentIntent string `json:"payment_intent"`
	BillingReason string `json:"billing_reason"`
	AmountPaid    int64  `json:"amount_paid"`
	PeriodEnd     int64  `json:"period_end"`
}

type subscriptionEventObject struct {
	ID               string `json:"id"`
	Customer         string `json:"customer"`
	Status           string `json:"status"`
	TrialEnd         int64  `json:"trial_end"`
	CurrentPeriodEnd int64  `json:"current_period_end"`
}

// BillingWebhookService verifies provider events and applies them: mirror
// subscription state onto the tenant and feed qualifying payments into the
// referral workflow. Handlers must stay idempotent; the provider redelivers.
type BillingWebhookService struct {
	tenantRepo      ports.TenantRepository
	referralService ports.ReferralService
	webhookSecret   string
	logger          *logrus.Logger
}

func NewBillingWebhookService(tenantRepo ports.TenantRepository, referralService ports.ReferralService, webhookSecret string, logger *logrus.Logger) ports.BillingWebhookService {
	return &BillingWebhookService{
		tenantRepo:      tenantRepo,
		referralService: referralService,
		webhookSecret:   webhookSecret,
		logger:          logger,
	}
}

// Process verifies the signature, then dispatches by event type. Unhandled
// types are acknowledged as ignored so the provider stops redelivering.
func (s *BillingWebhookService) Process(ctx context.Context, payload []byte, signature string) (*billing.WebhookResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, s.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", ports.ErrUnauthorized)
	}

	result := &billing.WebhookResult{EventID: event.ID, EventType: string(event.Type)}
	switch event.Type {
	case "invoice.payment_succeeded":
		err = s.handleInvoicePaid(ctx, event, result)
	case "invoice.payment_failed":
		err = s.handleInvoiceFailed(ctx, event, result)
	case "customer.subscription.updated", "customer.subscription.deleted":
		err = s.handleSubscriptionChanged(ctx, event, result)
	default:
		result.Message = "ignored"
		return result, nil
	}
	if err != nil {
		return nil, err
	}
	result.Processed = true
	return result, nil
}

func (s *BillingWebhookService) handleInvoicePaid(ctx context.Context, event stripe.Event, result *billing.WebhookResult) error {
	var inv invoiceEventObject
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to decode invoice event: %w", err)
	}
	if inv.Customer == "" {
		result.Message = "no customer on invoice"
		return nil
	}

	t, err := s.tenantRepo.GetByBillingCustomerID(ctx, inv.Customer)
	if err != nil {
		if err == ports.ErrNotFound {
			result.Message = "unknown customer"
			return nil
		}
		return fmt.Errorf("tenant lookup: %w", err)
	}
	// A paid invoice opens the next billing period.
	var periodEnd *time.Time
	if inv.PeriodEnd > 0 {
		ts := time.Unix(inv.PeriodEnd, 0).UTC()
		periodEnd = &ts
	}
	if err := s.tenantRepo.UpdateSubscriptionState(ctx, t.ID, tenant.StatusActive, nil, periodEnd); err != nil {
		return fmt.Errorf("failed to activate tenant: %w", err)
	}

	if inv.PaymentIntent != "" {
		if err := s.referralService.HandlePaymentSucceeded(ctx, inv.Customer, inv.PaymentIntent); err != nil {
			// Referral failures must not nack the event: the payment
			// itself was applied, the referral retries on the next one.
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"event_id": event.ID, "tenant_id": t.ID}).WithError(err).Error("referral handling failed")
			}
		}
	}
	return nil
}

func (s *BillingWebhookService) handleInvoiceFailed(ctx context.Context, event stripe.Event, result *billing.WebhookResult) error {
	var inv invoiceEventObject
	if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
		return fmt.Errorf("failed to decode invoice event: %w", err)
	}
	t, err := s.tenantRepo.GetByBillingCustomerID(ctx, inv.Customer)
	if err != nil {
		if err == ports.ErrNotFound {
			result.Message = "unknown customer"
			return nil
		}
		return fmt.Errorf("tenant lookup: %w", err)
	}
	if err := s.tenantRepo.UpdateSubscriptionState(ctx, t.ID, tenant.StatusPastDue, nil, nil); err != nil {
		return fmt.Errorf("failed to mark tenant past due: %w", err)
	}
	return nil
}

func (s *BillingWebhookService) handleSubscriptionChanged(ctx context.Context, event stripe.Event, result *billing.WebhookResult) error {
	var sub subscriptionEventObject
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("failed to decode subscription event: %w", err)
	}
	t, err := s.tenantRepo.GetByBillingCustomerID(ctx, sub.Customer)
	if err != nil {
		if err == ports.ErrNotFound {
			result.Message = "unknown customer"
			return nil
		}
		return fmt.Errorf("tenant lookup: %w", err)
	}

	status := mapSubscriptionStatus(sub.Status)
	var trialEnd, periodEnd *time.Time
	if sub.TrialEnd > 0 {
		ts := time.Unix(sub.TrialEnd, 0).UTC()
		trialEnd = &ts
	}
	if sub.CurrentPeriodEnd > 0 {
		ts := time.Unix(sub.CurrentPeriodEnd, 0).UTC()
		periodEnd = &ts
	}
	if err := s.tenantRepo.UpdateSubscriptionState(ctx, t.ID, status, trialEnd, periodEnd); err != nil {
		return fmt.Errorf("failed to update subscription state: %w", err)
	}
	return nil
}

func mapSubscriptionStatus(providerStatus string) tenant.SubscriptionStatus {
	switch providerStatus {
	case "trialing":
		return tenant.StatusTrialing
	case "active":
		return tenant.StatusActive
	case "past_due", "unpaid":
		return tenant.StatusPastDue
	default:
		return tenant.StatusCanceled
	}
}
