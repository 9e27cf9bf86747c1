package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"github.com/propgate/propgate/internal/core/domain/billing"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/test/mocks"
)

func TestMapSubscriptionStatus(t *testing.T) {
	cases := []struct {
		provider string
		want     tenant.SubscriptionStatus
	}{
		{"trialing", tenant.StatusTrialing},
		{"active", tenant.StatusActive},
		{"past_due", tenant.StatusPastDue},
		{"unpaid", tenant.StatusPastDue},
		{"canceled", tenant.StatusCanceled},
		{"incomplete_expired", tenant.StatusCanceled},
	}
	for _, tc := range cases {
		if got := mapSubscriptionStatus(tc.provider); got != tc.want {
			t.Fatalf("mapSubscriptionStatus(%q) = %q, want %q", tc.provider, got, tc.want)
		}
	}
}

func TestHandleInvoicePaid_UpdatesPeriodEnd(t *testing.T) {
	tenantID := uuid.New()
	var gotStatus tenant.SubscriptionStatus
	var gotPeriodEnd *time.Time
	tenantRepo := &mocks.TenantRepositoryMock{
		GetByBillingCustomerIDFn: func(ctx context.Context, customerID string) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: tenantID, BillingCustomerID: customerID}, nil
		},
		UpdateSubscriptionStateFn: func(ctx context.Context, id uuid.UUID, status tenant.SubscriptionStatus, trialEndsAt, currentPeriodEnd *time.Time) error {
			gotStatus = status
			gotPeriodEnd = currentPeriodEnd
			return nil
		},
	}
	svc := &BillingWebhookService{tenantRepo: tenantRepo, referralService: &mocks.ReferralServiceMock{}}

	periodEnd := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	event := stripe.Event{
		ID: "evt_1",
		Data: &stripe.EventData{
			Raw: []byte(`{"id":"in_1","customer":"cus_1","period_end":` + "1759276800" + `}`),
		},
	}
	if err := svc.handleInvoicePaid(context.Background(), event, &billing.WebhookResult{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotStatus != tenant.StatusActive {
		t.Fatalf("status = %q, want active", gotStatus)
	}
	if gotPeriodEnd == nil || !gotPeriodEnd.Equal(periodEnd) {
		t.Fatalf("period end = %v, want %v", gotPeriodEnd, periodEnd)
	}
}
