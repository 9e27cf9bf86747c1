package services_test

import (
	"context"
	"errors"
	"testing"

	impl "github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/test/mocks"
)

func TestProcess_RejectsBadSignature(t *testing.T) {
	svc := impl.NewBillingWebhookService(&mocks.TenantRepositoryMock{}, &mocks.ReferralServiceMock{}, "whsec_test", nil)

	payload := []byte(`{"id":"evt_1","type":"invoice.payment_succeeded"}`)
	_, err := svc.Process(context.Background(), payload, "t=1,v1=deadbeef")
	if !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a forged signature, got %v", err)
	}
}

func TestProcess_RejectsMissingSignature(t *testing.T) {
	svc := impl.NewBillingWebhookService(&mocks.TenantRepositoryMock{}, &mocks.ReferralServiceMock{}, "whsec_test", nil)

	_, err := svc.Process(context.Background(), []byte(`{}`), "")
	if !errors.Is(err, ports.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for a missing signature, got %v", err)
	}
}
