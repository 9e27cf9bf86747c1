package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	impl "github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/infrastructure/guard"
	"github.com/propgate/propgate/test/mocks"
)

func TestExport_AssemblesDocument(t *testing.T) {
	tenantID := uuid.New()
	sc := guard.NewScope(nil, tenantID)

	tenantRepo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id, Name: "Acme Hausverwaltung"}, nil
		},
	}
	propertyRepo := &mocks.PropertyRepositoryMock{
		ListPropertiesFn: func(ctx context.Context, sc *guard.Scope) ([]*property.Property, error) {
			return []*property.Property{{ID: uuid.New(), Name: "Hauptstrasse 1"}}, nil
		},
		ListUnitsFn: func(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error) {
			return []*property.Unit{{ID: uuid.New(), Label: "EG links"}}, nil
		},
		ListOccupantsFn: func(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error) {
			return []*property.Occupant{{ID: uuid.New(), FirstName: "Max", LastName: "Mustermann"}}, nil
		},
	}
	leaseRepo := &mocks.LeaseRepositoryMock{
		ListFn: func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
			return []*lease.Lease{{ID: uuid.New()}}, nil
		},
	}
	dunningRepo := &mocks.DunningRepositoryMock{
		ListFn: func(ctx context.Context, sc *guard.Scope) ([]*dunning.Record, error) {
			return []*dunning.Record{{ID: uuid.New(), Stage: dunning.StageReminder}}, nil
		},
	}

	svc := impl.NewExportService(tenantRepo, propertyRepo, leaseRepo, &mocks.ReceivableRepositoryMock{}, dunningRepo, nil)
	doc, err := svc.Export(context.Background(), sc)
	require.NoError(t, err)

	assert.Equal(t, tenantID, doc.Tenant.ID)
	assert.False(t, doc.GeneratedAt.IsZero())
	assert.Len(t, doc.Properties, 1)
	assert.Len(t, doc.Units, 1)
	assert.Len(t, doc.Occupants, 1)
	assert.Len(t, doc.Leases, 1)
	assert.Len(t, doc.DunningRecords, 1)
	assert.Empty(t, doc.Receivables)
	assert.Empty(t, doc.Payments)
}

func TestExport_PropagatesRepoErrors(t *testing.T) {
	tenantRepo := &mocks.TenantRepositoryMock{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
			return &tenant.Tenant{ID: id}, nil
		},
	}
	propertyRepo := &mocks.PropertyRepositoryMock{
		ListPropertiesFn: func(ctx context.Context, sc *guard.Scope) ([]*property.Property, error) {
			return nil, errors.New("storage unavailable")
		},
	}

	svc := impl.NewExportService(tenantRepo, propertyRepo, &mocks.LeaseRepositoryMock{}, &mocks.ReceivableRepositoryMock{}, &mocks.DunningRepositoryMock{}, nil)
	_, err := svc.Export(context.Background(), guard.NewScope(nil, uuid.New()))
	require.Error(t, err)
}
