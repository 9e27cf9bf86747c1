package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// PropertyRepository covers properties, units and occupants. All operations
// run under a request-scoped guard.
type PropertyRepository interface {
	CreateProperty(ctx context.Context, sc *guard.Scope, p *property.Property) error
	GetProperty(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Property, error)
	ListProperties(ctx context.Context, sc *guard.Scope) ([]*property.Property, error)

	CreateUnit(ctx context.Context, sc *guard.Scope, u *property.Unit) error
	GetUnit(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Unit, error)
	ListUnits(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error)

	CreateOccupant(ctx context.Context, sc *guard.Scope, o *property.Occupant) error
	GetOccupant(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Occupant, error)
	ListOccupants(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error)
}

// LeaseRepository defines data operations on leases.
type LeaseRepository interface {
	Create(ctx context.Context, sc *guard.Scope, l *lease.Lease) error
	GetByID(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error)
	ListActive(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error)
	List(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error)
	End(ctx context.Context, sc *guard.Scope, id uuid.UUID, moveOut time.Time) error
}

// ReceivableRepository defines data operations on receivables and payments.
type ReceivableRepository interface {
	Create(ctx context.Context, sc *guard.Scope, r *receivable.Receivable) error
	GetByID(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*receivable.Receivable, error)
	List(ctx context.Context, sc *guard.Scope) ([]*receivable.Receivable, error)
	// ListOverdueForLeases returns receivables attached to a lease whose
	// due date lies before asOf.
	ListOverdueForLeases(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error)

	CreatePayment(ctx context.Context, sc *guard.Scope, p *receivable.Payment) error
	ListPayments(ctx context.Context, sc *guard.Scope) ([]*receivable.Payment, error)
	// SumPaymentsByReceivable returns paid totals keyed by receivable id.
	// Receivables without payments are absent from the map.
	SumPaymentsByReceivable(ctx context.Context, sc *guard.Scope, receivableIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

// PortfolioService is the CRUD surface for the property portfolio.
type PortfolioService interface {
	CreateProperty(ctx context.Context, sc *guard.Scope, req *property.CreatePropertyRequest) (*property.Property, error)
	ListProperties(ctx context.Context, sc *guard.Scope) ([]*property.Property, error)
	CreateUnit(ctx context.Context, sc *guard.Scope, req *property.CreateUnitRequest) (*property.Unit, error)
	ListUnits(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error)
	CreateOccupant(ctx context.Context, sc *guard.Scope, req *property.CreateOccupantRequest) (*property.Occupant, error)
	ListOccupants(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error)
	CreateLease(ctx context.Context, sc *guard.Scope, req *lease.CreateLeaseRequest) (*lease.Lease, error)
	ListLeases(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error)
	EndLease(ctx context.Context, sc *guard.Scope, id uuid.UUID, req *lease.EndLeaseRequest) error
	CreateReceivable(ctx context.Context, sc *guard.Scope, req *receivable.CreateReceivableRequest) (*receivable.Receivable, error)
	ListReceivables(ctx context.Context, sc *guard.Scope) ([]*receivable.Receivable, error)
	CreatePayment(ctx context.Context, sc *guard.Scope, req *receivable.CreatePaymentRequest) (*receivable.Payment, error)
}
