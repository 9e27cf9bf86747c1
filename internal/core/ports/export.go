package ports

import (
	"context"
	"time"

	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// ExportDocument is the single structured document returned for regulatory
// data-portability requests. Every entity is read through the request scope.
type ExportDocument struct {
	GeneratedAt    time.Time                `json:"generated_at"`
	Tenant         *tenant.Tenant           `json:"tenant"`
	Properties     []*property.Property     `json:"properties"`
	Units          []*property.Unit         `json:"units"`
	Occupants      []*property.Occupant     `json:"occupants"`
	Leases         []*lease.Lease           `json:"leases"`
	Receivables    []*receivable.Receivable `json:"receivables"`
	Payments       []*receivable.Payment    `json:"payments"`
	DunningRecords []*dunning.Record        `json:"dunning_records"`
}

// ExportService assembles the tenant data export.
type ExportService interface {
	Export(ctx context.Context, sc *guard.Scope) (*ExportDocument, error)
}
