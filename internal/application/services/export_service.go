package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// ExportService assembles the data-portability document. Every business
// entity is read through the request scope, so the export can never include
// another tenant's rows regardless of how the queries evolve.
type ExportService struct {
	tenantRepo     ports.TenantRepository
	propertyRepo   ports.PropertyRepository
	leaseRepo      ports.LeaseRepository
	receivableRepo ports.ReceivableRepository
	dunningRepo    ports.DunningRepository
	logger         *logrus.Logger
}

func NewExportService(
	tenantRepo ports.TenantRepository,
	propertyRepo ports.PropertyRepository,
	leaseRepo ports.LeaseRepository,
	receivableRepo ports.ReceivableRepository,
	dunningRepo ports.DunningRepository,
	logger *logrus.Logger,
) ports.ExportService {
	return &ExportService{
		tenantRepo:     tenantRepo,
		propertyRepo:   propertyRepo,
		leaseRepo:      leaseRepo,
		receivableRepo: receivableRepo,
		dunningRepo:    dunningRepo,
		logger:         logger,
	}
}

func (s *ExportService) Export(ctx context.Context, sc *guard.Scope) (*ports.ExportDocument, error) {
	doc := &ports.ExportDocument{GeneratedAt: time.Now().UTC()}

	var err error
	if doc.Tenant, err = s.tenantRepo.GetByID(ctx, sc.TenantID()); err != nil {
		return nil, fmt.Errorf("tenant lookup: %w", err)
	}
	if doc.Properties, err = s.propertyRepo.ListProperties(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export properties: %w", err)
	}
	if doc.Units, err = s.propertyRepo.ListUnits(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export units: %w", err)
	}
	if doc.Occupants, err = s.propertyRepo.ListOccupants(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export occupants: %w", err)
	}
	if doc.Leases, err = s.leaseRepo.List(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export leases: %w", err)
	}
	if doc.Receivables, err = s.receivableRepo.List(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export receivables: %w", err)
	}
	if doc.Payments, err = s.receivableRepo.ListPayments(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export payments: %w", err)
	}
	if doc.DunningRecords, err = s.dunningRepo.List(ctx, sc); err != nil {
		return nil, fmt.Errorf("failed to export dunning records: %w", err)
	}
	return doc, nil
}
