package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// PortfolioService implements the portfolio CRUD surface. Referential
// checks run through the same scope as the write, so a caller can never
// attach a record to another tenant's parent row.
type PortfolioService struct {
	propertyRepo   ports.PropertyRepository
	leaseRepo      ports.LeaseRepository
	receivableRepo ports.ReceivableRepository
	logger         *logrus.Logger
}

func NewPortfolioService(propertyRepo ports.PropertyRepository, leaseRepo ports.LeaseRepository, receivableRepo ports.ReceivableRepository, logger *logrus.Logger) ports.PortfolioService {
	return &PortfolioService{
		propertyRepo:   propertyRepo,
		leaseRepo:      leaseRepo,
		receivableRepo: receivableRepo,
		logger:         logger,
	}
}

func (s *PortfolioService) CreateProperty(ctx context.Context, sc *guard.Scope, req *property.CreatePropertyRequest) (*property.Property, error) {
	p := &property.Property{
		ID:       uuid.New(),
		TenantID: sc.TenantID(),
		Name:     req.Name,
		Street:   req.Street,
		ZipCode:  req.ZipCode,
		City:     req.City,
	}
	if err := s.propertyRepo.CreateProperty(ctx, sc, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PortfolioService) ListProperties(ctx context.Context, sc *guard.Scope) ([]*property.Property, error) {
	return s.propertyRepo.ListProperties(ctx, sc)
}

func (s *PortfolioService) CreateUnit(ctx context.Context, sc *guard.Scope, req *property.CreateUnitRequest) (*property.Unit, error) {
	if _, err := s.propertyRepo.GetProperty(ctx, sc, req.PropertyID); err != nil {
		return nil, fmt.Errorf("property lookup: %w", err)
	}
	u := &property.Unit{
		ID:         uuid.New(),
		TenantID:   sc.TenantID(),
		PropertyID: req.PropertyID,
		Label:      req.Label,
		Floor:      req.Floor,
		AreaSqm:    req.AreaSqm,
	}
	if err := s.propertyRepo.CreateUnit(ctx, sc, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PortfolioService) ListUnits(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error) {
	return s.propertyRepo.ListUnits(ctx, sc)
}

func (s *PortfolioService) CreateOccupant(ctx context.Context, sc *guard.Scope, req *property.CreateOccupantRequest) (*property.Occupant, error) {
	o := &property.Occupant{
		ID:        uuid.New(),
		TenantID:  sc.TenantID(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if err := s.propertyRepo.CreateOccupant(ctx, sc, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PortfolioService) ListOccupants(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error) {
	return s.propertyRepo.ListOccupants(ctx, sc)
}

func (s *PortfolioService) CreateLease(ctx context.Context, sc *guard.Scope, req *lease.CreateLeaseRequest) (*lease.Lease, error) {
	if _, err := s.propertyRepo.GetUnit(ctx, sc, req.UnitID); err != nil {
		return nil, fmt.Errorf("unit lookup: %w", err)
	}
	if _, err := s.propertyRepo.GetOccupant(ctx, sc, req.OccupantID); err != nil {
		return nil, fmt.Errorf("occupant lookup: %w", err)
	}
	if !req.BaseRent.IsPositive() {
		return nil, fmt.Errorf("base rent must be positive")
	}
	l := &lease.Lease{
		ID:         uuid.New(),
		TenantID:   sc.TenantID(),
		UnitID:     req.UnitID,
		OccupantID: req.OccupantID,
		StartDate:  req.StartDate,
		BaseRent:   req.BaseRent,
	}
	if err := s.leaseRepo.Create(ctx, sc, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *PortfolioService) ListLeases(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
	return s.leaseRepo.List(ctx, sc)
}

func (s *PortfolioService) EndLease(ctx context.Context, sc *guard.Scope, id uuid.UUID, req *lease.EndLeaseRequest) error {
	l, err := s.leaseRepo.GetByID(ctx, sc, id)
	if err != nil {
		return err
	}
	if !l.IsActive() {
		return fmt.Errorf("lease is already ended")
	}
	if req.MoveOutDate.Before(l.StartDate) {
		return fmt.Errorf("move-out date precedes lease start")
	}
	return s.leaseRepo.End(ctx, sc, id, req.MoveOutDate)
}

func (s *PortfolioService) CreateReceivable(ctx context.Context, sc *guard.Scope, req *receivable.CreateReceivableRequest) (*receivable.Receivable, error) {
	if req.LeaseID != nil {
		if _, err := s.leaseRepo.GetByID(ctx, sc, *req.LeaseID); err != nil {
			return nil, fmt.Errorf("lease lookup: %w", err)
		}
	}
	if !req.AmountDue.IsPositive() {
		return nil, fmt.Errorf("amount due must be positive")
	}
	r := &receivable.Receivable{
		ID:        uuid.New(),
		TenantID:  sc.TenantID(),
		LeaseID:   req.LeaseID,
		Purpose:   req.Purpose,
		AmountDue: req.AmountDue,
		DueDate:   req.DueDate,
	}
	if err := s.receivableRepo.Create(ctx, sc, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PortfolioService) ListReceivables(ctx context.Context, sc *guard.Scope) ([]*receivable.Receivable, error) {
	return s.receivableRepo.List(ctx, sc)
}

func (s *PortfolioService) CreatePayment(ctx context.Context, sc *guard.Scope, req *receivable.CreatePaymentRequest) (*receivable.Payment, error) {
	if _, err := s.receivableRepo.GetByID(ctx, sc, req.ReceivableID); err != nil {
		return nil, fmt.Errorf("receivable lookup: %w", err)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	paidAt := req.PaidAt
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	p := &receivable.Payment{
		ID:           uuid.New(),
		TenantID:     sc.TenantID(),
		ReceivableID: req.ReceivableID,
		Amount:       req.Amount,
		PaidAt:       paidAt,
	}
	if err := s.receivableRepo.CreatePayment(ctx, sc, p); err != nil {
		return nil, err
	}
	return p, nil
}
