package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// LeaseRepository implements the lease repository interface.
type LeaseRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewLeaseRepository(database *db.Database, logger *logrus.Logger) ports.LeaseRepository {
	return &LeaseRepository{db: database, logger: logger}
}

func (r *LeaseRepository) Create(ctx context.Context, sc *guard.Scope, l *lease.Lease) error {
	err := sc.Insert(ctx, "leases",
		[]string{"id", "unit_id", "occupant_id", "start_date", "move_out_date", "base_rent"},
		l.ID, l.UnitID, l.OccupantID, l.StartDate, l.MoveOutDate, l.BaseRent)
	if err != nil {
		return fmt.Errorf("failed to create lease: %w", err)
	}
	return nil
}

func (r *LeaseRepository) GetByID(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
	var l lease.Lease
	if err := sc.Get(ctx, &l, "leases", "*", "id = ?", id); err != nil {
		return nil, translateRowError(err)
	}
	return &l, nil
}

// ListActive returns leases without a move-out date.
func (r *LeaseRepository) ListActive(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
	var out []*lease.Lease
	if err := sc.Select(ctx, &out, "leases", "*", "move_out_date IS NULL", "ORDER BY start_date"); err != nil {
		return nil, fmt.Errorf("failed to list active leases: %w", err)
	}
	return out, nil
}

func (r *LeaseRepository) List(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
	var out []*lease.Lease
	if err := sc.Select(ctx, &out, "leases", "*", "", "ORDER BY start_date"); err != nil {
		return nil, fmt.Errorf("failed to list leases: %w", err)
	}
	return out, nil
}

// End sets the move-out date, ending the lease.
func (r *LeaseRepository) End(ctx context.Context, sc *guard.Scope, id uuid.UUID, moveOut time.Time) error {
	rows, err := sc.Update(ctx, "leases", "move_out_date = ?, updated_at = NOW()", "id = ?", moveOut, id)
	if err != nil {
		return fmt.Errorf("failed to end lease: %w", err)
	}
	if rows == 0 {
		return ports.ErrNotFound
	}
	return nil
}
