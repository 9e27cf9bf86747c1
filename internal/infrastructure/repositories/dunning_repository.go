package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// DunningRepository implements the dunning record repository. Records are
// insert-only; there is no update or delete path.
type DunningRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewDunningRepository(database *db.Database, logger *logrus.Logger) ports.DunningRepository {
	return &DunningRepository{db: database, logger: logger}
}

func (r *DunningRepository) Create(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error {
	err := sc.Insert(ctx, "dunning_records",
		[]string{"id", "lease_id", "stage", "open_amount", "days_overdue", "created_at"},
		rec.ID, rec.LeaseID, rec.Stage, rec.OpenAmount, rec.DaysOverdue, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create dunning record: %w", err)
	}
	return nil
}

// LatestForLease returns the most recent record for the lease. The caller
// uses its creation time for the cool-down check.
func (r *DunningRepository) LatestForLease(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) (*dunning.Record, error) {
	var recs []*dunning.Record
	err := sc.Select(ctx, &recs, "dunning_records", "*",
		"lease_id = ?", "ORDER BY created_at DESC LIMIT 1", leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest dunning record: %w", err)
	}
	if len(recs) == 0 {
		return nil, ports.ErrNotFound
	}
	return recs[0], nil
}

func (r *DunningRepository) ListByLease(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) ([]*dunning.Record, error) {
	var out []*dunning.Record
	err := sc.Select(ctx, &out, "dunning_records", "*",
		"lease_id = ?", "ORDER BY created_at DESC", leaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dunning records: %w", err)
	}
	return out, nil
}

func (r *DunningRepository) List(ctx context.Context, sc *guard.Scope) ([]*dunning.Record, error) {
	var out []*dunning.Record
	if err := sc.Select(ctx, &out, "dunning_records", "*", "", "ORDER BY created_at DESC"); err != nil {
		return nil, fmt.Errorf("failed to list dunning records: %w", err)
	}
	return out, nil
}
