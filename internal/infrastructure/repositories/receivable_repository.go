package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// ReceivableRepository implements the receivable and payment repository.
type ReceivableRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewReceivableRepository(database *db.Database, logger *logrus.Logger) ports.ReceivableRepository {
	return &ReceivableRepository{db: database, logger: logger}
}

func (r *ReceivableRepository) Create(ctx context.Context, sc *guard.Scope, rec *receivable.Receivable) error {
	err := sc.Insert(ctx, "receivables",
		[]string{"id", "lease_id", "purpose", "amount_due", "due_date"},
		rec.ID, rec.LeaseID, rec.Purpose, rec.AmountDue, rec.DueDate)
	if err != nil {
		return fmt.Errorf("failed to create receivable: %w", err)
	}
	return nil
}

func (r *ReceivableRepository) GetByID(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*receivable.Receivable, error) {
	var rec receivable.Receivable
	if err := sc.Get(ctx, &rec, "receivables", "*", "id = ?", id); err != nil {
		return nil, translateRowError(err)
	}
	return &rec, nil
}

func (r *ReceivableRepository) List(ctx context.Context, sc *guard.Scope) ([]*receivable.Receivable, error) {
	var out []*receivable.Receivable
	if err := sc.Select(ctx, &out, "receivables", "*", "", "ORDER BY due_date"); err != nil {
		return nil, fmt.Errorf("failed to list receivables: %w", err)
	}
	return out, nil
}

// ListOverdueForLeases returns lease-bound receivables due before asOf.
func (r *ReceivableRepository) ListOverdueForLeases(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
	var out []*receivable.Receivable
	err := sc.Select(ctx, &out, "receivables", "*",
		"due_date < ? AND lease_id IS NOT NULL", "ORDER BY due_date", asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue receivables: %w", err)
	}
	return out, nil
}

func (r *ReceivableRepository) CreatePayment(ctx context.Context, sc *guard.Scope, p *receivable.Payment) error {
	err := sc.Insert(ctx, "payments",
		[]string{"id", "receivable_id", "amount", "paid_at"},
		p.ID, p.ReceivableID, p.Amount, p.PaidAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *ReceivableRepository) ListPayments(ctx context.Context, sc *guard.Scope) ([]*receivable.Payment, error) {
	var out []*receivable.Payment
	if err := sc.Select(ctx, &out, "payments", "*", "", "ORDER BY paid_at"); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return out, nil
}

// SumPaymentsByReceivable aggregates paid totals for the given receivables.
func (r *ReceivableRepository) SumPaymentsByReceivable(ctx context.Context, sc *guard.Scope, receivableIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	totals := make(map[uuid.UUID]decimal.Decimal, len(receivableIDs))
	if len(receivableIDs) == 0 {
		return totals, nil
	}

	cond, args, err := sqlx.In("receivable_id IN (?)", receivableIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to expand receivable ids: %w", err)
	}

	var rows []struct {
		ReceivableID uuid.UUID       `db:"receivable_id"`
		Total        decimal.Decimal `db:"total"`
	}
	err = sc.Select(ctx, &rows, "payments",
		"receivable_id, COALESCE(SUM(amount), 0) AS total",
		cond, "GROUP BY receivable_id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}
	for _, row := range rows {
		totals[row.ReceivableID] = row.Total
	}
	return totals, nil
}
