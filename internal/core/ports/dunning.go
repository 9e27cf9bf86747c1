package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// DunningRepository persists dunning records. Records are insert-only.
type DunningRepository interface {
	Create(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error
	// LatestForLease returns the most recent record for the lease or
	// ErrNotFound when none exists.
	LatestForLease(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) (*dunning.Record, error)
	ListByLease(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) ([]*dunning.Record, error)
	List(ctx context.Context, sc *guard.Scope) ([]*dunning.Record, error)
}

// DunningService computes dunning proposals and issues records.
type DunningService interface {
	// Propose is read-only and idempotent: repeated calls over unchanged
	// data return identical candidates.
	Propose(ctx context.Context, sc *guard.Scope) ([]*dunning.Proposal, error)
	// Issue creates a record for the lease at the given stage. The manual
	// path enforces only the cool-down; ErrCooldown or ErrNotFound signal
	// rejection.
	Issue(ctx context.Context, sc *guard.Scope, req *dunning.IssueRequest) (*dunning.Record, error)
	// RunAutomatic processes every tenant with automatic dunning enabled.
	// Per-tenant failures are logged and do not abort the run.
	RunAutomatic(ctx context.Context) (*dunning.RunSummary, error)
}
