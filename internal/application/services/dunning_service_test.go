package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	impl "github.com/propgate/propgate/internal/application/services"
	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
	"github.com/propgate/propgate/test/mocks"
)

func overdueReceivable(leaseID uuid.UUID, amount string, daysOverdue int) *receivable.Receivable {
	id := leaseID
	return &receivable.Receivable{
		ID:        uuid.New(),
		LeaseID:   &id,
		Purpose:   "rent",
		AmountDue: decimal.RequireFromString(amount),
		DueDate:   time.Now().Add(-time.Duration(daysOverdue)*24*time.Hour - time.Hour),
	}
}

func scopedTenant() (*mocks.TenantRepositoryMock, *guard.Scope, uuid.UUID) {
	tenantID := uuid.New()
	return &mocks.TenantRepositoryMock{}, guard.NewScope(nil, tenantID), tenantID
}

func TestIssue_CooldownActive(t *testing.T) {
	tenantRepo, sc, _ := scopedTenant()
	leaseID := uuid.New()

	leaseRepo := &mocks.LeaseRepositoryMock{
		GetByIDFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
			return &lease.Lease{ID: id}, nil
		},
	}
	dunningRepo := &mocks.DunningRepositoryMock{
		LatestForLeaseFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*dunning.Record, error) {
			return &dunning.Record{LeaseID: id, CreatedAt: time.Now().Add(-10 * 24 * time.Hour)}, nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, &mocks.ReceivableRepositoryMock{}, &mocks.PropertyRepositoryMock{}, dunningRepo, &mocks.EmailServiceMock{}, nil, nil)
	_, err := svc.Issue(context.Background(), sc, &dunning.IssueRequest{LeaseID: leaseID, Stage: dunning.StageReminder})
	if !errors.Is(err, ports.ErrCooldown) {
		t.Fatalf("expected ErrCooldown, got %v", err)
	}
}

func TestIssue_AfterCooldown(t *testing.T) {
	tenantRepo, sc, tenantID := scopedTenant()
	leaseID := uuid.New()

	leaseRepo := &mocks.LeaseRepositoryMock{
		GetByIDFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
			return &lease.Lease{ID: id}, nil
		},
	}
	var created *dunning.Record
	dunningRepo := &mocks.DunningRepositoryMock{
		LatestForLeaseFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*dunning.Record, error) {
			return &dunning.Record{LeaseID: id, CreatedAt: time.Now().Add(-31 * 24 * time.Hour)}, nil
		},
		CreateFn: func(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error {
			created = rec
			return nil
		},
	}
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "450.00", 20)}, nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, dunningRepo, &mocks.EmailServiceMock{}, nil, nil)
	rec, err := svc.Issue(context.Background(), sc, &dunning.IssueRequest{LeaseID: leaseID, Stage: dunning.StageNotice1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatalf("record was not persisted")
	}
	if rec.TenantID != tenantID || rec.LeaseID != leaseID {
		t.Fatalf("record carries wrong ids: %+v", rec)
	}
	if rec.Stage != dunning.StageNotice1 {
		t.Fatalf("stage = %q, want %q", rec.Stage, dunning.StageNotice1)
	}
	if !rec.OpenAmount.Equal(decimal.RequireFromString("450.00")) {
		t.Fatalf("open amount = %s, want 450.00", rec.OpenAmount)
	}
	if rec.DaysOverdue != 20 {
		t.Fatalf("days overdue = %d, want 20", rec.DaysOverdue)
	}
}

func TestIssue_NoOpenAmount(t *testing.T) {
	tenantRepo, sc, _ := scopedTenant()
	leaseID := uuid.New()

	leaseRepo := &mocks.LeaseRepositoryMock{
		GetByIDFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
			return &lease.Lease{ID: id}, nil
		},
	}
	// Fully paid: the sum of payments covers the receivable.
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "450.00", 20)}, nil
		},
		SumPaymentsByReceivableFn: func(ctx context.Context, sc *guard.Scope, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
			paid := make(map[uuid.UUID]decimal.Decimal, len(ids))
			for _, id := range ids {
				paid[id] = decimal.RequireFromString("450.00")
			}
			return paid, nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, &mocks.DunningRepositoryMock{}, &mocks.EmailServiceMock{}, nil, nil)
	_, err := svc.Issue(context.Background(), sc, &dunning.IssueRequest{LeaseID: leaseID, Stage: dunning.StageReminder})
	if err == nil {
		t.Fatalf("expected error for a lease without open overdue amount")
	}
}

func TestIssue_RejectsUnknownStage(t *testing.T) {
	tenantRepo, sc, _ := scopedTenant()
	svc := impl.NewDunningService(tenantRepo, &mocks.LeaseRepositoryMock{}, &mocks.ReceivableRepositoryMock{}, &mocks.PropertyRepositoryMock{}, &mocks.DunningRepositoryMock{}, &mocks.EmailServiceMock{}, nil, nil)
	if _, err := svc.Issue(context.Background(), sc, &dunning.IssueRequest{LeaseID: uuid.New(), Stage: "escalation_9"}); err == nil {
		t.Fatalf("expected error for unknown stage")
	}
}

func TestPropose_AggregatesPerLease(t *testing.T) {
	tenantRepo, sc, _ := scopedTenant()
	leaseA := uuid.New()
	leaseB := uuid.New()

	leaseRepo := &mocks.LeaseRepositoryMock{
		ListActiveFn: func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
			return []*lease.Lease{{ID: leaseA}, {ID: leaseB}}, nil
		},
	}
	recA1 := overdueReceivable(leaseA, "300.00", 16)
	recA2 := overdueReceivable(leaseA, "300.00", 45)
	recB := overdueReceivable(leaseB, "100.00", 5)
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{recA1, recA2, recB}, nil
		},
		SumPaymentsByReceivableFn: func(ctx context.Context, sc *guard.Scope, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
			// A partial payment on the oldest receivable of lease A.
			return map[uuid.UUID]decimal.Decimal{recA2.ID: decimal.RequireFromString("50.00")}, nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, &mocks.DunningRepositoryMock{}, &mocks.EmailServiceMock{}, nil, nil)
	proposals, err := svc.Propose(context.Background(), sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proposals) != 2 {
		t.Fatalf("got %d proposals, want 2", len(proposals))
	}

	// Sorted most overdue first: lease A (45 days) before lease B (5 days).
	first, second := proposals[0], proposals[1]
	if first.LeaseID != leaseA || second.LeaseID != leaseB {
		t.Fatalf("wrong order: %s then %s", first.LeaseID, second.LeaseID)
	}
	if !first.OpenAmount.Equal(decimal.RequireFromString("550.00")) {
		t.Fatalf("lease A open amount = %s, want 550.00", first.OpenAmount)
	}
	if first.DaysOverdue != 45 || first.RecommendedStage != dunning.StageNotice2 {
		t.Fatalf("lease A: days %d stage %q", first.DaysOverdue, first.RecommendedStage)
	}
	if second.RecommendedStage != dunning.StageReminder {
		t.Fatalf("lease B stage = %q, want reminder", second.RecommendedStage)
	}
}

func TestPropose_IgnoresTenantThreshold(t *testing.T) {
	// The overdue-days threshold gates only automatic issuance. Proposals
	// list every lease with a positive past-due open amount.
	tenantRepo, sc, _ := scopedTenant()
	tenantRepo.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
		return &tenant.Tenant{ID: id, Dunning: tenant.DunningSettings{OverdueThresholdDays: 30}}, nil
	}
	leaseID := uuid.New()

	leaseRepo := &mocks.LeaseRepositoryMock{
		ListActiveFn: func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
			return []*lease.Lease{{ID: leaseID}}, nil
		},
	}
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "100.00", 5)}, nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, &mocks.DunningRepositoryMock{}, &mocks.EmailServiceMock{}, nil, nil)
	proposals, err := svc.Propose(context.Background(), sc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(proposals) != 1 {
		t.Fatalf("got %d proposals, want 1; the threshold must not filter proposals", len(proposals))
	}
	if proposals[0].DaysOverdue != 5 || proposals[0].RecommendedStage != dunning.StageReminder {
		t.Fatalf("proposal: days %d stage %q", proposals[0].DaysOverdue, proposals[0].RecommendedStage)
	}
}

func TestIssue_IgnoresTenantThreshold(t *testing.T) {
	// Manual issuance is governed by the cool-down alone. A lease 5 days
	// overdue must be issuable even under a 30 day tenant threshold.
	tenantRepo, sc, _ := scopedTenant()
	tenantRepo.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
		return &tenant.Tenant{ID: id, Dunning: tenant.DunningSettings{OverdueThresholdDays: 30}}, nil
	}
	leaseID := uuid.New()

	leaseRepo := &mocks.LeaseRepositoryMock{
		GetByIDFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
			return &lease.Lease{ID: id}, nil
		},
	}
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "100.00", 5)}, nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, &mocks.DunningRepositoryMock{}, &mocks.EmailServiceMock{}, nil, nil)
	rec, err := svc.Issue(context.Background(), sc, &dunning.IssueRequest{LeaseID: leaseID, Stage: dunning.StageReminder})
	if err != nil {
		t.Fatalf("manual issuance must not apply the tenant threshold, got: %v", err)
	}
	if rec.DaysOverdue != 5 {
		t.Fatalf("days overdue = %d, want 5", rec.DaysOverdue)
	}
}

func TestRunAutomatic_IsolatesTenantFailures(t *testing.T) {
	failingTenant := uuid.New()
	healthyTenant := uuid.New()
	leaseID := uuid.New()

	tenantRepo := &mocks.TenantRepositoryMock{
		ListAutoDunningFn: func(ctx context.Context) ([]*tenant.Tenant, error) {
			return []*tenant.Tenant{
				{ID: failingTenant, Dunning: tenant.DunningSettings{OverdueThresholdDays: 1}},
				{ID: healthyTenant, Dunning: tenant.DunningSettings{OverdueThresholdDays: 1}},
			}, nil
		},
	}
	leaseRepo := &mocks.LeaseRepositoryMock{
		ListActiveFn: func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
			if sc.TenantID() == failingTenant {
				return nil, errors.New("db is down for this shard")
			}
			return []*lease.Lease{{ID: leaseID}}, nil
		},
		GetByIDFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
			return &lease.Lease{ID: id}, nil
		},
	}
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "200.00", 15)}, nil
		},
	}
	created := 0
	dunningRepo := &mocks.DunningRepositoryMock{
		CreateFn: func(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error {
			created++
			return nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, dunningRepo, &mocks.EmailServiceMock{}, nil, nil)
	summary, err := svc.RunAutomatic(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TenantsProcessed != 1 {
		t.Fatalf("processed = %d, want 1", summary.TenantsProcessed)
	}
	if summary.RecordsCreated != 1 || created != 1 {
		t.Fatalf("created = %d (repo saw %d), want 1", summary.RecordsCreated, created)
	}
}

func TestRunAutomatic_SkipsCooldownLeases(t *testing.T) {
	tenantID := uuid.New()
	leaseID := uuid.New()

	tenantRepo := &mocks.TenantRepositoryMock{
		ListAutoDunningFn: func(ctx context.Context) ([]*tenant.Tenant, error) {
			return []*tenant.Tenant{{ID: tenantID, Dunning: tenant.DunningSettings{OverdueThresholdDays: 1}}}, nil
		},
	}
	leaseRepo := &mocks.LeaseRepositoryMock{
		ListActiveFn: func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
			return []*lease.Lease{{ID: leaseID}}, nil
		},
		GetByIDFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
			return &lease.Lease{ID: id}, nil
		},
	}
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "200.00", 15)}, nil
		},
	}
	dunningRepo := &mocks.DunningRepositoryMock{
		LatestForLeaseFn: func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*dunning.Record, error) {
			return &dunning.Record{LeaseID: id, CreatedAt: time.Now().Add(-2 * 24 * time.Hour)}, nil
		},
		CreateFn: func(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error {
			t.Fatalf("no record may be created during the cool-down")
			return nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, dunningRepo, &mocks.EmailServiceMock{}, nil, nil)
	summary, err := svc.RunAutomatic(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TenantsProcessed != 1 || summary.RecordsCreated != 0 {
		t.Fatalf("summary = %+v, want 1 processed and 0 created", summary)
	}
}

func TestRunAutomatic_AppliesTenantThreshold(t *testing.T) {
	tenantID := uuid.New()
	leaseID := uuid.New()

	tenantRepo := &mocks.TenantRepositoryMock{
		ListAutoDunningFn: func(ctx context.Context) ([]*tenant.Tenant, error) {
			return []*tenant.Tenant{{ID: tenantID, Dunning: tenant.DunningSettings{OverdueThresholdDays: 30}}}, nil
		},
	}
	leaseRepo := &mocks.LeaseRepositoryMock{
		ListActiveFn: func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
			return []*lease.Lease{{ID: leaseID}}, nil
		},
	}
	receivableRepo := &mocks.ReceivableRepositoryMock{
		ListOverdueForLeasesFn: func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
			return []*receivable.Receivable{overdueReceivable(leaseID, "200.00", 5)}, nil
		},
	}
	dunningRepo := &mocks.DunningRepositoryMock{
		CreateFn: func(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error {
			t.Fatalf("a lease under the tenant threshold must not be issued automatically")
			return nil
		},
	}

	svc := impl.NewDunningService(tenantRepo, leaseRepo, receivableRepo, &mocks.PropertyRepositoryMock{}, dunningRepo, &mocks.EmailServiceMock{}, nil, nil)
	summary, err := svc.RunAutomatic(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TenantsProcessed != 1 || summary.RecordsCreated != 0 {
		t.Fatalf("summary = %+v, want 1 processed and 0 created", summary)
	}
}
