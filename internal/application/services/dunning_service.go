package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// issueCooldown is the minimum gap between two dunning records for the same
// lease, on both the manual and the automatic path.
const issueCooldown = 30 * 24 * time.Hour

var (
	dunningRecordsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propgate_dunning_records_created_total",
		Help: "Number of dunning records created, manual and automatic.",
	})
	dunningRunTenantErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propgate_dunning_run_tenant_errors_total",
		Help: "Number of tenants that failed during automatic dunning runs.",
	})
)

// DunningService computes proposals over open receivables and issues
// dunning records.
type DunningService struct {
	tenantRepo     ports.TenantRepository
	leaseRepo      ports.LeaseRepository
	receivableRepo ports.ReceivableRepository
	propertyRepo   ports.PropertyRepository
	dunningRepo    ports.DunningRepository
	emailService   ports.EmailService
	ext            sqlx.ExtContext
	policy         dunning.StagePolicy
	logger         *logrus.Logger
	now            func() time.Time
}

func NewDunningService(
	tenantRepo ports.TenantRepository,
	leaseRepo ports.LeaseRepository,
	receivableRepo ports.ReceivableRepository,
	propertyRepo ports.PropertyRepository,
	dunningRepo ports.DunningRepository,
	emailService ports.EmailService,
	ext sqlx.ExtContext,
	logger *logrus.Logger,
) *DunningService {
	return &DunningService{
		tenantRepo:     tenantRepo,
		leaseRepo:      leaseRepo,
		receivableRepo: receivableRepo,
		propertyRepo:   propertyRepo,
		dunningRepo:    dunningRepo,
		emailService:   emailService,
		ext:            ext,
		policy:         dunning.DefaultStagePolicy(),
		logger:         logger,
		now:            time.Now,
	}
}

// leaseDebt is the aggregated overdue position of one lease.
type leaseDebt struct {
	open        decimal.Decimal
	daysOverdue int
}

// Propose returns one candidate per active lease that has a positive open
// amount on past-due receivables. The tenant's overdue-days threshold does
// not filter here; it only gates the automatic path. Read-only; calling it
// twice over unchanged data yields identical results.
func (s *DunningService) Propose(ctx context.Context, sc *guard.Scope) ([]*dunning.Proposal, error) {
	leases, err := s.leaseRepo.ListActive(ctx, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to list active leases: %w", err)
	}
	if len(leases) == 0 {
		return []*dunning.Proposal{}, nil
	}
	activeLeases := make(map[uuid.UUID]bool, len(leases))
	for _, l := range leases {
		activeLeases[l.ID] = true
	}

	debts, err := s.collectDebts(ctx, sc, activeLeases)
	if err != nil {
		return nil, err
	}

	proposals := make([]*dunning.Proposal, 0, len(debts))
	for leaseID, debt := range debts {
		stage, ok := s.policy.StageFor(debt.daysOverdue)
		if !ok {
			continue
		}
		p := &dunning.Proposal{
			LeaseID:          leaseID,
			OpenAmount:       debt.open,
			DaysOverdue:      debt.daysOverdue,
			RecommendedStage: stage,
		}
		if err := s.attachLabels(ctx, sc, p); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"lease_id": leaseID}).WithError(err).Warn("failed to resolve proposal labels")
			}
		}
		proposals = append(proposals, p)
	}

	// Most overdue first; lease id breaks ties so the order is stable.
	sort.Slice(proposals, func(i, j int) bool {
		if proposals[i].DaysOverdue != proposals[j].DaysOverdue {
			return proposals[i].DaysOverdue > proposals[j].DaysOverdue
		}
		return proposals[i].LeaseID.String() < proposals[j].LeaseID.String()
	})
	return proposals, nil
}

// Issue creates a dunning record for the lease at the requested stage after
// the cool-down check. The stage choice is the caller's; only its validity
// is enforced.
func (s *DunningService) Issue(ctx context.Context, sc *guard.Scope, req *dunning.IssueRequest) (*dunning.Record, error) {
	if !req.Stage.IsValid() {
		return nil, fmt.Errorf("unknown dunning stage %q", req.Stage)
	}
	l, err := s.leaseRepo.GetByID(ctx, sc, req.LeaseID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	latest, err := s.dunningRepo.LatestForLease(ctx, sc, req.LeaseID)
	switch {
	case err == nil:
		if now.Sub(latest.CreatedAt) < issueCooldown {
			return nil, ports.ErrCooldown
		}
	case err != ports.ErrNotFound:
		return nil, fmt.Errorf("failed to check dunning history: %w", err)
	}

	debts, err := s.collectDebts(ctx, sc, map[uuid.UUID]bool{l.ID: true})
	if err != nil {
		return nil, err
	}
	debt, ok := debts[l.ID]
	if !ok {
		return nil, fmt.Errorf("lease has no open overdue amount")
	}

	rec := &dunning.Record{
		ID:          uuid.New(),
		TenantID:    sc.TenantID(),
		LeaseID:     l.ID,
		Stage:       req.Stage,
		OpenAmount:  debt.open,
		DaysOverdue: debt.daysOverdue,
		CreatedAt:   now,
	}
	if err := s.dunningRepo.Create(ctx, sc, rec); err != nil {
		return nil, err
	}
	dunningRecordsCreated.Inc()

	s.notifyOccupant(ctx, sc, l.OccupantID, rec)
	return rec, nil
}

// RunAutomatic issues records for every tenant that opted in. A failing
// tenant is logged and skipped; leases inside the cool-down are silently
// passed over.
func (s *DunningService) RunAutomatic(ctx context.Context) (*dunning.RunSummary, error) {
	tenants, err := s.tenantRepo.ListAutoDunning(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list opted-in tenants: %w", err)
	}

	summary := &dunning.RunSummary{OK: true}
	for _, t := range tenants {
		sc := guard.NewScope(s.ext, t.ID)
		created, err := s.runTenant(ctx, sc, t.Dunning.OverdueThresholdDays)
		if err != nil {
			dunningRunTenantErrors.Inc()
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"tenant_id": t.ID}).WithError(err).Error("automatic dunning failed for tenant")
			}
			continue
		}
		summary.TenantsProcessed++
		summary.RecordsCreated += created
	}
	return summary, nil
}

// runTenant issues every proposal meeting the tenant's overdue-days
// threshold. The threshold gates only this automatic path; manual issuance
// and Propose ignore it.
func (s *DunningService) runTenant(ctx context.Context, sc *guard.Scope, thresholdDays int) (int, error) {
	if thresholdDays < 1 {
		thresholdDays = 1
	}
	proposals, err := s.Propose(ctx, sc)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, p := range proposals {
		if p.DaysOverdue < thresholdDays {
			continue
		}
		_, err := s.Issue(ctx, sc, &dunning.IssueRequest{LeaseID: p.LeaseID, Stage: p.RecommendedStage})
		if err == ports.ErrCooldown {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("failed to issue for lease %s: %w", p.LeaseID, err)
		}
		created++
	}
	return created, nil
}

// collectDebts aggregates past-due receivables per lease. A receivable
// counts as long as it still has a positive open amount after payments.
func (s *DunningService) collectDebts(ctx context.Context, sc *guard.Scope, leases map[uuid.UUID]bool) (map[uuid.UUID]leaseDebt, error) {
	now := s.now()

	overdue, err := s.receivableRepo.ListOverdueForLeases(ctx, sc, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue receivables: %w", err)
	}

	relevant := make([]*receivable.Receivable, 0, len(overdue))
	ids := make([]uuid.UUID, 0, len(overdue))
	for _, r := range overdue {
		if r.LeaseID == nil || !leases[*r.LeaseID] {
			continue
		}
		relevant = append(relevant, r)
		ids = append(ids, r.ID)
	}
	if len(relevant) == 0 {
		return map[uuid.UUID]leaseDebt{}, nil
	}

	paid, err := s.receivableRepo.SumPaymentsByReceivable(ctx, sc, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to sum payments: %w", err)
	}

	debts := make(map[uuid.UUID]leaseDebt)
	for _, r := range relevant {
		open := r.OpenAmount(paid[r.ID])
		if !open.IsPositive() {
			continue
		}
		days := daysOverdue(r.DueDate, now)
		debt := debts[*r.LeaseID]
		debt.open = debt.open.Add(open)
		if days > debt.daysOverdue {
			debt.daysOverdue = days
		}
		debts[*r.LeaseID] = debt
	}
	return debts, nil
}

func (s *DunningService) attachLabels(ctx context.Context, sc *guard.Scope, p *dunning.Proposal) error {
	l, err := s.leaseRepo.GetByID(ctx, sc, p.LeaseID)
	if err != nil {
		return err
	}
	o, err := s.propertyRepo.GetOccupant(ctx, sc, l.OccupantID)
	if err != nil {
		return err
	}
	p.OccupantName = o.FullName()
	u, err := s.propertyRepo.GetUnit(ctx, sc, l.UnitID)
	if err != nil {
		return err
	}
	p.UnitLabel = u.Label
	prop, err := s.propertyRepo.GetProperty(ctx, sc, u.PropertyID)
	if err != nil {
		return err
	}
	p.PropertyName = prop.Name
	return nil
}

func (s *DunningService) notifyOccupant(ctx context.Context, sc *guard.Scope, occupantID uuid.UUID, rec *dunning.Record) {
	o, err := s.propertyRepo.GetOccupant(ctx, sc, occupantID)
	if err != nil || o.Email == "" {
		return
	}
	if err := s.emailService.SendDunningNotice(ctx, o.Email, o.FullName(), rec.Stage, rec.OpenAmount); err != nil {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{"lease_id": rec.LeaseID, "stage": rec.Stage}).WithError(err).Warn("failed to send dunning notice")
		}
	}
}

func daysOverdue(dueDate, now time.Time) int {
	if !dueDate.Before(now) {
		return 0
	}
	return int(now.Sub(dueDate).Hours() / 24)
}
