package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/propgate/propgate/internal/core/domain/billing"
	"github.com/propgate/propgate/internal/core/domain/dunning"
	"github.com/propgate/propgate/internal/core/domain/lease"
	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/domain/receivable"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// TenantRepositoryMock is a lightweight mock for TenantRepository
type TenantRepositoryMock struct {
	CreateFn                  func(ctx context.Context, t *tenant.Tenant) error
	GetByIDFn                 func(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
	GetBySlugFn               func(ctx context.Context, slug string) (*tenant.Tenant, error)
	GetByReferralCodeFn       func(ctx context.Context, code string) (*tenant.Tenant, error)
	GetByBillingCustomerIDFn  func(ctx context.Context, customerID string) (*tenant.Tenant, error)
	UpdateSubscriptionStateFn func(ctx context.Context, id uuid.UUID, status tenant.SubscriptionStatus, trialEndsAt, currentPeriodEnd *time.Time) error
	UpdateDunningSettingsFn   func(ctx context.Context, id uuid.UUID, settings tenant.DunningSettings) error
	MarkReferralUsedFn        func(ctx context.Context, id uuid.UUID) (bool, error)
	ListAutoDunningFn         func(ctx context.Context) ([]*tenant.Tenant, error)
	ListFn                    func(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error)
	CountFn                   func(ctx context.Context) (int, error)
}

func (m *TenantRepositoryMock) Create(ctx context.Context, t *tenant.Tenant) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}
func (m *TenantRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}
func (m *TenantRepositoryMock) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	if m.GetBySlugFn != nil {
		return m.GetBySlugFn(ctx, slug)
	}
	return nil, ports.ErrNotFound
}
func (m *TenantRepositoryMock) GetByReferralCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	if m.GetByReferralCodeFn != nil {
		return m.GetByReferralCodeFn(ctx, code)
	}
	return nil, ports.ErrNotFound
}
func (m *TenantRepositoryMock) GetByBillingCustomerID(ctx context.Context, customerID string) (*tenant.Tenant, error) {
	if m.GetByBillingCustomerIDFn != nil {
		return m.GetByBillingCustomerIDFn(ctx, customerID)
	}
	return nil, ports.ErrNotFound
}
func (m *TenantRepositoryMock) UpdateSubscriptionState(ctx context.Context, id uuid.UUID, status tenant.SubscriptionStatus, trialEndsAt, currentPeriodEnd *time.Time) error {
	if m.UpdateSubscriptionStateFn != nil {
		return m.UpdateSubscriptionStateFn(ctx, id, status, trialEndsAt, currentPeriodEnd)
	}
	return nil
}
func (m *TenantRepositoryMock) UpdateDunningSettings(ctx context.Context, id uuid.UUID, settings tenant.DunningSettings) error {
	if m.UpdateDunningSettingsFn != nil {
		return m.UpdateDunningSettingsFn(ctx, id, settings)
	}
	return nil
}
func (m *TenantRepositoryMock) MarkReferralUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.MarkReferralUsedFn != nil {
		return m.MarkReferralUsedFn(ctx, id)
	}
	return true, nil
}
func (m *TenantRepositoryMock) ListAutoDunning(ctx context.Context) ([]*tenant.Tenant, error) {
	if m.ListAutoDunningFn != nil {
		return m.ListAutoDunningFn(ctx)
	}
	return nil, nil
}
func (m *TenantRepositoryMock) List(ctx context.Context, limit, offset int) ([]*tenant.Tenant, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, limit, offset)
	}
	return nil, nil
}
func (m *TenantRepositoryMock) Count(ctx context.Context) (int, error) {
	if m.CountFn != nil {
		return m.CountFn(ctx)
	}
	return 0, nil
}

// UserRepositoryMock is a lightweight mock for UserRepository
type UserRepositoryMock struct {
	CreateFn         func(ctx context.Context, sc *guard.Scope, u *user.User) error
	GetByEmailFn     func(ctx context.Context, email string) (*user.User, error)
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetTenantAdminFn func(ctx context.Context, sc *guard.Scope) (*user.User, error)
}

func (m *UserRepositoryMock) Create(ctx context.Context, sc *guard.Scope, u *user.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sc, u)
	}
	return nil
}
func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, ports.ErrNotFound
}
func (m *UserRepositoryMock) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ports.ErrNotFound
}
func (m *UserRepositoryMock) GetTenantAdmin(ctx context.Context, sc *guard.Scope) (*user.User, error) {
	if m.GetTenantAdminFn != nil {
		return m.GetTenantAdminFn(ctx, sc)
	}
	return nil, ports.ErrNotFound
}

// PropertyRepositoryMock is a lightweight mock for PropertyRepository
type PropertyRepositoryMock struct {
	CreatePropertyFn func(ctx context.Context, sc *guard.Scope, p *property.Property) error
	GetPropertyFn    func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Property, error)
	ListPropertiesFn func(ctx context.Context, sc *guard.Scope) ([]*property.Property, error)
	CreateUnitFn     func(ctx context.Context, sc *guard.Scope, u *property.Unit) error
	GetUnitFn        func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Unit, error)
	ListUnitsFn      func(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error)
	CreateOccupantFn func(ctx context.Context, sc *guard.Scope, o *property.Occupant) error
	GetOccupantFn    func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Occupant, error)
	ListOccupantsFn  func(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error)
}

func (m *PropertyRepositoryMock) CreateProperty(ctx context.Context, sc *guard.Scope, p *property.Property) error {
	if m.CreatePropertyFn != nil {
		return m.CreatePropertyFn(ctx, sc, p)
	}
	return nil
}
func (m *PropertyRepositoryMock) GetProperty(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Property, error) {
	if m.GetPropertyFn != nil {
		return m.GetPropertyFn(ctx, sc, id)
	}
	return nil, ports.ErrNotFound
}
func (m *PropertyRepositoryMock) ListProperties(ctx context.Context, sc *guard.Scope) ([]*property.Property, error) {
	if m.ListPropertiesFn != nil {
		return m.ListPropertiesFn(ctx, sc)
	}
	return nil, nil
}
func (m *PropertyRepositoryMock) CreateUnit(ctx context.Context, sc *guard.Scope, u *property.Unit) error {
	if m.CreateUnitFn != nil {
		return m.CreateUnitFn(ctx, sc, u)
	}
	return nil
}
func (m *PropertyRepositoryMock) GetUnit(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Unit, error) {
	if m.GetUnitFn != nil {
		return m.GetUnitFn(ctx, sc, id)
	}
	return nil, ports.ErrNotFound
}
func (m *PropertyRepositoryMock) ListUnits(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error) {
	if m.ListUnitsFn != nil {
		return m.ListUnitsFn(ctx, sc)
	}
	return nil, nil
}
func (m *PropertyRepositoryMock) CreateOccupant(ctx context.Context, sc *guard.Scope, o *property.Occupant) error {
	if m.CreateOccupantFn != nil {
		return m.CreateOccupantFn(ctx, sc, o)
	}
	return nil
}
func (m *PropertyRepositoryMock) GetOccupant(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Occupant, error) {
	if m.GetOccupantFn != nil {
		return m.GetOccupantFn(ctx, sc, id)
	}
	return nil, ports.ErrNotFound
}
func (m *PropertyRepositoryMock) ListOccupants(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error) {
	if m.ListOccupantsFn != nil {
		return m.ListOccupantsFn(ctx, sc)
	}
	return nil, nil
}

// LeaseRepositoryMock is a lightweight mock for LeaseRepository
type LeaseRepositoryMock struct {
	CreateFn     func(ctx context.Context, sc *guard.Scope, l *lease.Lease) error
	GetByIDFn    func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error)
	ListActiveFn func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error)
	ListFn       func(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error)
	EndFn        func(ctx context.Context, sc *guard.Scope, id uuid.UUID, moveOut time.Time) error
}

func (m *LeaseRepositoryMock) Create(ctx context.Context, sc *guard.Scope, l *lease.Lease) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sc, l)
	}
	return nil
}
func (m *LeaseRepositoryMock) GetByID(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*lease.Lease, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, sc, id)
	}
	return nil, ports.ErrNotFound
}
func (m *LeaseRepositoryMock) ListActive(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
	if m.ListActiveFn != nil {
		return m.ListActiveFn(ctx, sc)
	}
	return nil, nil
}
func (m *LeaseRepositoryMock) List(ctx context.Context, sc *guard.Scope) ([]*lease.Lease, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, sc)
	}
	return nil, nil
}
func (m *LeaseRepositoryMock) End(ctx context.Context, sc *guard.Scope, id uuid.UUID, moveOut time.Time) error {
	if m.EndFn != nil {
		return m.EndFn(ctx, sc, id, moveOut)
	}
	return nil
}

// ReceivableRepositoryMock is a lightweight mock for ReceivableRepository
type ReceivableRepositoryMock struct {
	CreateFn                  func(ctx context.Context, sc *guard.Scope, r *receivable.Receivable) error
	GetByIDFn                 func(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*receivable.Receivable, error)
	ListFn                    func(ctx context.Context, sc *guard.Scope) ([]*receivable.Receivable, error)
	ListOverdueForLeasesFn    func(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error)
	CreatePaymentFn           func(ctx context.Context, sc *guard.Scope, p *receivable.Payment) error
	ListPaymentsFn            func(ctx context.Context, sc *guard.Scope) ([]*receivable.Payment, error)
	SumPaymentsByReceivableFn func(ctx context.Context, sc *guard.Scope, receivableIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

func (m *ReceivableRepositoryMock) Create(ctx context.Context, sc *guard.Scope, r *receivable.Receivable) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sc, r)
	}
	return nil
}
func (m *ReceivableRepositoryMock) GetByID(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*receivable.Receivable, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, sc, id)
	}
	return nil, ports.ErrNotFound
}
func (m *ReceivableRepositoryMock) List(ctx context.Context, sc *guard.Scope) ([]*receivable.Receivable, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, sc)
	}
	return nil, nil
}
func (m *ReceivableRepositoryMock) ListOverdueForLeases(ctx context.Context, sc *guard.Scope, asOf time.Time) ([]*receivable.Receivable, error) {
	if m.ListOverdueForLeasesFn != nil {
		return m.ListOverdueForLeasesFn(ctx, sc, asOf)
	}
	return nil, nil
}
func (m *ReceivableRepositoryMock) CreatePayment(ctx context.Context, sc *guard.Scope, p *receivable.Payment) error {
	if m.CreatePaymentFn != nil {
		return m.CreatePaymentFn(ctx, sc, p)
	}
	return nil
}
func (m *ReceivableRepositoryMock) ListPayments(ctx context.Context, sc *guard.Scope) ([]*receivable.Payment, error) {
	if m.ListPaymentsFn != nil {
		return m.ListPaymentsFn(ctx, sc)
	}
	return nil, nil
}
func (m *ReceivableRepositoryMock) SumPaymentsByReceivable(ctx context.Context, sc *guard.Scope, receivableIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if m.SumPaymentsByReceivableFn != nil {
		return m.SumPaymentsByReceivableFn(ctx, sc, receivableIDs)
	}
	return map[uuid.UUID]decimal.Decimal{}, nil
}

// DunningRepositoryMock is a lightweight mock for DunningRepository
type DunningRepositoryMock struct {
	CreateFn         func(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error
	LatestForLeaseFn func(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) (*dunning.Record, error)
	ListByLeaseFn    func(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) ([]*dunning.Record, error)
	ListFn           func(ctx context.Context, sc *guard.Scope) ([]*dunning.Record, error)
}

func (m *DunningRepositoryMock) Create(ctx context.Context, sc *guard.Scope, rec *dunning.Record) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, sc, rec)
	}
	return nil
}
func (m *DunningRepositoryMock) LatestForLease(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) (*dunning.Record, error) {
	if m.LatestForLeaseFn != nil {
		return m.LatestForLeaseFn(ctx, sc, leaseID)
	}
	return nil, ports.ErrNotFound
}
func (m *DunningRepositoryMock) ListByLease(ctx context.Context, sc *guard.Scope, leaseID uuid.UUID) ([]*dunning.Record, error) {
	if m.ListByLeaseFn != nil {
		return m.ListByLeaseFn(ctx, sc, leaseID)
	}
	return nil, nil
}
func (m *DunningRepositoryMock) List(ctx context.Context, sc *guard.Scope) ([]*dunning.Record, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, sc)
	}
	return nil, nil
}

// ReferralRepositoryMock is a lightweight mock for ReferralRepository
type ReferralRepositoryMock struct {
	RecordUsedPaymentMethodFn   func(ctx context.Context, fingerprintHash, relationshipHash string) error
	FingerprintRelationshipFn   func(ctx context.Context, fingerprintHash string) (string, error)
	CreateCreditFn              func(ctx context.Context, credit *billing.ReferralCredit) error
	GetCreditByReferredTenantFn func(ctx context.Context, referredTenantID uuid.UUID) (*billing.ReferralCredit, error)
	MarkCreditGrantedFn         func(ctx context.Context, id uuid.UUID) error
	DeleteCreditFn              func(ctx context.Context, id uuid.UUID) error
	ListCreditsByReferrerFn     func(ctx context.Context, referrerTenantID uuid.UUID) ([]*billing.ReferralCredit, error)
}

func (m *ReferralRepositoryMock) RecordUsedPaymentMethod(ctx context.Context, fingerprintHash, relationshipHash string) error {
	if m.RecordUsedPaymentMethodFn != nil {
		return m.RecordUsedPaymentMethodFn(ctx, fingerprintHash, relationshipHash)
	}
	return nil
}
func (m *ReferralRepositoryMock) FingerprintRelationship(ctx context.Context, fingerprintHash string) (string, error) {
	if m.FingerprintRelationshipFn != nil {
		return m.FingerprintRelationshipFn(ctx, fingerprintHash)
	}
	return "", ports.ErrNotFound
}
func (m *ReferralRepositoryMock) CreateCredit(ctx context.Context, credit *billing.ReferralCredit) error {
	if m.CreateCreditFn != nil {
		return m.CreateCreditFn(ctx, credit)
	}
	return nil
}
func (m *ReferralRepositoryMock) GetCreditByReferredTenant(ctx context.Context, referredTenantID uuid.UUID) (*billing.ReferralCredit, error) {
	if m.GetCreditByReferredTenantFn != nil {
		return m.GetCreditByReferredTenantFn(ctx, referredTenantID)
	}
	return nil, ports.ErrNotFound
}
func (m *ReferralRepositoryMock) MarkCreditGranted(ctx context.Context, id uuid.UUID) error {
	if m.MarkCreditGrantedFn != nil {
		return m.MarkCreditGrantedFn(ctx, id)
	}
	return nil
}
func (m *ReferralRepositoryMock) DeleteCredit(ctx context.Context, id uuid.UUID) error {
	if m.DeleteCreditFn != nil {
		return m.DeleteCreditFn(ctx, id)
	}
	return nil
}
func (m *ReferralRepositoryMock) ListCreditsByReferrer(ctx context.Context, referrerTenantID uuid.UUID) ([]*billing.ReferralCredit, error) {
	if m.ListCreditsByReferrerFn != nil {
		return m.ListCreditsByReferrerFn(ctx, referrerTenantID)
	}
	return nil, nil
}

// BillingClientMock is a lightweight mock for BillingClient
type BillingClientMock struct {
	PaymentMethodFingerprintFn func(ctx context.Context, paymentIntentID string) (string, error)
	CreditCustomerBalanceFn    func(ctx context.Context, customerID string, amountCents int64, currency, description string) error
}

func (m *BillingClientMock) PaymentMethodFingerprint(ctx context.Context, paymentIntentID string) (string, error) {
	if m.PaymentMethodFingerprintFn != nil {
		return m.PaymentMethodFingerprintFn(ctx, paymentIntentID)
	}
	return "", nil
}
func (m *BillingClientMock) CreditCustomerBalance(ctx context.Context, customerID string, amountCents int64, currency, description string) error {
	if m.CreditCustomerBalanceFn != nil {
		return m.CreditCustomerBalanceFn(ctx, customerID, amountCents, currency, description)
	}
	return nil
}

// EmailServiceMock is a lightweight mock for EmailService
type EmailServiceMock struct {
	SendDunningNoticeFn        func(ctx context.Context, to, occupantName string, stage dunning.Stage, openAmount decimal.Decimal) error
	SendReferralCreditNoticeFn func(ctx context.Context, to, tenantName string, amountCents int64) error
	SendPasswordResetNoticeFn  func(ctx context.Context, to, firstName string) error
}

func (m *EmailServiceMock) SendDunningNotice(ctx context.Context, to, occupantName string, stage dunning.Stage, openAmount decimal.Decimal) error {
	if m.SendDunningNoticeFn != nil {
		return m.SendDunningNoticeFn(ctx, to, occupantName, stage, openAmount)
	}
	return nil
}
func (m *EmailServiceMock) SendReferralCreditNotice(ctx context.Context, to, tenantName string, amountCents int64) error {
	if m.SendReferralCreditNoticeFn != nil {
		return m.SendReferralCreditNoticeFn(ctx, to, tenantName, amountCents)
	}
	return nil
}
func (m *EmailServiceMock) SendPasswordResetNotice(ctx context.Context, to, firstName string) error {
	if m.SendPasswordResetNoticeFn != nil {
		return m.SendPasswordResetNoticeFn(ctx, to, firstName)
	}
	return nil
}

// RateLimitStoreMock is a lightweight mock for RateLimitStore
type RateLimitStoreMock struct {
	CheckFn func(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error)
}

func (m *RateLimitStoreMock) Check(ctx context.Context, key string, limit int, window time.Duration) (ports.RateLimitResult, error) {
	if m.CheckFn != nil {
		return m.CheckFn(ctx, key, limit, window)
	}
	return ports.RateLimitResult{Allowed: true, Remaining: limit, Limit: limit}, nil
}

// ReferralServiceMock is a lightweight mock for ReferralService
type ReferralServiceMock struct {
	HandlePaymentSucceededFn func(ctx context.Context, billingCustomerID, paymentIntentID string) error
}

func (m *ReferralServiceMock) HandlePaymentSucceeded(ctx context.Context, billingCustomerID, paymentIntentID string) error {
	if m.HandlePaymentSucceededFn != nil {
		return m.HandlePaymentSucceededFn(ctx, billingCustomerID, paymentIntentID)
	}
	return nil
}

// DunningServiceMock is a lightweight mock for DunningService
type DunningServiceMock struct {
	ProposeFn      func(ctx context.Context, sc *guard.Scope) ([]*dunning.Proposal, error)
	IssueFn        func(ctx context.Context, sc *guard.Scope, req *dunning.IssueRequest) (*dunning.Record, error)
	RunAutomaticFn func(ctx context.Context) (*dunning.RunSummary, error)
}

func (m *DunningServiceMock) Propose(ctx context.Context, sc *guard.Scope) ([]*dunning.Proposal, error) {
	if m.ProposeFn != nil {
		return m.ProposeFn(ctx, sc)
	}
	return nil, nil
}
func (m *DunningServiceMock) Issue(ctx context.Context, sc *guard.Scope, req *dunning.IssueRequest) (*dunning.Record, error) {
	if m.IssueFn != nil {
		return m.IssueFn(ctx, sc, req)
	}
	return nil, nil
}
func (m *DunningServiceMock) RunAutomatic(ctx context.Context) (*dunning.RunSummary, error) {
	if m.RunAutomaticFn != nil {
		return m.RunAutomaticFn(ctx)
	}
	return &dunning.RunSummary{OK: true}, nil
}
