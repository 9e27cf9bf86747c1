package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/billing"
	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

var (
	referralCreditsGranted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propgate_referral_credits_granted_total",
		Help: "Number of referral credits granted to referrers.",
	})
	referralAbuseDetected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "propgate_referral_abuse_detected_total",
		Help: "Number of referral conversions rejected by abuse checks.",
	})
)

// ReferralService converts the first qualifying payment of a referred
// tenant into a one-time credit for the referrer. The referralUsed flag is
// sticky: once the conversion is decided, in either direction, the tenant
// never enters this flow again.
type ReferralService struct {
	tenantRepo    ports.TenantRepository
	userRepo      ports.UserRepository
	referralRepo  ports.ReferralRepository
	billingClient ports.BillingClient
	emailService  ports.EmailService
	ext           sqlx.ExtContext
	logger        *logrus.Logger
}

func NewReferralService(
	tenantRepo ports.TenantRepository,
	userRepo ports.UserRepository,
	referralRepo ports.ReferralRepository,
	billingClient ports.BillingClient,
	emailService ports.EmailService,
	ext sqlx.ExtContext,
	logger *logrus.Logger,
) ports.ReferralService {
	return &ReferralService{
		tenantRepo:    tenantRepo,
		userRepo:      userRepo,
		referralRepo:  referralRepo,
		billingClient: billingClient,
		emailService:  emailService,
		ext:           ext,
		logger:        logger,
	}
}

// HandlePaymentSucceeded runs the conversion checks for one payment event.
// Returning an error leaves the referral slot open, so the next payment
// event retries naturally. Unknown customers and already-converted tenants
// are not errors.
func (s *ReferralService) HandlePaymentSucceeded(ctx context.Context, billingCustomerID, paymentIntentID string) error {
	t, err := s.tenantRepo.GetByBillingCustomerID(ctx, billingCustomerID)
	if err != nil {
		if err == ports.ErrNotFound {
			return nil
		}
		return fmt.Errorf("tenant lookup: %w", err)
	}
	if !t.WasReferred() {
		return nil
	}

	log := s.log().WithFields(logrus.Fields{"tenant_id": t.ID, "referral_code": *t.ReferredBy})

	referrer, err := s.tenantRepo.GetByReferralCode(ctx, *t.ReferredBy)
	if err != nil {
		if err == ports.ErrNotFound {
			// Dead code on the tenant row; close the slot so we stop
			// re-checking on every payment.
			log.Warn("referral code does not resolve, closing referral slot")
			return s.closeSlot(ctx, t.ID)
		}
		return fmt.Errorf("referrer lookup: %w", err)
	}
	if referrer.ID == t.ID {
		referralAbuseDetected.Inc()
		log.Warn("self-referral detected, closing referral slot")
		return s.closeSlot(ctx, t.ID)
	}

	fingerprint, err := s.billingClient.PaymentMethodFingerprint(ctx, paymentIntentID)
	if err != nil {
		return fmt.Errorf("fingerprint lookup: %w", err)
	}
	if fingerprint == "" {
		log.Info("payment has no instrument fingerprint, leaving referral open")
		return nil
	}

	fingerprintHash := billing.HashFingerprint(fingerprint)
	relationshipHash := billing.HashRelationship(referrer.ReferralCode, t.ID)

	storedRel, err := s.referralRepo.FingerprintRelationship(ctx, fingerprintHash)
	switch {
	case err == nil && storedRel != relationshipHash:
		referralAbuseDetected.Inc()
		log.Warn("payment instrument already used in another referral, closing referral slot")
		return s.closeSlot(ctx, t.ID)
	case err == nil:
		// Our own record from an earlier attempt that failed after this
		// point. Proceed and retry the credit.
	case err == ports.ErrNotFound:
		// The unique constraint decides the winner under concurrent
		// delivery; losing to a different referral is abuse.
		if err := s.referralRepo.RecordUsedPaymentMethod(ctx, fingerprintHash, relationshipHash); err != nil {
			if err != ports.ErrDuplicate {
				return fmt.Errorf("failed to record payment method: %w", err)
			}
			winner, werr := s.referralRepo.FingerprintRelationship(ctx, fingerprintHash)
			if werr != nil && werr != ports.ErrNotFound {
				return fmt.Errorf("fingerprint check: %w", werr)
			}
			if winner != relationshipHash {
				referralAbuseDetected.Inc()
				log.Warn("lost fingerprint race to another referral, closing referral slot")
				return s.closeSlot(ctx, t.ID)
			}
		}
	default:
		return fmt.Errorf("fingerprint check: %w", err)
	}

	if referrer.BillingCustomerID == "" {
		// Nothing to credit against; the slot is still consumed so the
		// flow does not rerun on every payment.
		log.WithFields(logrus.Fields{"referrer_id": referrer.ID}).Error("referrer has no billing customer, cannot grant credit")
		return s.closeSlot(ctx, t.ID)
	}

	credit := &billing.ReferralCredit{
		ID:               uuid.New(),
		ReferrerTenantID: referrer.ID,
		ReferredTenantID: t.ID,
		AmountCents:      billing.CreditAmountCents(referrer.Plan, referrer.BillingInterval),
		Currency:         "eur",
		Status:           billing.CreditStatusPending,
	}
	if err := s.referralRepo.CreateCredit(ctx, credit); err != nil {
		if err != ports.ErrDuplicate {
			return fmt.Errorf("failed to create referral credit: %w", err)
		}
		existing, gerr := s.referralRepo.GetCreditByReferredTenant(ctx, t.ID)
		if gerr != nil {
			return fmt.Errorf("failed to load existing referral credit: %w", gerr)
		}
		if existing.Status == billing.CreditStatusGranted {
			log.Info("credit already granted for referred tenant, closing referral slot")
			return s.closeSlot(ctx, t.ID)
		}
		// A pending row left by an attempt that died before the provider
		// call finished. Retry the grant on it.
		credit = existing
	}
	return s.grantCredit(ctx, log, t.ID, referrer, credit)
}

// grantCredit issues the balance credit at the provider. A failed grant
// aborts without closing the referral slot: the pending row is removed and
// the next payment event retries the whole flow.
func (s *ReferralService) grantCredit(ctx context.Context, log *logrus.Entry, referredTenantID uuid.UUID, referrer *tenant.Tenant, credit *billing.ReferralCredit) error {
	if err := s.billingClient.CreditCustomerBalance(ctx, referrer.BillingCustomerID, credit.AmountCents, credit.Currency, "Referral credit"); err != nil {
		if derr := s.referralRepo.DeleteCredit(ctx, credit.ID); derr != nil {
			log.WithFields(logrus.Fields{"credit_id": credit.ID}).WithError(derr).Warn("failed to remove pending credit after grant failure")
		}
		return fmt.Errorf("failed to credit referrer balance: %w", err)
	}
	if err := s.referralRepo.MarkCreditGranted(ctx, credit.ID); err != nil {
		log.WithFields(logrus.Fields{"credit_id": credit.ID}).WithError(err).Warn("failed to mark credit granted")
	}
	referralCreditsGranted.Inc()
	s.notifyReferrer(ctx, referrer.ID, referrer.Name, credit.AmountCents)
	return s.closeSlot(ctx, referredTenantID)
}

// closeSlot flips the sticky referralUsed flag. A false return means a
// concurrent delivery got there first, which is fine.
func (s *ReferralService) closeSlot(ctx context.Context, tenantID uuid.UUID) error {
	flipped, err := s.tenantRepo.MarkReferralUsed(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to mark referral used: %w", err)
	}
	if !flipped {
		s.log().WithFields(logrus.Fields{"tenant_id": tenantID}).Debug("referral slot was already closed")
	}
	return nil
}

func (s *ReferralService) notifyReferrer(ctx context.Context, referrerID uuid.UUID, referrerName string, amountCents int64) {
	sc := guard.NewScope(s.ext, referrerID)
	admin, err := s.userRepo.GetTenantAdmin(ctx, sc)
	if err != nil {
		return
	}
	if err := s.emailService.SendReferralCreditNotice(ctx, admin.Email, referrerName, amountCents); err != nil {
		s.log().WithFields(logrus.Fields{"referrer_id": referrerID}).WithError(err).Warn("failed to send referral credit notice")
	}
}

func (s *ReferralService) log() *logrus.Logger {
	if s.logger != nil {
		return s.logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
