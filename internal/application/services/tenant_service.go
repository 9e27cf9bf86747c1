package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/propgate/propgate/internal/core/domain/tenant"
	"github.com/propgate/propgate/internal/core/domain/user"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

const (
	trialPeriod                 = 14 * 24 * time.Hour
	defaultOverdueThresholdDays = 1
	referralCodeLength          = 8
)

// referralCodeAlphabet avoids ambiguous characters (0/O, 1/I/L).
const referralCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

type TenantService struct {
	repo     ports.TenantRepository
	userRepo ports.UserRepository
	ext      sqlx.ExtContext
	logger   *logrus.Logger
}

func NewTenantService(repo ports.TenantRepository, userRepo ports.UserRepository, ext sqlx.ExtContext, logger *logrus.Logger) ports.TenantService {
	return &TenantService{repo: repo, userRepo: userRepo, ext: ext, logger: logger}
}

// CreateTenant provisions a tenant with its admin user. An unknown referral
// code is dropped with a warning instead of failing the signup; the
// referral workflow re-validates the code before granting anything.
func (s *TenantService) CreateTenant(ctx context.Context, req *tenant.CreateTenantRequest) (*tenant.Tenant, error) {
	if existing, err := s.repo.GetBySlug(ctx, req.Slug); err == nil && existing != nil {
		return nil, fmt.Errorf("slug %q is already taken: %w", req.Slug, ports.ErrDuplicate)
	}
	if existing, err := s.userRepo.GetByEmail(ctx, req.AdminUser.Email); err == nil && existing != nil {
		return nil, fmt.Errorf("email %q is already taken: %w", req.AdminUser.Email, ports.ErrDuplicate)
	}

	referredBy := req.ReferredBy
	if referredBy != nil && *referredBy != "" {
		if _, err := s.repo.GetByReferralCode(ctx, *referredBy); err != nil {
			if s.logger != nil {
				s.logger.WithFields(logrus.Fields{"slug": req.Slug, "referral_code": *referredBy}).Warn("dropping unknown referral code at signup")
			}
			referredBy = nil
		}
	}

	code, err := generateReferralCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate referral code: %w", err)
	}

	trialEnd := time.Now().Add(trialPeriod)
	newTenant := &tenant.Tenant{
		ID:                 uuid.New(),
		Name:               req.Name,
		Slug:               req.Slug,
		Plan:               req.Plan,
		BillingInterval:    req.BillingInterval,
		SubscriptionStatus: tenant.StatusTrialing,
		TrialEndsAt:        &trialEnd,
		ReferralCode:       code,
		ReferredBy:         referredBy,
		Dunning: tenant.DunningSettings{
			AutoEnabled:          false,
			OverdueThresholdDays: defaultOverdueThresholdDays,
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.AdminUser.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	adminUser := &user.User{
		ID:           uuid.New(),
		TenantID:     newTenant.ID,
		Email:        req.AdminUser.Email,
		PasswordHash: string(hashed),
		FirstName:    req.AdminUser.FirstName,
		LastName:     req.AdminUser.LastName,
		Role:         user.RoleAdmin,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, newTenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}
	sc := guard.NewScope(s.ext, newTenant.ID)
	if err := s.userRepo.Create(ctx, sc, adminUser); err != nil {
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}

	return newTenant, nil
}

func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *TenantService) UpdateDunningSettings(ctx context.Context, id uuid.UUID, req *tenant.UpdateDunningSettingsRequest) (*tenant.Tenant, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settings := t.Dunning
	if req.AutoEnabled != nil {
		settings.AutoEnabled = *req.AutoEnabled
	}
	if req.OverdueThresholdDays != nil {
		if *req.OverdueThresholdDays < 1 {
			return nil, fmt.Errorf("overdue threshold must be at least 1 day")
		}
		settings.OverdueThresholdDays = *req.OverdueThresholdDays
	}

	if err := s.repo.UpdateDunningSettings(ctx, id, settings); err != nil {
		return nil, fmt.Errorf("failed to update dunning settings: %w", err)
	}
	t.Dunning = settings
	return t, nil
}

func generateReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeAlphabet[int(b)%len(referralCodeAlphabet)]
	}
	return string(buf), nil
}
