package tenant

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is the isolation unit: every piece of business data belongs to
// exactly one tenant. Billing state mirrors the external provider and is
// only written by the webhook pipeline.
type Tenant struct {
	ID                 uuid.UUID          `json:"id" db:"id"`
	Name               string             `json:"name" db:"name"`
	Slug               string             `json:"slug" db:"slug"`
	Plan               SubscriptionPlan   `json:"plan" db:"plan"`
	BillingInterval    BillingInterval    `json:"billing_interval" db:"billing_interval"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status" db:"subscription_status"`
	TrialEndsAt        *time.Time         `json:"trial_ends_at,omitempty" db:"trial_ends_at"`
	CurrentPeriodEnd   *time.Time         `json:"current_period_end,omitempty" db:"current_period_end"`
	BillingCustomerID  string             `json:"-" db:"billing_customer_id"`
	ReferralCode       string             `json:"referral_code" db:"referral_code"`
	ReferredBy         *string            `json:"referred_by,omitempty" db:"referred_by"`
	ReferralUsed       bool               `json:"referral_used" db:"referral_used"`
	Dunning            DunningSettings    `json:"dunning"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at"`
}

type SubscriptionPlan string

const (
	PlanStarter    SubscriptionPlan = "starter"
	PlanPro        SubscriptionPlan = "pro"
	PlanEnterprise SubscriptionPlan = "enterprise"
)

type BillingInterval string

const (
	IntervalMonthly BillingInterval = "monthly"
	IntervalYearly  BillingInterval = "yearly"
)

type SubscriptionStatus string

const (
	StatusTrialing SubscriptionStatus = "trialing"
	StatusActive   SubscriptionStatus = "active"
	StatusPastDue  SubscriptionStatus = "past_due"
	StatusCanceled SubscriptionStatus = "canceled"
)

// CanAccess returns true if the tenant may use the application.
func (t *Tenant) CanAccess() bool {
	return t.SubscriptionStatus == StatusActive || t.SubscriptionStatus == StatusTrialing
}

// WasReferred reports whether the tenant signed up with another tenant's
// referral code and the one-time referral slot has not been consumed yet.
func (t *Tenant) WasReferred() bool {
	return t.ReferredBy != nil && *t.ReferredBy != "" && !t.ReferralUsed
}

// DunningSettings controls the automatic dunning run for a tenant.
type DunningSettings struct {
	AutoEnabled          bool `json:"auto_enabled" db:"dunning_auto_enabled"`
	OverdueThresholdDays int  `json:"overdue_threshold_days" db:"dunning_threshold_days"`
}

// CreateTenantRequest represents the self-service signup payload. The
// initial user is always the tenant admin.
type CreateTenantRequest struct {
	Name            string           `json:"name" validate:"required"`
	Slug            string           `json:"slug" validate:"required,alphanum"`
	Plan            SubscriptionPlan `json:"plan" validate:"required,oneof=starter pro enterprise"`
	BillingInterval BillingInterval  `json:"billing_interval" validate:"required,oneof=monthly yearly"`
	ReferredBy      *string          `json:"referred_by,omitempty"`

	AdminUser CreateTenantAdminRequest `json:"admin_user" validate:"required"`
}

type CreateTenantAdminRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

// UpdateDunningSettingsRequest updates the tenant's dunning opt-in and threshold.
type UpdateDunningSettingsRequest struct {
	AutoEnabled          *bool `json:"auto_enabled,omitempty"`
	OverdueThresholdDays *int  `json:"overdue_threshold_days,omitempty" validate:"omitempty,min=1"`
}
