package dunning

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Stage is the escalation level of a dunning record. Stages are ordered;
// Level() is the comparison key.
type Stage string

const (
	StageReminder Stage = "reminder"
	StageNotice1  Stage = "notice_1"
	StageNotice2  Stage = "notice_2"
	StageFinal    Stage = "final_notice"
)

// Level returns the numeric rank of the stage, 0 for unknown values.
func (s Stage) Level() int {
	switch s {
	case StageReminder:
		return 1
	case StageNotice1:
		return 2
	case StageNotice2:
		return 3
	case StageFinal:
		return 4
	default:
		return 0
	}
}

func (s Stage) IsValid() bool {
	return s.Level() > 0
}

// Record is a persisted reminder/notice (Mahnung). Records are created by
// the issuance workflow and never mutated afterwards.
type Record struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenantID    uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	LeaseID     uuid.UUID       `json:"lease_id" db:"lease_id"`
	Stage       Stage           `json:"stage" db:"stage"`
	OpenAmount  decimal.Decimal `json:"open_amount" db:"open_amount"`
	DaysOverdue int             `json:"days_overdue" db:"days_overdue"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// Proposal is one candidate produced by the proposal engine: an active lease
// with a positive open amount on overdue receivables.
type Proposal struct {
	LeaseID          uuid.UUID       `json:"lease_id"`
	OccupantName     string          `json:"occupant_name"`
	PropertyName     string          `json:"property_name"`
	UnitLabel        string          `json:"unit_label"`
	OpenAmount       decimal.Decimal `json:"open_amount"`
	DaysOverdue      int             `json:"days_overdue"`
	RecommendedStage Stage           `json:"recommended_stage"`
}

// RunSummary is the result of one automatic dunning run.
type RunSummary struct {
	OK               bool `json:"ok"`
	TenantsProcessed int  `json:"processed"`
	RecordsCreated   int  `json:"created"`
}

type IssueRequest struct {
	LeaseID uuid.UUID `json:"lease_id" validate:"required"`
	Stage   Stage     `json:"stage" validate:"required"`
}
