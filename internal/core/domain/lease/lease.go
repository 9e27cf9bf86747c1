package lease

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lease is an occupancy agreement (Mietverhältnis) between the landlord and
// an occupant for a specific unit. A nil MoveOutDate means the lease is active.
type Lease struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	TenantID    uuid.UUID       `json:"tenant_id" db:"tenant_id"`
	UnitID      uuid.UUID       `json:"unit_id" db:"unit_id"`
	OccupantID  uuid.UUID       `json:"occupant_id" db:"occupant_id"`
	StartDate   time.Time       `json:"start_date" db:"start_date"`
	MoveOutDate *time.Time      `json:"move_out_date,omitempty" db:"move_out_date"`
	BaseRent    decimal.Decimal `json:"base_rent" db:"base_rent"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the lease has no move-out date yet.
func (l *Lease) IsActive() bool {
	return l.MoveOutDate == nil
}

type CreateLeaseRequest struct {
	UnitID     uuid.UUID       `json:"unit_id" validate:"required"`
	OccupantID uuid.UUID       `json:"occupant_id" validate:"required"`
	StartDate  time.Time       `json:"start_date" validate:"required"`
	BaseRent   decimal.Decimal `json:"base_rent" validate:"required"`
}

type EndLeaseRequest struct {
	MoveOutDate time.Time `json:"move_out_date" validate:"required"`
}
