package property

import (
	"time"

	"github.com/google/uuid"
)

// Property is a managed real-estate object (Objekt).
type Property struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	Name      string    `json:"name" db:"name"`
	Street    string    `json:"street" db:"street"`
	ZipCode   string    `json:"zip_code" db:"zip_code"`
	City      string    `json:"city" db:"city"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Unit is a rentable unit within a property.
type Unit struct {
	ID         uuid.UUID `json:"id" db:"id"`
	TenantID   uuid.UUID `json:"tenant_id" db:"tenant_id"`
	PropertyID uuid.UUID `json:"property_id" db:"property_id"`
	Label      string    `json:"label" db:"label"`
	Floor      int       `json:"floor" db:"floor"`
	AreaSqm    float64   `json:"area_sqm" db:"area_sqm"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Occupant is the renting party of a unit (Mieter). Not to be confused with
// the tenant of the platform.
type Occupant struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone" db:"phone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func (o *Occupant) FullName() string {
	return o.FirstName + " " + o.LastName
}

type CreatePropertyRequest struct {
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
}

type CreateUnitRequest struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	Label      string    `json:"label" validate:"required"`
	Floor      int       `json:"floor"`
	AreaSqm    float64   `json:"area_sqm"`
}

type CreateOccupantRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
}
