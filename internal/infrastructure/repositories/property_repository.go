package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/domain/property"
	"github.com/propgate/propgate/internal/core/ports"
	"github.com/propgate/propgate/internal/infrastructure/db"
	"github.com/propgate/propgate/internal/infrastructure/guard"
)

// PropertyRepository covers properties, units and occupants. Every query
// runs through the request scope.
type PropertyRepository struct {
	db     *db.Database
	logger *logrus.Logger
}

func NewPropertyRepository(database *db.Database, logger *logrus.Logger) ports.PropertyRepository {
	return &PropertyRepository{db: database, logger: logger}
}

func (r *PropertyRepository) CreateProperty(ctx context.Context, sc *guard.Scope, p *property.Property) error {
	err := sc.Insert(ctx, "properties",
		[]string{"id", "name", "street", "zip_code", "city"},
		p.ID, p.Name, p.Street, p.ZipCode, p.City)
	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetProperty(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Property, error) {
	var p property.Property
	if err := sc.Get(ctx, &p, "properties", "*", "id = ?", id); err != nil {
		return nil, translateRowError(err)
	}
	return &p, nil
}

func (r *PropertyRepository) ListProperties(ctx context.Context, sc *guard.Scope) ([]*property.Property, error) {
	var out []*property.Property
	if err := sc.Select(ctx, &out, "properties", "*", "", "ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return out, nil
}

func (r *PropertyRepository) CreateUnit(ctx context.Context, sc *guard.Scope, u *property.Unit) error {
	err := sc.Insert(ctx, "units",
		[]string{"id", "property_id", "label", "floor", "area_sqm"},
		u.ID, u.PropertyID, u.Label, u.Floor, u.AreaSqm)
	if err != nil {
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetUnit(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Unit, error) {
	var u property.Unit
	if err := sc.Get(ctx, &u, "units", "*", "id = ?", id); err != nil {
		return nil, translateRowError(err)
	}
	return &u, nil
}

func (r *PropertyRepository) ListUnits(ctx context.Context, sc *guard.Scope) ([]*property.Unit, error) {
	var out []*property.Unit
	if err := sc.Select(ctx, &out, "units", "*", "", "ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return out, nil
}

func (r *PropertyRepository) CreateOccupant(ctx context.Context, sc *guard.Scope, o *property.Occupant) error {
	err := sc.Insert(ctx, "occupants",
		[]string{"id", "first_name", "last_name", "email", "phone"},
		o.ID, o.FirstName, o.LastName, o.Email, o.Phone)
	if err != nil {
		return fmt.Errorf("failed to create occupant: %w", err)
	}
	return nil
}

func (r *PropertyRepository) GetOccupant(ctx context.Context, sc *guard.Scope, id uuid.UUID) (*property.Occupant, error) {
	var o property.Occupant
	if err := sc.Get(ctx, &o, "occupants", "*", "id = ?", id); err != nil {
		return nil, translateRowError(err)
	}
	return &o, nil
}

func (r *PropertyRepository) ListOccupants(ctx context.Context, sc *guard.Scope) ([]*property.Occupant, error) {
	var out []*property.Occupant
	if err := sc.Select(ctx, &out, "occupants", "*", "", "ORDER BY created_at"); err != nil {
		return nil, fmt.Errorf("failed to list occupants: %w", err)
	}
	return out, nil
}
