package guard_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/propgate/propgate/internal/infrastructure/guard"
)

func newScope(t *testing.T) (*guard.Scope, sqlmock.Sqlmock, uuid.UUID) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	tenantID := uuid.New()
	return guard.NewScope(sqlx.NewDb(db, "postgres"), tenantID), mock, tenantID
}

type idRow struct {
	ID uuid.UUID `db:"id"`
}

func TestSelect_AddsTenantFilter(t *testing.T) {
	sc, mock, tenantID := newScope(t)

	mock.ExpectQuery("SELECT id FROM leases WHERE leases.tenant_id = $1 ORDER BY created_at DESC").
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	var rows []idRow
	if err := sc.Select(context.Background(), &rows, "leases", "id", "", "ORDER BY created_at DESC"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query mismatch: %v", err)
	}
}

func TestSelect_MergesCallerCondition(t *testing.T) {
	sc, mock, tenantID := newScope(t)

	// The caller condition is parenthesized so an OR cannot escape the
	// tenant filter.
	mock.ExpectQuery("SELECT id FROM receivables WHERE (due_date < $1 OR purpose = $2) AND receivables.tenant_id = $3").
		WithArgs("2026-01-01", "rent", tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	var rows []idRow
	err := sc.Select(context.Background(), &rows, "receivables", "id", "due_date < ? OR purpose = ?", "", "2026-01-01", "rent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query mismatch: %v", err)
	}
}

func TestGet_GlobalEntityPassesThrough(t *testing.T) {
	sc, mock, _ := newScope(t)

	// tenants is not on the allow-list; no filter is injected.
	mock.ExpectQuery("SELECT id FROM tenants WHERE slug = $1").
		WithArgs("acme").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	var row idRow
	if err := sc.Get(context.Background(), &row, "tenants", "id", "slug = ?", "acme"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query mismatch: %v", err)
	}
}

func TestInsert_InjectsTenantID(t *testing.T) {
	sc, mock, tenantID := newScope(t)
	id := uuid.New()

	mock.ExpectExec("INSERT INTO properties (id, name, tenant_id) VALUES ($1, $2, $3)").
		WithArgs(id, "Hauptstrasse 1", tenantID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := sc.Insert(context.Background(), "properties", []string{"id", "name"}, id, "Hauptstrasse 1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query mismatch: %v", err)
	}
}

func TestInsert_OverridesCallerTenantID(t *testing.T) {
	sc, mock, tenantID := newScope(t)
	id := uuid.New()
	foreignTenant := uuid.New()

	// A caller-supplied tenant_id is never trusted.
	mock.ExpectExec("INSERT INTO properties (id, tenant_id, name) VALUES ($1, $2, $3)").
		WithArgs(id, tenantID, "Hauptstrasse 1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sc.Insert(context.Background(), "properties", []string{"id", "tenant_id", "name"}, id, foreignTenant, "Hauptstrasse 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query mismatch: %v", err)
	}
}

func TestInsert_GlobalEntityUntouched(t *testing.T) {
	sc, mock, _ := newScope(t)

	mock.ExpectExec("INSERT INTO used_payment_methods (fingerprint_hash, relationship_hash) VALUES ($1, $2)").
		WithArgs("fh", "rh").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sc.Insert(context.Background(), "used_payment_methods", []string{"fingerprint_hash", "relationship_hash"}, "fh", "rh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query mismatch: %v", err)
	}
}

func TestInsert_ColumnValueMismatch(t *testing.T) {
	sc, _, _ := newScope(t)
	if err := sc.Insert(context.Background(), "properties", []string{"id", "name"}, uuid.New()); err == nil {
		t.Fatalf("expected error for mismatched columns and values")
	}
}

func TestScopedEntityAllowList(t *testing.T) {
	for _, entity := range []string{"users", "properties", "units", "occupants", "leases", "receivables", "payments", "dunning_records"} {
		if !guard.IsScopedEntity(entity) {
			t.Fatalf("%s must be tenant scoped", entity)
		}
	}
	for _, entity := range []string{"tenants", "used_payment_methods", "referral_credits"} {
		if guard.IsScopedEntity(entity) {
			t.Fatalf("%s must not be tenant scoped", entity)
		}
	}
}
