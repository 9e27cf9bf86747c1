package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// scopedEntities is the allow-list of tables that carry a tenant_id column.
// Reads against these tables get an implicit tenant filter, inserts get the
// tenant id injected. Tables absent from this list pass through unmodified:
// tenants is keyed by its own id, and the referral abuse tables are global
// by design (they are keyed by one-way hashes and span tenants).
//
// Keep this list in sync with the migrations. Omitting a scoped table here
// is a cross-tenant data leak; adding a global table breaks lookups.
var scopedEntities = map[string]bool{
	"users":           true,
	"properties":      true,
	"units":           true,
	"occupants":       true,
	"leases":          true,
	"receivables":     true,
	"payments":        true,
	"dunning_records": true,
}

// IsScopedEntity reports whether the table carries a tenant_id column.
func IsScopedEntity(entity string) bool {
	return scopedEntities[entity]
}

// ScopedEntities returns a copy of the allow-list for tests.
func ScopedEntities() []string {
	out := make([]string, 0, len(scopedEntities))
	for e := range scopedEntities {
		out = append(out, e)
	}
	return out
}

// Scope is the tenant isolation guard: a per-request data-access facade that
// rewrites every operation on a tenant-scoped table to include the tenant
// filter. Build one Scope per request (or per tenant iteration in batch
// jobs) and discard it afterwards; a cached Scope is a stale tenant scope.
//
// Queries use '?' bindvars and are rebound for the underlying driver, so
// callers never have to renumber placeholders around the injected filter.
// Storage errors propagate unchanged; the guard adds no error kinds.
type Scope struct {
	ext      sqlx.ExtContext
	tenantID uuid.UUID
}

// NewScope builds a guard for one tenant over the given database handle.
func NewScope(ext sqlx.ExtContext, tenantID uuid.UUID) *Scope {
	return &Scope{ext: ext, tenantID: tenantID}
}

func (s *Scope) TenantID() uuid.UUID { return s.tenantID }

// where merges the caller's predicate with the tenant filter. The caller
// predicate keeps its own parentheses so OR conditions cannot escape the
// tenant filter.
func (s *Scope) where(entity, cond string, args []any) (string, []any) {
	if !scopedEntities[entity] {
		return cond, args
	}
	filter := entity + ".tenant_id = ?"
	if strings.TrimSpace(cond) == "" {
		return filter, append(args, s.tenantID)
	}
	return "(" + cond + ") AND " + filter, append(args, s.tenantID)
}

// Select runs a multi-row query against entity. The tenant filter is
// qualified with the entity name. tail is appended after the predicate
// verbatim (GROUP BY, ORDER BY, LIMIT).
func (s *Scope) Select(ctx context.Context, dest any, entity, columns, cond, tail string, args ...any) error {
	query, boundArgs := s.build("SELECT "+columns+" FROM "+entity, entity, cond, tail, args)
	return sqlx.SelectContext(ctx, s.ext, dest, query, boundArgs...)
}

// Get runs a single-row query against entity.
func (s *Scope) Get(ctx context.Context, dest any, entity, columns, cond string, args ...any) error {
	query, boundArgs := s.build("SELECT "+columns+" FROM "+entity, entity, cond, "", args)
	return sqlx.GetContext(ctx, s.ext, dest, query, boundArgs...)
}

// Count counts rows of entity matching cond under the tenant filter.
func (s *Scope) Count(ctx context.Context, entity, cond string, args ...any) (int, error) {
	var n int
	query, boundArgs := s.build("SELECT COUNT(*) FROM "+entity, entity, cond, "", args)
	if err := sqlx.GetContext(ctx, s.ext, &n, query, boundArgs...); err != nil {
		return 0, err
	}
	return n, nil
}

// Insert writes one row. For scoped entities the tenant id is injected; a
// caller-supplied tenant_id value is overridden, never trusted.
func (s *Scope) Insert(ctx context.Context, entity string, cols []string, vals ...any) error {
	if len(cols) != len(vals) {
		return fmt.Errorf("guard: %d columns with %d values for %s", len(cols), len(vals), entity)
	}
	insertCols := make([]string, len(cols))
	insertVals := make([]any, len(vals))
	copy(insertCols, cols)
	copy(insertVals, vals)
	if scopedEntities[entity] {
		injected := false
		for i, c := range insertCols {
			if c == "tenant_id" {
				insertVals[i] = s.tenantID
				injected = true
				break
			}
		}
		if !injected {
			insertCols = append(insertCols, "tenant_id")
			insertVals = append(insertVals, s.tenantID)
		}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(insertCols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		entity, strings.Join(insertCols, ", "), placeholders)
	_, err := s.ext.ExecContext(ctx, s.ext.Rebind(query), insertVals...)
	return err
}

// Update applies set under cond plus the tenant filter and returns the
// number of rows touched. args cover the set placeholders first, then cond.
func (s *Scope) Update(ctx context.Context, entity, set, cond string, args ...any) (int64, error) {
	query, boundArgs := s.build("UPDATE "+entity+" SET "+set, entity, cond, "", args)
	res, err := s.ext.ExecContext(ctx, query, boundArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Delete removes rows matching cond under the tenant filter.
func (s *Scope) Delete(ctx context.Context, entity, cond string, args ...any) (int64, error) {
	query, boundArgs := s.build("DELETE FROM "+entity, entity, cond, "", args)
	res, err := s.ext.ExecContext(ctx, query, boundArgs...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Scope) build(head, entity, cond, tail string, args []any) (string, []any) {
	cond, args = s.where(entity, cond, args)
	query := head
	if strings.TrimSpace(cond) != "" {
		query += " WHERE " + cond
	}
	if tail != "" {
		query += " " + tail
	}
	return s.ext.Rebind(query), args
}
