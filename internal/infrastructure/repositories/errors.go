package repositories

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/propgate/propgate/internal/core/ports"
)

// translateRowError maps driver-level errors onto the shared sentinels so
// services never match on error strings.
func translateRowError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ports.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
