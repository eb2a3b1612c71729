package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level database error sentinels.
var (
	// Entry errors
	ErrEntryNotFound = errors.New("api not found")

	// Request errors
	ErrRequestNotFound = errors.New("api request not found")

	// ErrConstraintViolation is returned when a write breaks a table check.
	ErrConstraintViolation = errors.New("constraint violation")
)

// mapPgError translates integrity errors into ErrConstraintViolation.
// Other errors are returned unchanged.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23502", "23514": // not_null_violation, check_violation
		return fmt.Errorf("%w: %s", ErrConstraintViolation, pgErr.ConstraintName)
	}
	return err
}
