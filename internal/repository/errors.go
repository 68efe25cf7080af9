package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DuplicateError reports a unique constraint hit on a single column
type DuplicateError struct {
	Entity string
	Field  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Entity, e.Field)
}

// uniqueViolation returns the violated constraint name for Postgres unique violations
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func foreignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// duplicateFromConstraint maps "<table>_<column>_key" constraint names onto a DuplicateError
func duplicateFromConstraint(entity, table, constraint string) *DuplicateError {
	field := constraint
	if len(constraint) > len(table)+5 && constraint[:len(table)+1] == table+"_" {
		field = constraint[len(table)+1 : len(constraint)-4]
	}
	return &DuplicateError{Entity: entity, Field: field}
}
