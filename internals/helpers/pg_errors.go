// file: internals/helpers/pg_errors.go
package helper

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"creditrating_backend/internals/helpers/apperror"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

func sqlState(err error) (code, constraint string, ok bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	return "", "", false
}

// MapStoreError classifies a gorm/postgres error into the domain taxonomy.
// Domain errors pass through untouched.
func MapStoreError(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperror.As(err); ok {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound("%s: record not found", op)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("%s: duplicate record", op)
	}
	if code, constraint, ok := sqlState(err); ok {
		switch code {
		case pgUniqueViolation:
			if constraint != "" {
				return apperror.Conflict("duplicate value violates %s", constraint)
			}
			return apperror.Conflict("duplicate record")
		case pgForeignKeyViolation:
			return apperror.Validation("referenced record does not exist")
		case pgCheckViolation:
			return apperror.Validation("value rejected by %s", constraint)
		}
	}
	return apperror.Storage(err, op)
}
