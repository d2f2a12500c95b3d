package repo

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pkordes/bnb/internal/domain"
)

// Postgres SQLSTATE codes the repos translate into domain errors.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgForeignKeyViolation  = "23503"
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// translate maps constraint violations onto domain sentinels, keeping the
// original driver error in the chain. Any other error is returned unchanged.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgExclusionViolation, pgUniqueViolation:
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	}
	return err
}

// isRetryable reports whether err is a transient transaction failure that is
// safe to retry from the beginning of the transaction.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
