package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sethvargo/go-retry"

	"github.com/pkordes/bnb/internal/domain"
)

// txBeginner is a db that can open a transaction. *pgxpool.Pool satisfies it,
// and so does pgx.Tx (Begin opens a savepoint), which keeps the rollback
// isolation trick usable in integration tests.
type txBeginner interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// SpotLocker serializes "read existing bookings, then write" sequences per
// spot. Two requests for the same spot never observe the same snapshot of its
// bookings; requests for different spots do not block each other.
type SpotLocker interface {
	// WithSpotLock runs fn inside one transaction holding the spot's lock.
	// The BookingRepo handed to fn is bound to that transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	//
	// A serialization failure or deadlock is retried once; if it persists the
	// returned error matches domain.ErrConflict.
	WithSpotLock(ctx context.Context, spotID uuid.UUID, fn func(ctx context.Context, bookings BookingRepo) error) error
}

// pgSpotLocker implements SpotLocker with a transaction-scoped advisory lock.
type pgSpotLocker struct {
	db      txBeginner
	backoff time.Duration
}

// NewSpotLocker constructs a SpotLocker that opens its transactions on db.
func NewSpotLocker(db txBeginner) SpotLocker {
	return &pgSpotLocker{db: db, backoff: 25 * time.Millisecond}
}

func (l *pgSpotLocker) WithSpotLock(ctx context.Context, spotID uuid.UUID, fn func(ctx context.Context, bookings BookingRepo) error) error {
	b := retry.WithMaxRetries(1, retry.NewConstant(l.backoff))

	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := l.runLocked(ctx, spotID, fn)
		if isRetryable(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err == nil {
		return nil
	}
	if isRetryable(err) {
		return fmt.Errorf("repo.SpotLocker.WithSpotLock: %w: %w", domain.ErrConflict, err)
	}
	return err
}

// runLocked is one attempt: begin, lock, run fn, commit.
func (l *pgSpotLocker) runLocked(ctx context.Context, spotID uuid.UUID, fn func(ctx context.Context, bookings BookingRepo) error) error {
	tx, err := l.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.SpotLocker: begin: %w", err)
	}
	// Rollback after Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	const lockQ = `SELECT pg_advisory_xact_lock(hashtextextended(@spot_id::text, 0))`
	if _, err := tx.Exec(ctx, lockQ, pgx.NamedArgs{"spot_id": spotID}); err != nil {
		return fmt.Errorf("repo.SpotLocker: lock spot %s: %w", spotID, err)
	}

	if err := fn(ctx, NewBookingRepo(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.SpotLocker: commit: %w", err)
	}
	return nil
}
