package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/bnb/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
type BookingRepo interface {
	// Create inserts a new booking and returns the persisted record.
	// Returns domain.ErrConflict if the storage-level exclusion constraint
	// rejects an overlapping range, domain.ErrNotFound if the spot is gone.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListBySpot returns all bookings for a spot ordered by start_date ascending.
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error)

	// ListByUser returns all bookings made by a user ordered by start_date
	// ascending, each with its parent Spot populated.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// Update overwrites the dates of an existing booking.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	Update(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// Delete removes a booking by ID.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, spot_id, user_id, start_date, end_date, created_at, updated_at`

func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		INSERT INTO bookings (spot_id, user_id, start_date, end_date)
		VALUES (@spot_id, @user_id, @start_date, @end_date)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"spot_id":    b.SpotID,
		"user_id":    b.UserID,
		"start_date": b.StartDate,
		"end_date":   b.EndDate,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgBookingRepo) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE spot_id = @spot_id
		ORDER BY start_date, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"spot_id": spotID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBySpot: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListBySpot: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListBySpot: rows: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT b.id, b.spot_id, b.user_id, b.start_date, b.end_date, b.created_at, b.updated_at,
		       s.id, s.owner_id, s.address, s.city, s.state, s.country, s.lat, s.lng,
		       s.name, s.description, s.price, s.created_at, s.updated_at,
		       img.url
		FROM bookings b
		JOIN spots s ON s.id = b.spot_id
		LEFT JOIN LATERAL (
		    SELECT si.url FROM spot_images si
		    WHERE si.spot_id = s.id
		    ORDER BY si.preview DESC, si.created_at, si.id
		    LIMIT 1
		) img ON true
		WHERE b.user_id = @user_id
		ORDER BY b.start_date, b.id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: %w", err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBookingWithSpot(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.BookingRepo.ListByUser: scan: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUser: rows: %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepo) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		UPDATE bookings
		SET start_date = @start_date,
		    end_date   = @end_date,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"id":         b.ID,
		"start_date": b.StartDate,
		"end_date":   b.EndDate,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Update: %w", translate(err))
	}
	return result, nil
}

func (r *pgBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM bookings WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.BookingRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanBooking maps a single database row into a domain.Booking.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b              domain.Booking
		id, spot, user pgtype.UUID
		start, end     pgtype.Date
	)

	err := s.Scan(&id, &spot, &user, &start, &end, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.SpotID = uuid.UUID(spot.Bytes)
	b.UserID = uuid.UUID(user.Bytes)
	b.StartDate = start.Time
	b.EndDate = end.Time
	return b, nil
}

// scanBookingWithSpot maps a booking row joined with its spot columns.
func scanBookingWithSpot(s scanner) (domain.Booking, error) {
	var (
		b                domain.Booking
		sp               domain.Spot
		id, spotID, user pgtype.UUID
		spotPK, owner    pgtype.UUID
		start, end       pgtype.Date
		preview          pgtype.Text
	)

	err := s.Scan(&id, &spotID, &user, &start, &end, &b.CreatedAt, &b.UpdatedAt,
		&spotPK, &owner, &sp.Address, &sp.City, &sp.State, &sp.Country, &sp.Lat, &sp.Lng,
		&sp.Name, &sp.Description, &sp.Price, &sp.CreatedAt, &sp.UpdatedAt, &preview)
	if err != nil {
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.SpotID = uuid.UUID(spotID.Bytes)
	b.UserID = uuid.UUID(user.Bytes)
	b.StartDate = start.Time
	b.EndDate = end.Time
	sp.ID = uuid.UUID(spotPK.Bytes)
	sp.OwnerID = uuid.UUID(owner.Bytes)
	if preview.Valid {
		sp.PreviewImage = &preview.String
	}
	b.Spot = &sp
	return b, nil
}
