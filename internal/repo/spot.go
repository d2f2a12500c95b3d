// Package repo contains all database access logic for the Bnb booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/bnb/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// SpotRepo defines the persistence operations for Spots.
type SpotRepo interface {
	// Create inserts a new spot and returns the persisted record (with DB-generated
	// id, created_at, and updated_at populated).
	Create(ctx context.Context, spot domain.Spot) (domain.Spot, error)

	// GetByID retrieves a single spot by its UUID primary key.
	// Returns domain.ErrNotFound if no spot with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Spot, error)

	// ListPaged returns one page of spots, newest first, and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error)

	// Update overwrites the mutable fields of an existing spot and returns the
	// updated record. Returns domain.ErrNotFound if no spot with that ID exists.
	Update(ctx context.Context, spot domain.Spot) (domain.Spot, error)

	// Delete removes a spot by ID together with its bookings, reviews, and
	// images. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddImage attaches an image URL to a spot.
	// Returns domain.ErrNotFound if the spot does not exist.
	AddImage(ctx context.Context, img domain.SpotImage) (domain.SpotImage, error)

	// GetImage retrieves a single spot image.
	// Returns domain.ErrNotFound if no image with that ID exists.
	GetImage(ctx context.Context, id uuid.UUID) (domain.SpotImage, error)

	// DeleteImage removes a spot image by ID.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

// pgSpotRepo is the Postgres implementation of SpotRepo.
type pgSpotRepo struct {
	db db
}

// NewSpotRepo constructs a SpotRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewSpotRepo(db db) SpotRepo {
	return &pgSpotRepo{db: db}
}

const spotColumns = `id, owner_id, address, city, state, country, lat, lng, name, description, price, created_at, updated_at`

// Create inserts a new spot row and returns the full persisted record.
func (r *pgSpotRepo) Create(ctx context.Context, spot domain.Spot) (domain.Spot, error) {
	const q = `
		INSERT INTO spots (owner_id, address, city, state, country, lat, lng, name, description, price)
		VALUES (@owner_id, @address, @city, @state, @country, @lat, @lng, @name, @description, @price)
		RETURNING ` + spotColumns

	row := r.db.QueryRow(ctx, q, spotArgs(spot))
	result, err := scanSpot(row)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("repo.SpotRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a spot by primary key.
func (r *pgSpotRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Spot, error) {
	const q = `SELECT ` + spotColumns + ` FROM spots WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanSpot(row)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("repo.SpotRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of spots ordered by created_at descending.
func (r *pgSpotRepo) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error) {
	const countQ = `SELECT count(*) FROM spots`
	const q = `
		SELECT ` + spotColumns + `
		FROM spots
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return domain.Page[domain.Spot]{}, fmt.Errorf("repo.SpotRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return domain.Page[domain.Spot]{}, fmt.Errorf("repo.SpotRepo.ListPaged: %w", err)
	}
	defer rows.Close()

	spots := []domain.Spot{}
	for rows.Next() {
		s, err := scanSpot(rows)
		if err != nil {
			return domain.Page[domain.Spot]{}, fmt.Errorf("repo.SpotRepo.ListPaged: scan: %w", err)
		}
		spots = append(spots, s)
	}
	if err := rows.Err(); err != nil {
		return domain.Page[domain.Spot]{}, fmt.Errorf("repo.SpotRepo.ListPaged: rows: %w", err)
	}

	return domain.Page[domain.Spot]{Items: spots, Total: total}, nil
}

// Update overwrites the mutable fields of a spot and returns the updated record.
func (r *pgSpotRepo) Update(ctx context.Context, spot domain.Spot) (domain.Spot, error) {
	const q = `
		UPDATE spots
		SET address     = @address,
		    city        = @city,
		    state       = @state,
		    country     = @country,
		    lat         = @lat,
		    lng         = @lng,
		    name        = @name,
		    description = @description,
		    price       = @price,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + spotColumns

	args := spotArgs(spot)
	args["id"] = spot.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanSpot(row)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("repo.SpotRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a spot by primary key. Bookings, reviews, and images cascade.
func (r *pgSpotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM spots WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.SpotRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SpotRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgSpotRepo) AddImage(ctx context.Context, img domain.SpotImage) (domain.SpotImage, error) {
	const q = `
		INSERT INTO spot_images (spot_id, url, preview)
		VALUES (@spot_id, @url, @preview)
		RETURNING id, spot_id, url, preview, created_at`

	args := pgx.NamedArgs{"spot_id": img.SpotID, "url": img.URL, "preview": img.Preview}
	result, err := scanSpotImage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.SpotImage{}, fmt.Errorf("repo.SpotRepo.AddImage: %w", translate(err))
	}
	return result, nil
}

func (r *pgSpotRepo) GetImage(ctx context.Context, id uuid.UUID) (domain.SpotImage, error) {
	const q = `SELECT id, spot_id, url, preview, created_at FROM spot_images WHERE id = @id`

	img, err := scanSpotImage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.SpotImage{}, fmt.Errorf("repo.SpotRepo.GetImage: %w", err)
	}
	return img, nil
}

func (r *pgSpotRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM spot_images WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.SpotRepo.DeleteImage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.SpotRepo.DeleteImage: %w", domain.ErrNotFound)
	}
	return nil
}

func spotArgs(s domain.Spot) pgx.NamedArgs {
	return pgx.NamedArgs{
		"owner_id":    s.OwnerID,
		"address":     s.Address,
		"city":        s.City,
		"state":       s.State,
		"country":     s.Country,
		"lat":         s.Lat,
		"lng":         s.Lng,
		"name":        s.Name,
		"description": s.Description,
		"price":       s.Price,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanSpot maps a single database row into a domain.Spot.
func scanSpot(s scanner) (domain.Spot, error) {
	var (
		sp      domain.Spot
		id      pgtype.UUID
		ownerID pgtype.UUID
	)

	err := s.Scan(&id, &ownerID, &sp.Address, &sp.City, &sp.State, &sp.Country,
		&sp.Lat, &sp.Lng, &sp.Name, &sp.Description, &sp.Price, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Spot{}, domain.ErrNotFound
		}
		return domain.Spot{}, err
	}

	sp.ID = uuid.UUID(id.Bytes)
	sp.OwnerID = uuid.UUID(ownerID.Bytes)
	return sp, nil
}

// scanSpotImage maps a single database row into a domain.SpotImage.
func scanSpotImage(s scanner) (domain.SpotImage, error) {
	var (
		img        domain.SpotImage
		id, spotID pgtype.UUID
	)
	err := s.Scan(&id, &spotID, &img.URL, &img.Preview, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.SpotImage{}, domain.ErrNotFound
		}
		return domain.SpotImage{}, err
	}
	img.ID = uuid.UUID(id.Bytes)
	img.SpotID = uuid.UUID(spotID.Bytes)
	return img, nil
}
