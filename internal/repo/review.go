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

// ReviewRepo defines the persistence operations for Reviews and their images.
type ReviewRepo interface {
	// Create inserts a review. Returns domain.ErrConflict if the user already
	// reviewed the spot, domain.ErrNotFound if the spot does not exist.
	Create(ctx context.Context, r domain.Review) (domain.Review, error)

	// GetByID retrieves a single review without its images.
	// Returns domain.ErrNotFound if no review with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error)

	// ListBySpot returns a spot's reviews, newest first, with images.
	ListBySpot(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error)

	// ListByUser returns a user's reviews, newest first, with images.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error)

	// Update overwrites the text and stars of a review.
	Update(ctx context.Context, r domain.Review) (domain.Review, error)

	// Delete removes a review and, by cascade, its images.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountImages returns the number of images attached to a review.
	CountImages(ctx context.Context, reviewID uuid.UUID) (int, error)

	// AddImage attaches an image URL to a review.
	AddImage(ctx context.Context, reviewID uuid.UUID, url string) (domain.ReviewImage, error)

	// GetImage retrieves a single review image.
	// Returns domain.ErrNotFound if no image with that ID exists.
	GetImage(ctx context.Context, id uuid.UUID) (domain.ReviewImage, error)

	// DeleteImage removes a review image by ID.
	DeleteImage(ctx context.Context, id uuid.UUID) error
}

// pgReviewRepo is the Postgres implementation of ReviewRepo.
type pgReviewRepo struct {
	db db
}

// NewReviewRepo constructs a ReviewRepo backed by the provided db connection.
func NewReviewRepo(db db) ReviewRepo {
	return &pgReviewRepo{db: db}
}

const reviewColumns = `id, spot_id, user_id, review, stars, created_at, updated_at`

func (r *pgReviewRepo) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	const q = `
		INSERT INTO reviews (spot_id, user_id, review, stars)
		VALUES (@spot_id, @user_id, @review, @stars)
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{
		"spot_id": rv.SpotID,
		"user_id": rv.UserID,
		"review":  rv.Review,
		"stars":   rv.Stars,
	}

	result, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Create: %w", translate(err))
	}
	return result, nil
}

func (r *pgReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = @id`

	result, err := scanReview(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgReviewRepo) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE spot_id = @id
		ORDER BY created_at DESC, id`

	reviews, err := r.listWithImages(ctx, q, spotID)
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListBySpot: %w", err)
	}
	return reviews, nil
}

func (r *pgReviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error) {
	const q = `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE user_id = @id
		ORDER BY created_at DESC, id`

	reviews, err := r.listWithImages(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("repo.ReviewRepo.ListByUser: %w", err)
	}
	return reviews, nil
}

// listWithImages runs a review query bound to @id, then loads the images of
// every returned review in a single follow-up query.
func (r *pgReviewRepo) listWithImages(ctx context.Context, q string, id uuid.UUID) ([]domain.Review, error) {
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []domain.Review{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rv.Images = []domain.ReviewImage{}
		index[rv.ID] = len(reviews)
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	rows.Close()

	if len(reviews) == 0 {
		return reviews, nil
	}

	ids := make([]uuid.UUID, len(reviews))
	for i, rv := range reviews {
		ids[i] = rv.ID
	}

	const imgQ = `
		SELECT id, review_id, url, created_at
		FROM review_images
		WHERE review_id = ANY(@ids)
		ORDER BY created_at, id`

	imgRows, err := r.db.Query(ctx, imgQ, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("images: %w", err)
	}
	defer imgRows.Close()

	for imgRows.Next() {
		img, err := scanReviewImage(imgRows)
		if err != nil {
			return nil, fmt.Errorf("images: scan: %w", err)
		}
		i := index[img.ReviewID]
		reviews[i].Images = append(reviews[i].Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return nil, fmt.Errorf("images: rows: %w", err)
	}
	return reviews, nil
}

func (r *pgReviewRepo) Update(ctx context.Context, rv domain.Review) (domain.Review, error) {
	const q = `
		UPDATE reviews
		SET review     = @review,
		    stars      = @stars,
		    updated_at = now()
		WHERE id = @id
		RETURNING ` + reviewColumns

	args := pgx.NamedArgs{"id": rv.ID, "review": rv.Review, "stars": rv.Stars}

	result, err := scanReview(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Review{}, fmt.Errorf("repo.ReviewRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ReviewRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReviewRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgReviewRepo) CountImages(ctx context.Context, reviewID uuid.UUID) (int, error) {
	const q = `SELECT count(*) FROM review_images WHERE review_id = @review_id`

	var n int
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"review_id": reviewID}).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.ReviewRepo.CountImages: %w", err)
	}
	return n, nil
}

func (r *pgReviewRepo) AddImage(ctx context.Context, reviewID uuid.UUID, url string) (domain.ReviewImage, error) {
	const q = `
		INSERT INTO review_images (review_id, url)
		VALUES (@review_id, @url)
		RETURNING id, review_id, url, created_at`

	img, err := scanReviewImage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"review_id": reviewID, "url": url}))
	if err != nil {
		return domain.ReviewImage{}, fmt.Errorf("repo.ReviewRepo.AddImage: %w", translate(err))
	}
	return img, nil
}

func (r *pgReviewRepo) GetImage(ctx context.Context, id uuid.UUID) (domain.ReviewImage, error) {
	const q = `SELECT id, review_id, url, created_at FROM review_images WHERE id = @id`

	img, err := scanReviewImage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ReviewImage{}, fmt.Errorf("repo.ReviewRepo.GetImage: %w", err)
	}
	return img, nil
}

func (r *pgReviewRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM review_images WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.ReviewRepo.DeleteImage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ReviewRepo.DeleteImage: %w", domain.ErrNotFound)
	}
	return nil
}

// scanReview maps a single database row into a domain.Review.
func scanReview(s scanner) (domain.Review, error) {
	var (
		rv             domain.Review
		id, spot, user pgtype.UUID
	)
	err := s.Scan(&id, &spot, &user, &rv.Review, &rv.Stars, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, domain.ErrNotFound
		}
		return domain.Review{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.SpotID = uuid.UUID(spot.Bytes)
	rv.UserID = uuid.UUID(user.Bytes)
	return rv, nil
}

// scanReviewImage maps a single database row into a domain.ReviewImage.
func scanReviewImage(s scanner) (domain.ReviewImage, error) {
	var (
		img          domain.ReviewImage
		id, reviewID pgtype.UUID
	)
	err := s.Scan(&id, &reviewID, &img.URL, &img.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ReviewImage{}, domain.ErrNotFound
		}
		return domain.ReviewImage{}, err
	}
	img.ID = uuid.UUID(id.Bytes)
	img.ReviewID = uuid.UUID(reviewID.Bytes)
	return img, nil
}
