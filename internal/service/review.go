package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/repo"
)

// ErrDuplicateReview is returned by ReviewService.Create when the user has
// already reviewed the spot. It matches domain.ErrConflict.
var ErrDuplicateReview = fmt.Errorf("%w: user already has a review for this spot", domain.ErrConflict)

// ReviewService implements business logic for Review operations.
type ReviewService struct {
	spots   repo.SpotRepo
	reviews repo.ReviewRepo
}

// NewReviewService constructs a ReviewService backed by the provided repos.
func NewReviewService(spots repo.SpotRepo, reviews repo.ReviewRepo) *ReviewService {
	return &ReviewService{spots: spots, reviews: reviews}
}

// Create adds a review to a spot.
// Returns domain.ErrNotFound if the spot does not exist and
// ErrDuplicateReview if the user already reviewed it.
func (s *ReviewService) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	if _, err := s.spots.GetByID(ctx, rv.SpotID); err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w", err)
	}
	if err := validateReview(rv); err != nil {
		return domain.Review{}, err
	}
	result, err := s.reviews.Create(ctx, rv)
	if errors.Is(err, domain.ErrConflict) {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w", ErrDuplicateReview)
	}
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Create: %w", err)
	}
	result.Images = []domain.ReviewImage{}
	return result, nil
}

// ListForSpot returns a spot's reviews with their images.
// Returns domain.ErrNotFound if the spot does not exist.
func (s *ReviewService) ListForSpot(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error) {
	if _, err := s.spots.GetByID(ctx, spotID); err != nil {
		return nil, fmt.Errorf("service.ReviewService.ListForSpot: %w", err)
	}
	reviews, err := s.reviews.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("service.ReviewService.ListForSpot: %w", err)
	}
	if reviews == nil {
		return []domain.Review{}, nil
	}
	return reviews, nil
}

// ListForUser returns the reviews written by userID.
func (s *ReviewService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ReviewService.ListForUser: %w", err)
	}
	if reviews == nil {
		return []domain.Review{}, nil
	}
	return reviews, nil
}

// Update rewrites the text and stars of a review written by userID.
func (s *ReviewService) Update(ctx context.Context, userID uuid.UUID, rv domain.Review) (domain.Review, error) {
	if _, err := s.requireAuthor(ctx, userID, rv.ID); err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Update: %w", err)
	}
	if err := validateReview(rv); err != nil {
		return domain.Review{}, err
	}
	result, err := s.reviews.Update(ctx, rv)
	if err != nil {
		return domain.Review{}, fmt.Errorf("service.ReviewService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a review written by userID together with its images.
func (s *ReviewService) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	if _, err := s.requireAuthor(ctx, userID, reviewID); err != nil {
		return fmt.Errorf("service.ReviewService.Delete: %w", err)
	}
	if err := s.reviews.Delete(ctx, reviewID); err != nil {
		return fmt.Errorf("service.ReviewService.Delete: %w", err)
	}
	return nil
}

// AddImage attaches an image URL to a review written by userID.
// Returns domain.ErrLimitReached once the review holds domain.MaxReviewImages.
func (s *ReviewService) AddImage(ctx context.Context, userID, reviewID uuid.UUID, url string) (domain.ReviewImage, error) {
	if _, err := s.requireAuthor(ctx, userID, reviewID); err != nil {
		return domain.ReviewImage{}, fmt.Errorf("service.ReviewService.AddImage: %w", err)
	}
	n, err := s.reviews.CountImages(ctx, reviewID)
	if err != nil {
		return domain.ReviewImage{}, fmt.Errorf("service.ReviewService.AddImage: %w", err)
	}
	if n >= domain.MaxReviewImages {
		return domain.ReviewImage{}, fmt.Errorf("service.ReviewService.AddImage: %w", domain.ErrLimitReached)
	}
	img, err := s.reviews.AddImage(ctx, reviewID, url)
	if err != nil {
		return domain.ReviewImage{}, fmt.Errorf("service.ReviewService.AddImage: %w", err)
	}
	return img, nil
}

// DeleteImage removes an image from a review written by userID.
func (s *ReviewService) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	img, err := s.reviews.GetImage(ctx, imageID)
	if err != nil {
		return fmt.Errorf("service.ReviewService.DeleteImage: %w", err)
	}
	if _, err := s.requireAuthor(ctx, userID, img.ReviewID); err != nil {
		return fmt.Errorf("service.ReviewService.DeleteImage: %w", err)
	}
	if err := s.reviews.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("service.ReviewService.DeleteImage: %w", err)
	}
	return nil
}

func (s *ReviewService) requireAuthor(ctx context.Context, userID, reviewID uuid.UUID) (domain.Review, error) {
	rv, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	if rv.UserID != userID {
		return domain.Review{}, domain.ErrForbidden
	}
	return rv, nil
}

func validateReview(rv domain.Review) error {
	errs := domain.FieldErrors{}
	if strings.TrimSpace(rv.Review) == "" {
		errs["review"] = "Review text is required"
	}
	if rv.Stars < 1 || rv.Stars > 5 {
		errs["stars"] = "Stars must be an integer from 1 to 5"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
