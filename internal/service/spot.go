package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/repo"
)

const maxSpotNameLen = 50

// SpotService implements business logic for Spot operations.
type SpotService struct {
	spots repo.SpotRepo
}

// NewSpotService constructs a SpotService backed by the provided repo.
func NewSpotService(spots repo.SpotRepo) *SpotService {
	return &SpotService{spots: spots}
}

// Create validates the spot and persists it.
// Returns domain.FieldErrors (matching domain.ErrValidation) for invalid input.
func (s *SpotService) Create(ctx context.Context, spot domain.Spot) (domain.Spot, error) {
	if err := validateSpot(spot); err != nil {
		return domain.Spot{}, err
	}
	result, err := s.spots.Create(ctx, spot)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single spot.
// Returns domain.ErrNotFound if no spot with that ID exists.
func (s *SpotService) GetByID(ctx context.Context, id uuid.UUID) (domain.Spot, error) {
	result, err := s.spots.GetByID(ctx, id)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.GetByID: %w", err)
	}
	return result, nil
}

// ListPaged returns one page of spots and the total number of spots.
func (s *SpotService) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error) {
	page, err := s.spots.ListPaged(ctx, p)
	if err != nil {
		return domain.Page[domain.Spot]{}, fmt.Errorf("service.SpotService.ListPaged: %w", err)
	}
	if page.Items == nil {
		page.Items = []domain.Spot{}
	}
	return page, nil
}

// Update validates and persists changes to a spot owned by userID.
// Returns domain.ErrForbidden if userID is not the owner.
func (s *SpotService) Update(ctx context.Context, userID uuid.UUID, spot domain.Spot) (domain.Spot, error) {
	if err := s.requireOwner(ctx, userID, spot.ID); err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.Update: %w", err)
	}
	if err := validateSpot(spot); err != nil {
		return domain.Spot{}, err
	}
	spot.OwnerID = userID
	result, err := s.spots.Update(ctx, spot)
	if err != nil {
		return domain.Spot{}, fmt.Errorf("service.SpotService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a spot owned by userID along with its bookings and reviews.
func (s *SpotService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return fmt.Errorf("service.SpotService.Delete: %w", err)
	}
	if err := s.spots.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.SpotService.Delete: %w", err)
	}
	return nil
}

// AddImage attaches an image to a spot owned by userID.
// Returns domain.ErrNotFound if the spot does not exist, domain.ErrForbidden
// if userID is not the owner, and domain.FieldErrors for an empty URL.
func (s *SpotService) AddImage(ctx context.Context, userID uuid.UUID, img domain.SpotImage) (domain.SpotImage, error) {
	if err := s.requireOwner(ctx, userID, img.SpotID); err != nil {
		return domain.SpotImage{}, fmt.Errorf("service.SpotService.AddImage: %w", err)
	}
	if strings.TrimSpace(img.URL) == "" {
		return domain.SpotImage{}, domain.FieldErrors{"url": "Image URL is required"}
	}
	result, err := s.spots.AddImage(ctx, img)
	if err != nil {
		return domain.SpotImage{}, fmt.Errorf("service.SpotService.AddImage: %w", err)
	}
	return result, nil
}

// DeleteImage removes a spot image. Only the owner of the image's spot may
// delete it.
func (s *SpotService) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	img, err := s.spots.GetImage(ctx, imageID)
	if err != nil {
		return fmt.Errorf("service.SpotService.DeleteImage: %w", err)
	}
	if err := s.requireOwner(ctx, userID, img.SpotID); err != nil {
		return fmt.Errorf("service.SpotService.DeleteImage: %w", err)
	}
	if err := s.spots.DeleteImage(ctx, imageID); err != nil {
		return fmt.Errorf("service.SpotService.DeleteImage: %w", err)
	}
	return nil
}

func (s *SpotService) requireOwner(ctx context.Context, userID, spotID uuid.UUID) error {
	current, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return err
	}
	if current.OwnerID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// validateSpot collects every failing field rather than stopping at the first.
func validateSpot(spot domain.Spot) error {
	errs := domain.FieldErrors{}
	required := []struct{ field, value, msg string }{
		{"address", spot.Address, "Street address is required"},
		{"city", spot.City, "City is required"},
		{"state", spot.State, "State is required"},
		{"country", spot.Country, "Country is required"},
		{"description", spot.Description, "Description is required"},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs[r.field] = r.msg
		}
	}
	if spot.Lat < -90 || spot.Lat > 90 {
		errs["lat"] = "Latitude must be within -90 and 90"
	}
	if spot.Lng < -180 || spot.Lng > 180 {
		errs["lng"] = "Longitude must be within -180 and 180"
	}
	if name := strings.TrimSpace(spot.Name); name == "" || len([]rune(name)) >= maxSpotNameLen {
		errs["name"] = "Name must be less than 50 characters"
	}
	if spot.Price <= 0 {
		errs["price"] = "Price per day must be a positive number"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
