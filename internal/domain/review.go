package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxReviewImages is the number of images a single review may carry.
const MaxReviewImages = 10

// Review is a guest's rating of a spot. A user may review a spot once.
type Review struct {
	ID        uuid.UUID
	SpotID    uuid.UUID
	UserID    uuid.UUID
	Review    string
	Stars     int
	CreatedAt time.Time
	UpdatedAt time.Time

	// Images is populated by listings; nil on single-row writes.
	Images []ReviewImage
}

// ReviewImage is a URL attached to a review. The binary itself lives in
// external storage.
type ReviewImage struct {
	ID        uuid.UUID
	ReviewID  uuid.UUID
	URL       string
	CreatedAt time.Time
}
