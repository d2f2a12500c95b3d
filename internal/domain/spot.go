// Package domain contains the core data types for the Bnb booking API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (booking, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Spot is a listable rental unit owned by a user.
// OwnerID is the user UUID issued by the external session service.
type Spot struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Address     string
	City        string
	State       string
	Country     string
	Lat         float64
	Lng         float64
	Name        string
	Description string
	Price       float64
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// PreviewImage is the URL of the spot's preview image, set only by
	// listings that join it. Nil when the spot has no images.
	PreviewImage *string
}

// SpotImage is a URL attached to a spot. Preview marks the image shown on
// listings.
type SpotImage struct {
	ID        uuid.UUID
	SpotID    uuid.UUID
	URL       string
	Preview   bool
	CreatedAt time.Time
}
