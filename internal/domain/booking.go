package domain

import (
	"time"

	"github.com/google/uuid"
)

// Booking reserves a spot for a user over the half-open day range
// [StartDate, EndDate), EndDate being the checkout day. Both dates are stored
// at UTC midnight.
type Booking struct {
	ID        uuid.UUID
	SpotID    uuid.UUID
	UserID    uuid.UUID
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time

	// Spot is populated only by listings that join the parent spot
	// (e.g. the current user's bookings). Nil otherwise.
	Spot *Spot
}
