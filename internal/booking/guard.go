package booking

import (
	"time"

	"github.com/pkordes/bnb/internal/domain"
)

// Guard messages returned to the client on a 403.
const (
	MsgStartedBooking   = "Bookings that have been started can't be deleted"
	MsgConcludedBooking = "Past bookings can't be modified"
)

// StateError reports an edit or delete attempted outside the window the
// reservation's dates allow. It matches domain.ErrState.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

func (e *StateError) Unwrap() error { return domain.ErrState }

// CanDelete returns nil while the stay has not begun (now is before the
// first day) and a *StateError from the first day onwards.
func CanDelete(reservation Interval, now time.Time) error {
	if Day(now).Before(reservation.Start) {
		return nil
	}
	return &StateError{Message: MsgStartedBooking}
}

// CanEdit returns nil until the checkout day and a *StateError once the
// reservation has concluded.
func CanEdit(reservation Interval, now time.Time) error {
	if Day(now).Before(reservation.End) {
		return nil
	}
	return &StateError{Message: MsgConcludedBooking}
}
