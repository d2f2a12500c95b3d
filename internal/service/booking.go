// Package service contains the business logic for the Bnb booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/booking"
	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/repo"
)

// BookingService implements business logic for Booking operations.
// Creates and edits run the conflict check and the write under the spot's
// lock, so two overlapping requests for one spot cannot both succeed.
type BookingService struct {
	spots    repo.SpotRepo
	bookings repo.BookingRepo
	locker   repo.SpotLocker
	clock    Clock
	log      *slog.Logger
}

// NewBookingService constructs a BookingService backed by the provided repos.
func NewBookingService(spots repo.SpotRepo, bookings repo.BookingRepo, locker repo.SpotLocker, clock Clock, log *slog.Logger) *BookingService {
	return &BookingService{spots: spots, bookings: bookings, locker: locker, clock: clock, log: log}
}

// Create reserves a spot for userID over iv.
// Returns domain.ErrNotFound if the spot does not exist, domain.ErrForbidden
// if userID owns the spot, and a *booking.RejectedError if the checker
// rejects the interval.
func (s *BookingService) Create(ctx context.Context, userID, spotID uuid.UUID, iv booking.Interval) (domain.Booking, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	if spot.OwnerID == userID {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w: owners cannot book their own spot", domain.ErrForbidden)
	}

	now := s.clock.Now()
	var created domain.Booking
	err = s.locker.WithSpotLock(ctx, spotID, func(ctx context.Context, bookings repo.BookingRepo) error {
		existing, err := bookings.ListBySpot(ctx, spotID)
		if err != nil {
			return err
		}
		if err := s.check(ctx, iv, existing, uuid.Nil, now); err != nil {
			return err
		}
		created, err = bookings.Create(ctx, domain.Booking{
			SpotID:    spotID,
			UserID:    userID,
			StartDate: iv.Start,
			EndDate:   iv.End,
		})
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}
	return created, nil
}

// Update moves an existing booking to iv. Only the guest who made the booking
// may edit it, and only before it has concluded. The booking is excluded from
// its own conflict check.
func (s *BookingService) Update(ctx context.Context, userID, bookingID uuid.UUID, iv booking.Interval) (domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}
	if current.UserID != userID {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", domain.ErrForbidden)
	}

	now := s.clock.Now()
	if err := booking.CanEdit(intervalOf(current), now); err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}

	var updated domain.Booking
	err = s.locker.WithSpotLock(ctx, current.SpotID, func(ctx context.Context, bookings repo.BookingRepo) error {
		existing, err := bookings.ListBySpot(ctx, current.SpotID)
		if err != nil {
			return err
		}
		if err := s.check(ctx, iv, existing, current.ID, now); err != nil {
			return err
		}
		next := current
		next.StartDate = iv.Start
		next.EndDate = iv.End
		updated, err = bookings.Update(ctx, next)
		return err
	})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Update: %w", err)
	}
	return updated, nil
}

// Delete cancels a booking. The guest or the spot's owner may cancel, and only
// before the first day of the stay.
func (s *BookingService) Delete(ctx context.Context, userID, bookingID uuid.UUID) error {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}
	if current.UserID != userID {
		spot, err := s.spots.GetByID(ctx, current.SpotID)
		if err != nil {
			return fmt.Errorf("service.BookingService.Delete: %w", err)
		}
		if spot.OwnerID != userID {
			return fmt.Errorf("service.BookingService.Delete: %w", domain.ErrForbidden)
		}
	}

	if err := booking.CanDelete(intervalOf(current), s.clock.Now()); err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		return fmt.Errorf("service.BookingService.Delete: %w", err)
	}
	return nil
}

// ListForUser returns the bookings made by userID, each with its spot.
// Always returns a non-nil slice so callers can safely range over it.
func (s *BookingService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForUser: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// ListForSpot returns the bookings held on a spot ordered by start date.
// Returns domain.ErrNotFound if the spot does not exist.
func (s *BookingService) ListForSpot(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error) {
	if _, err := s.spots.GetByID(ctx, spotID); err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForSpot: %w", err)
	}
	bookings, err := s.bookings.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListForSpot: %w", err)
	}
	if bookings == nil {
		return []domain.Booking{}, nil
	}
	return bookings, nil
}

// check runs the conflict checker against existing, skipping the booking
// identified by exclude (uuid.Nil on create).
func (s *BookingService) check(ctx context.Context, iv booking.Interval, existing []domain.Booking, exclude uuid.UUID, now time.Time) error {
	others := make([]booking.Interval, 0, len(existing))
	for _, b := range existing {
		if b.ID == exclude {
			continue
		}
		others = append(others, intervalOf(b))
	}

	err := booking.Check(iv, others, now).Err()
	var rejected *booking.RejectedError
	if errors.As(err, &rejected) {
		s.log.DebugContext(ctx, "booking rejected",
			"kind", rejected.Kind.String(),
			"start_date", iv.Start.Format(dateLayout),
			"end_date", iv.End.Format(dateLayout),
			"compared", len(others),
		)
	}
	return err
}

const dateLayout = "2006-01-02"

func intervalOf(b domain.Booking) booking.Interval {
	return booking.Interval{Start: b.StartDate, End: b.EndDate}
}
