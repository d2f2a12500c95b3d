package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bnb/internal/booking"
	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/service"
)

// ---- helpers ---------------------------------------------------------------

func day(m time.Month, d int) time.Time {
	return time.Date(2024, m, d, 0, 0, 0, 0, time.UTC)
}

func june(start, end int) booking.Interval {
	return booking.Interval{Start: day(time.June, start), End: day(time.June, end)}
}

// bookingFixture is one spot owned by owner with a single booking by guest
// over June 1 to June 5.
type bookingFixture struct {
	owner, guest uuid.UUID
	spot         domain.Spot
	existing     domain.Booking
	spots        *mockSpotRepo
	bookings     *mockBookingRepo
	locker       *mockLocker
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{owner: uuid.New(), guest: uuid.New()}
	f.spot = domain.Spot{ID: uuid.New(), OwnerID: f.owner, Name: "Lake Cabin", Address: "1 Shore Rd", City: "Tahoe", State: "CA", Country: "USA"}
	f.existing = domain.Booking{
		ID:        uuid.New(),
		SpotID:    f.spot.ID,
		UserID:    f.guest,
		StartDate: day(time.June, 1),
		EndDate:   day(time.June, 5),
	}
	f.spots = spotsReturning(f.spot)
	f.bookings = &mockBookingRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Booking, error) {
			if id != f.existing.ID {
				return domain.Booking{}, domain.ErrNotFound
			}
			return f.existing, nil
		},
		listBySpot: func(_ context.Context, _ uuid.UUID) ([]domain.Booking, error) {
			return []domain.Booking{f.existing}, nil
		},
	}
	f.locker = &mockLocker{bookings: f.bookings}
	return f
}

func (f *bookingFixture) service(now time.Time) *service.BookingService {
	return service.NewBookingService(f.spots, f.bookings, f.locker, service.FixedClock(now), discardLogger())
}

// ---- Create ----------------------------------------------------------------

func TestBookingService_Create_OK(t *testing.T) {
	f := newBookingFixture()
	booker := uuid.New()
	var got domain.Booking
	f.bookings.create = func(_ context.Context, b domain.Booking) (domain.Booking, error) {
		got = b
		b.ID = uuid.New()
		return b, nil
	}

	created, err := f.service(day(time.May, 15)).Create(context.Background(), booker, f.spot.ID, june(10, 12))

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, f.spot.ID, got.SpotID)
	assert.Equal(t, booker, got.UserID)
	assert.Equal(t, day(time.June, 10), got.StartDate)
	assert.Equal(t, day(time.June, 12), got.EndDate)
	assert.Equal(t, []uuid.UUID{f.spot.ID}, f.locker.locked)
}

func TestBookingService_Create_SpotNotFound(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Create(context.Background(), uuid.New(), uuid.New(), june(10, 12))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, f.locker.locked)
}

func TestBookingService_Create_OwnerCannotBookOwnSpot(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Create(context.Background(), f.owner, f.spot.ID, june(10, 12))

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.locker.locked)
}

func TestBookingService_Create_Overlap(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Create(context.Background(), uuid.New(), f.spot.ID, june(3, 8))

	require.ErrorIs(t, err, domain.ErrConflict)
	var rejected *booking.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, booking.KindConflict, rejected.Kind)
	assert.Equal(t, map[string]string{
		booking.FieldStartDate: booking.MsgStartConflict,
		booking.FieldEndDate:   booking.MsgEndConflict,
	}, rejected.Reasons)
}

func TestBookingService_Create_EndNotAfterStart(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Create(context.Background(), uuid.New(), f.spot.ID, june(12, 12))

	require.ErrorIs(t, err, domain.ErrValidation)
	var rejected *booking.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, booking.KindStructural, rejected.Kind)
	assert.Equal(t, booking.MsgEndNotAfterStart, rejected.Reasons[booking.FieldEndDate])
}

func TestBookingService_Create_StartInPast(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.June, 10)).Create(context.Background(), uuid.New(), f.spot.ID, june(8, 12))

	require.ErrorIs(t, err, domain.ErrValidation)
	var rejected *booking.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, booking.KindTemporal, rejected.Kind)
	assert.Equal(t, booking.MsgStartInPast, rejected.Reasons[booking.FieldEndDate])
}

func TestBookingService_Create_StoreConflictSurfaces(t *testing.T) {
	f := newBookingFixture()
	f.bookings.create = func(_ context.Context, _ domain.Booking) (domain.Booking, error) {
		return domain.Booking{}, domain.ErrConflict
	}

	_, err := f.service(day(time.May, 15)).Create(context.Background(), uuid.New(), f.spot.ID, june(10, 12))

	assert.ErrorIs(t, err, domain.ErrConflict)
}

// ---- Update ----------------------------------------------------------------

func TestBookingService_Update_ExcludesItselfFromCheck(t *testing.T) {
	f := newBookingFixture()
	f.bookings.update = func(_ context.Context, b domain.Booking) (domain.Booking, error) {
		return b, nil
	}

	got, err := f.service(day(time.May, 15)).Update(context.Background(), f.guest, f.existing.ID, june(2, 6))

	require.NoError(t, err)
	assert.Equal(t, f.existing.ID, got.ID)
	assert.Equal(t, day(time.June, 2), got.StartDate)
	assert.Equal(t, day(time.June, 6), got.EndDate)
}

func TestBookingService_Update_ConflictsWithOtherBooking(t *testing.T) {
	f := newBookingFixture()
	other := domain.Booking{ID: uuid.New(), SpotID: f.spot.ID, StartDate: day(time.June, 10), EndDate: day(time.June, 15)}
	f.bookings.listBySpot = func(_ context.Context, _ uuid.UUID) ([]domain.Booking, error) {
		return []domain.Booking{f.existing, other}, nil
	}

	_, err := f.service(day(time.May, 15)).Update(context.Background(), f.guest, f.existing.ID, june(3, 10))

	require.ErrorIs(t, err, domain.ErrConflict)
	var rejected *booking.RejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, map[string]string{booking.FieldEndDate: booking.MsgEndConflict}, rejected.Reasons)
}

func TestBookingService_Update_NotBooker(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Update(context.Background(), f.owner, f.existing.ID, june(2, 6))

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBookingService_Update_Concluded(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.June, 6)).Update(context.Background(), f.guest, f.existing.ID, june(20, 22))

	require.ErrorIs(t, err, domain.ErrState)
	var state *booking.StateError
	require.True(t, errors.As(err, &state))
	assert.Equal(t, booking.MsgConcludedBooking, state.Message)
	assert.Empty(t, f.locker.locked)
}

func TestBookingService_Update_NotFound(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Update(context.Background(), f.guest, uuid.New(), june(2, 6))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Delete ----------------------------------------------------------------

func TestBookingService_Delete_ByGuestBeforeStart(t *testing.T) {
	f := newBookingFixture()
	var deleted uuid.UUID
	f.bookings.delete = func(_ context.Context, id uuid.UUID) error {
		deleted = id
		return nil
	}

	err := f.service(day(time.May, 31)).Delete(context.Background(), f.guest, f.existing.ID)

	require.NoError(t, err)
	assert.Equal(t, f.existing.ID, deleted)
}

func TestBookingService_Delete_BySpotOwner(t *testing.T) {
	f := newBookingFixture()
	f.bookings.delete = func(_ context.Context, _ uuid.UUID) error { return nil }

	err := f.service(day(time.May, 31)).Delete(context.Background(), f.owner, f.existing.ID)

	assert.NoError(t, err)
}

func TestBookingService_Delete_Stranger(t *testing.T) {
	f := newBookingFixture()

	err := f.service(day(time.May, 31)).Delete(context.Background(), uuid.New(), f.existing.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBookingService_Delete_Started(t *testing.T) {
	f := newBookingFixture()

	err := f.service(day(time.June, 2)).Delete(context.Background(), f.guest, f.existing.ID)

	require.ErrorIs(t, err, domain.ErrState)
	var state *booking.StateError
	require.True(t, errors.As(err, &state))
	assert.Equal(t, booking.MsgStartedBooking, state.Message)
}

// ---- List ------------------------------------------------------------------

func TestBookingService_ListForUser_NilBecomesEmpty(t *testing.T) {
	f := newBookingFixture()
	f.bookings.listByUser = func(_ context.Context, _ uuid.UUID) ([]domain.Booking, error) {
		return nil, nil
	}

	got, err := f.service(day(time.May, 15)).ListForUser(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBookingService_ListForSpot_OK(t *testing.T) {
	f := newBookingFixture()

	got, err := f.service(day(time.May, 15)).ListForSpot(context.Background(), f.spot.ID)

	require.NoError(t, err)
	assert.Equal(t, []domain.Booking{f.existing}, got)
}

func TestBookingService_ListForSpot_SpotNotFound(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).ListForSpot(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Calendar --------------------------------------------------------------

func TestBookingService_Calendar(t *testing.T) {
	f := newBookingFixture()

	cal, err := f.service(day(time.May, 15)).Calendar(context.Background(), f.spot.ID)

	require.NoError(t, err)
	events := cal.Events()
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, f.existing.ID.String()+"@bnb", ev.Props.Get(ical.PropUID).Value)
	assert.Equal(t, "20240601", ev.Props.Get(ical.PropDateTimeStart).Value)
	assert.Equal(t, "20240605", ev.Props.Get(ical.PropDateTimeEnd).Value)
	assert.Equal(t, "Booked: Lake Cabin", ev.Props.Get(ical.PropSummary).Value)
}

func TestBookingService_Calendar_SpotNotFound(t *testing.T) {
	f := newBookingFixture()

	_, err := f.service(day(time.May, 15)).Calendar(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
