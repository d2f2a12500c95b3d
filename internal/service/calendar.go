package service

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/domain"
)

const calendarProductID = "-//Bnb//Spot Bookings//EN"

// Calendar returns the spot's bookings as an iCalendar feed for hosts to
// subscribe to. Each booking is one all-day VEVENT whose exclusive DTEND is
// the checkout day.
// Returns domain.ErrNotFound if the spot does not exist.
func (s *BookingService) Calendar(ctx context.Context, spotID uuid.UUID) (*ical.Calendar, error) {
	spot, err := s.spots.GetByID(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Calendar: %w", err)
	}
	bookings, err := s.bookings.ListBySpot(ctx, spotID)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Calendar: %w", err)
	}

	stamp := s.clock.Now().UTC()
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, calendarProductID)
	cal.Props.SetText("X-WR-CALNAME", spot.Name)

	for _, b := range bookings {
		cal.Children = append(cal.Children, bookingEvent(spot, b, stamp))
	}
	return cal, nil
}

func bookingEvent(spot domain.Spot, b domain.Booking, stamp time.Time) *ical.Component {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, b.ID.String()+"@bnb")
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	event.Props.SetDate(ical.PropDateTimeStart, b.StartDate)
	event.Props.SetDate(ical.PropDateTimeEnd, b.EndDate)
	event.Props.SetText(ical.PropSummary, "Booked: "+spot.Name)
	event.Props.SetText(ical.PropLocation, fmt.Sprintf("%s, %s, %s, %s", spot.Address, spot.City, spot.State, spot.Country))
	return event.Component
}
