package handler

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/bnb/internal/booking"
	"github.com/pkordes/bnb/internal/domain"
)

// bookingRequest is the body of POST /spots/{spotId}/bookings and
// PUT /bookings/{bookingId}. Dates are "YYYY-MM-DD".
type bookingRequest struct {
	StartDate *openapi_types.Date `json:"startDate" validate:"required"`
	EndDate   *openapi_types.Date `json:"endDate" validate:"required"`
}

func (req bookingRequest) interval() booking.Interval {
	return booking.NewInterval(req.StartDate.Time, req.EndDate.Time)
}

type bookingResponse struct {
	ID        uuid.UUID          `json:"id"`
	SpotID    uuid.UUID          `json:"spotId"`
	UserID    uuid.UUID          `json:"userId"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
	Spot      *spotResponse      `json:"Spot,omitempty"`
}

// guestBookingResponse is what anyone but the spot's owner sees of a booking:
// which dates are taken, not by whom.
type guestBookingResponse struct {
	SpotID    uuid.UUID          `json:"spotId"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
}

// CreateBooking handles POST /spots/{spotId}/bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	var req bookingRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	created, err := s.bookings.Create(r.Context(), userID, spotID, req.interval())
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, bookingToResponse(created))
}

// ListSpotBookings handles GET /spots/{spotId}/bookings.
// The spot's owner sees full bookings; everyone else sees only the dates.
func (s *Server) ListSpotBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	spot, err := s.spots.GetByID(r.Context(), spotID)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}
	bookings, err := s.bookings.ListForSpot(r.Context(), spotID)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}

	if spot.OwnerID == userID {
		out := make([]bookingResponse, len(bookings))
		for i, b := range bookings {
			out[i] = bookingToResponse(b)
		}
		writeJSON(w, http.StatusOK, map[string]any{"Bookings": out})
		return
	}
	out := make([]guestBookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = guestBookingResponse{
			SpotID:    b.SpotID,
			StartDate: openapi_types.Date{Time: b.StartDate},
			EndDate:   openapi_types.Date{Time: b.EndDate},
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"Bookings": out})
}

// ListCurrentUserBookings handles GET /bookings/current.
func (s *Server) ListCurrentUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookings, err := s.bookings.ListForUser(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err, msgBookingNotFound)
		return
	}
	out := make([]bookingResponse, len(bookings))
	for i, b := range bookings {
		out[i] = bookingToResponse(b)
	}
	writeJSON(w, http.StatusOK, map[string]any{"Bookings": out})
}

// UpdateBooking handles PUT /bookings/{bookingId}.
func (s *Server) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, err := pathUUID(r, "bookingId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgBookingNotFound})
		return
	}
	var req bookingRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	updated, err := s.bookings.Update(r.Context(), userID, bookingID, req.interval())
	if err != nil {
		s.writeError(w, r, err, msgBookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bookingToResponse(updated))
}

// DeleteBooking handles DELETE /bookings/{bookingId}.
func (s *Server) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	bookingID, err := pathUUID(r, "bookingId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgBookingNotFound})
		return
	}
	if err := s.bookings.Delete(r.Context(), userID, bookingID); err != nil {
		s.writeError(w, r, err, msgBookingNotFound)
		return
	}
	writeJSON(w, http.StatusOK, messageBody{Message: "Successfully deleted"})
}

// GetSpotCalendar handles GET /spots/{spotId}/calendar.ics.
// The feed carries dates and the spot name only, so it is served without
// authentication for calendar apps to subscribe to.
func (s *Server) GetSpotCalendar(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathUUID(r, "spotId")
	if err != nil {
		writeJSON(w, http.StatusNotFound, messageBody{Message: msgSpotNotFound})
		return
	}
	cal, err := s.bookings.Calendar(r.Context(), spotID)
	if err != nil {
		s.writeError(w, r, err, msgSpotNotFound)
		return
	}

	// Encode fully before writing headers so an encoder error can still be a 500.
	var buf bytes.Buffer
	if err := encodeCalendar(&buf, cal); err != nil {
		s.writeError(w, r, fmt.Errorf("handler.GetSpotCalendar: encode: %w", err), msgSpotNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="spot-`+spotID.String()+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// encodeCalendar writes cal in iCalendar format. go-ical's encoder rejects a
// VCALENDAR with no components, so a spot without bookings gets its
// properties written directly.
func encodeCalendar(w io.Writer, cal *ical.Calendar) error {
	if len(cal.Children) > 0 {
		return ical.NewEncoder(w).Encode(cal)
	}
	var b bytes.Buffer
	b.WriteString("BEGIN:VCALENDAR\r\n")
	for _, name := range slices.Sorted(maps.Keys(cal.Props)) {
		for _, p := range cal.Props[name] {
			b.WriteString(name + ":" + p.Value + "\r\n")
		}
	}
	b.WriteString("END:VCALENDAR\r\n")
	_, err := b.WriteTo(w)
	return err
}

func bookingToResponse(b domain.Booking) bookingResponse {
	out := bookingResponse{
		ID:        b.ID,
		SpotID:    b.SpotID,
		UserID:    b.UserID,
		StartDate: openapi_types.Date{Time: b.StartDate},
		EndDate:   openapi_types.Date{Time: b.EndDate},
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.Spot != nil {
		sp := spotToResponse(*b.Spot)
		out.Spot = &sp
	}
	return out
}
