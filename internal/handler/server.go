// Package handler implements the HTTP handlers for the Bnb booking API.
// All handlers are methods on Server. They are split into resource files
// (spot.go, booking.go, review.go) but share the same Server struct so they
// can reach its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/emersion/go-ical"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/booking"
	"github.com/pkordes/bnb/internal/domain"
)

// SpotServicer defines the business operations the spot handlers depend on.
// Defining the interface here, in the consumer package, lets handler tests
// inject a mock without touching the database or service layer.
type SpotServicer interface {
	Create(ctx context.Context, spot domain.Spot) (domain.Spot, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Spot, error)
	ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error)
	Update(ctx context.Context, userID uuid.UUID, spot domain.Spot) (domain.Spot, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	AddImage(ctx context.Context, userID uuid.UUID, img domain.SpotImage) (domain.SpotImage, error)
	DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error
}

// BookingServicer defines the business operations the booking handlers depend on.
type BookingServicer interface {
	Create(ctx context.Context, userID, spotID uuid.UUID, iv booking.Interval) (domain.Booking, error)
	Update(ctx context.Context, userID, bookingID uuid.UUID, iv booking.Interval) (domain.Booking, error)
	Delete(ctx context.Context, userID, bookingID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	ListForSpot(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error)
	Calendar(ctx context.Context, spotID uuid.UUID) (*ical.Calendar, error)
}

// ReviewServicer defines the business operations the review handlers depend on.
type ReviewServicer interface {
	Create(ctx context.Context, rv domain.Review) (domain.Review, error)
	ListForSpot(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error)
	Update(ctx context.Context, userID uuid.UUID, rv domain.Review) (domain.Review, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID) error
	AddImage(ctx context.Context, userID, reviewID uuid.UUID, url string) (domain.ReviewImage, error)
	DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error
}

// Server holds the dependencies shared by every handler.
type Server struct {
	spots    SpotServicer
	bookings BookingServicer
	reviews  ReviewServicer
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(spots SpotServicer, bookings BookingServicer, reviews ReviewServicer, log *slog.Logger) *Server {
	return &Server{
		spots:    spots,
		bookings: bookings,
		reviews:  reviews,
		validate: newValidator(),
		log:      log,
	}
}

// Routes returns the API router. Reads of public listings are open; every
// route that acts on behalf of a user is mounted behind authenticate.
func (s *Server) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Get("/spots", s.ListSpots)
	r.Get("/spots/{spotId}", s.GetSpot)
	r.Get("/spots/{spotId}/reviews", s.ListSpotReviews)
	r.Get("/spots/{spotId}/calendar.ics", s.GetSpotCalendar)

	r.Group(func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/spots", s.CreateSpot)
		r.Put("/spots/{spotId}", s.UpdateSpot)
		r.Delete("/spots/{spotId}", s.DeleteSpot)
		r.Post("/spots/{spotId}/images", s.AddSpotImage)
		r.Delete("/spot-images/{imageId}", s.DeleteSpotImage)

		r.Get("/spots/{spotId}/bookings", s.ListSpotBookings)
		r.Post("/spots/{spotId}/bookings", s.CreateBooking)
		r.Get("/bookings/current", s.ListCurrentUserBookings)
		r.Put("/bookings/{bookingId}", s.UpdateBooking)
		r.Delete("/bookings/{bookingId}", s.DeleteBooking)

		r.Post("/spots/{spotId}/reviews", s.CreateReview)
		r.Get("/reviews/current", s.ListCurrentUserReviews)
		r.Put("/reviews/{reviewId}", s.UpdateReview)
		r.Delete("/reviews/{reviewId}", s.DeleteReview)
		r.Post("/reviews/{reviewId}/images", s.AddReviewImage)
		r.Delete("/review-images/{imageId}", s.DeleteReviewImage)
	})

	return r
}
