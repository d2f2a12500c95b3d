package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/bnb/internal/booking"
	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/handler"
	"github.com/pkordes/bnb/internal/middleware"
)

// ---- mock servicers --------------------------------------------------------
// Set only the method fields a test needs.

type mockSpotServicer struct {
	create    func(ctx context.Context, spot domain.Spot) (domain.Spot, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Spot, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error)
	update    func(ctx context.Context, userID uuid.UUID, spot domain.Spot) (domain.Spot, error)
	delete    func(ctx context.Context, userID, id uuid.UUID) error

	addImage    func(ctx context.Context, userID uuid.UUID, img domain.SpotImage) (domain.SpotImage, error)
	deleteImage func(ctx context.Context, userID, imageID uuid.UUID) error
}

func (m *mockSpotServicer) Create(ctx context.Context, spot domain.Spot) (domain.Spot, error) {
	return m.create(ctx, spot)
}
func (m *mockSpotServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Spot, error) {
	return m.getByID(ctx, id)
}
func (m *mockSpotServicer) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error) {
	return m.listPaged(ctx, p)
}
func (m *mockSpotServicer) Update(ctx context.Context, userID uuid.UUID, spot domain.Spot) (domain.Spot, error) {
	return m.update(ctx, userID, spot)
}
func (m *mockSpotServicer) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.delete(ctx, userID, id)
}
func (m *mockSpotServicer) AddImage(ctx context.Context, userID uuid.UUID, img domain.SpotImage) (domain.SpotImage, error) {
	return m.addImage(ctx, userID, img)
}
func (m *mockSpotServicer) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	return m.deleteImage(ctx, userID, imageID)
}

var _ handler.SpotServicer = (*mockSpotServicer)(nil)

type mockBookingServicer struct {
	create      func(ctx context.Context, userID, spotID uuid.UUID, iv booking.Interval) (domain.Booking, error)
	update      func(ctx context.Context, userID, bookingID uuid.UUID, iv booking.Interval) (domain.Booking, error)
	delete      func(ctx context.Context, userID, bookingID uuid.UUID) error
	listForUser func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	listForSpot func(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error)
	calendar    func(ctx context.Context, spotID uuid.UUID) (*ical.Calendar, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, userID, spotID uuid.UUID, iv booking.Interval) (domain.Booking, error) {
	return m.create(ctx, userID, spotID, iv)
}
func (m *mockBookingServicer) Update(ctx context.Context, userID, bookingID uuid.UUID, iv booking.Interval) (domain.Booking, error) {
	return m.update(ctx, userID, bookingID, iv)
}
func (m *mockBookingServicer) Delete(ctx context.Context, userID, bookingID uuid.UUID) error {
	return m.delete(ctx, userID, bookingID)
}
func (m *mockBookingServicer) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockBookingServicer) ListForSpot(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error) {
	return m.listForSpot(ctx, spotID)
}
func (m *mockBookingServicer) Calendar(ctx context.Context, spotID uuid.UUID) (*ical.Calendar, error) {
	return m.calendar(ctx, spotID)
}

var _ handler.BookingServicer = (*mockBookingServicer)(nil)

type mockReviewServicer struct {
	create      func(ctx context.Context, rv domain.Review) (domain.Review, error)
	listForSpot func(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error)
	listForUser func(ctx context.Context, userID uuid.UUID) ([]domain.Review, error)
	update      func(ctx context.Context, userID uuid.UUID, rv domain.Review) (domain.Review, error)
	delete      func(ctx context.Context, userID, reviewID uuid.UUID) error
	addImage    func(ctx context.Context, userID, reviewID uuid.UUID, url string) (domain.ReviewImage, error)
	deleteImage func(ctx context.Context, userID, imageID uuid.UUID) error
}

func (m *mockReviewServicer) Create(ctx context.Context, rv domain.Review) (domain.Review, error) {
	return m.create(ctx, rv)
}
func (m *mockReviewServicer) ListForSpot(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error) {
	return m.listForSpot(ctx, spotID)
}
func (m *mockReviewServicer) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error) {
	return m.listForUser(ctx, userID)
}
func (m *mockReviewServicer) Update(ctx context.Context, userID uuid.UUID, rv domain.Review) (domain.Review, error) {
	return m.update(ctx, userID, rv)
}
func (m *mockReviewServicer) Delete(ctx context.Context, userID, reviewID uuid.UUID) error {
	return m.delete(ctx, userID, reviewID)
}
func (m *mockReviewServicer) AddImage(ctx context.Context, userID, reviewID uuid.UUID, url string) (domain.ReviewImage, error) {
	return m.addImage(ctx, userID, reviewID, url)
}
func (m *mockReviewServicer) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	return m.deleteImage(ctx, userID, imageID)
}

var _ handler.ReviewServicer = (*mockReviewServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var testSecret = []byte("handler-test-secret")

// newHTTPHandler wires a Server with the given mocks into its router behind
// the real bearer-token authenticator, as main wires it in production.
// Nil servicers are replaced by empty mocks.
func newHTTPHandler(spots *mockSpotServicer, bookings *mockBookingServicer, reviews *mockReviewServicer) http.Handler {
	if spots == nil {
		spots = &mockSpotServicer{}
	}
	if bookings == nil {
		bookings = &mockBookingServicer{}
	}
	if reviews == nil {
		reviews = &mockReviewServicer{}
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := handler.NewServer(spots, bookings, reviews, log)
	return srv.Routes(middleware.NewAuthenticator(testSecret))
}

// do sends a request as userID (uuid.Nil for anonymous) and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, userID uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			r = bytes.NewBufferString(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			r = bytes.NewBuffer(b)
		}
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if userID != uuid.Nil {
		token, err := middleware.IssueToken(testSecret, userID, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

type errorEnvelope struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}
