package service_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/bnb/internal/domain"
	"github.com/pkordes/bnb/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which flags an
// unexpected call.

type mockSpotRepo struct {
	create    func(ctx context.Context, spot domain.Spot) (domain.Spot, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Spot, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error)
	update    func(ctx context.Context, spot domain.Spot) (domain.Spot, error)
	delete    func(ctx context.Context, id uuid.UUID) error

	addImage    func(ctx context.Context, img domain.SpotImage) (domain.SpotImage, error)
	getImage    func(ctx context.Context, id uuid.UUID) (domain.SpotImage, error)
	deleteImage func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSpotRepo) Create(ctx context.Context, spot domain.Spot) (domain.Spot, error) {
	return m.create(ctx, spot)
}
func (m *mockSpotRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Spot, error) {
	return m.getByID(ctx, id)
}
func (m *mockSpotRepo) ListPaged(ctx context.Context, p domain.PaginationParams) (domain.Page[domain.Spot], error) {
	return m.listPaged(ctx, p)
}
func (m *mockSpotRepo) Update(ctx context.Context, spot domain.Spot) (domain.Spot, error) {
	return m.update(ctx, spot)
}
func (m *mockSpotRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockSpotRepo) AddImage(ctx context.Context, img domain.SpotImage) (domain.SpotImage, error) {
	return m.addImage(ctx, img)
}
func (m *mockSpotRepo) GetImage(ctx context.Context, id uuid.UUID) (domain.SpotImage, error) {
	return m.getImage(ctx, id)
}
func (m *mockSpotRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return m.deleteImage(ctx, id)
}

var _ repo.SpotRepo = (*mockSpotRepo)(nil)

// spotsReturning is a mockSpotRepo whose GetByID always yields spot.
func spotsReturning(spot domain.Spot) *mockSpotRepo {
	return &mockSpotRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Spot, error) {
			if id != spot.ID {
				return domain.Spot{}, domain.ErrNotFound
			}
			return spot, nil
		},
	}
}

type mockBookingRepo struct {
	create     func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.Booking, error)
	listBySpot func(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error)
	listByUser func(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)
	update     func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	delete     func(ctx context.Context, id uuid.UUID) error
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]domain.Booking, error) {
	return m.listBySpot(ctx, spotID)
}
func (m *mockBookingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockBookingRepo) Update(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.update(ctx, b)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

// mockLocker runs fn directly against bookings and records which spots were
// locked.
type mockLocker struct {
	bookings repo.BookingRepo
	locked   []uuid.UUID
}

func (m *mockLocker) WithSpotLock(ctx context.Context, spotID uuid.UUID, fn func(ctx context.Context, bookings repo.BookingRepo) error) error {
	m.locked = append(m.locked, spotID)
	return fn(ctx, m.bookings)
}

var _ repo.SpotLocker = (*mockLocker)(nil)

type mockReviewRepo struct {
	create      func(ctx context.Context, r domain.Review) (domain.Review, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Review, error)
	listBySpot  func(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error)
	listByUser  func(ctx context.Context, userID uuid.UUID) ([]domain.Review, error)
	update      func(ctx context.Context, r domain.Review) (domain.Review, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	countImages func(ctx context.Context, reviewID uuid.UUID) (int, error)
	addImage    func(ctx context.Context, reviewID uuid.UUID, url string) (domain.ReviewImage, error)
	getImage    func(ctx context.Context, id uuid.UUID) (domain.ReviewImage, error)
	deleteImage func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReviewRepo) Create(ctx context.Context, r domain.Review) (domain.Review, error) {
	return m.create(ctx, r)
}
func (m *mockReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Review, error) {
	return m.getByID(ctx, id)
}
func (m *mockReviewRepo) ListBySpot(ctx context.Context, spotID uuid.UUID) ([]domain.Review, error) {
	return m.listBySpot(ctx, spotID)
}
func (m *mockReviewRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Review, error) {
	return m.listByUser(ctx, userID)
}
func (m *mockReviewRepo) Update(ctx context.Context, r domain.Review) (domain.Review, error) {
	return m.update(ctx, r)
}
func (m *mockReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockReviewRepo) CountImages(ctx context.Context, reviewID uuid.UUID) (int, error) {
	return m.countImages(ctx, reviewID)
}
func (m *mockReviewRepo) AddImage(ctx context.Context, reviewID uuid.UUID, url string) (domain.ReviewImage, error) {
	return m.addImage(ctx, reviewID, url)
}
func (m *mockReviewRepo) GetImage(ctx context.Context, id uuid.UUID) (domain.ReviewImage, error) {
	return m.getImage(ctx, id)
}
func (m *mockReviewRepo) DeleteImage(ctx context.Context, id uuid.UUID) error {
	return m.deleteImage(ctx, id)
}

var _ repo.ReviewRepo = (*mockReviewRepo)(nil)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
