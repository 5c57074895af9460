package review

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	args := m.Called(ctx, rv)
	if rv != nil {
		rv.ID = 555
	}
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ExistsForBooking(ctx context.Context, bookingID int64) (bool, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ListByMechanic(ctx context.Context, mechanicID int64, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, mechanicID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) AverageRating(ctx context.Context, mechanicID int64) (float64, error) {
	args := m.Called(ctx, mechanicID)
	return args.Get(0).(float64), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockMechanicRepository struct {
	mock.Mock
}

func (m *MockMechanicRepository) SetRating(ctx context.Context, mechanicID int64, rating float64) error {
	args := m.Called(ctx, mechanicID, rating)
	return args.Error(0)
}

func newTestService() (*Service, *MockReviewRepository, *MockBookingRepository, *MockMechanicRepository) {
	reviews := new(MockReviewRepository)
	bookings := new(MockBookingRepository)
	mechanics := new(MockMechanicRepository)
	return NewService(reviews, bookings, mechanics), reviews, bookings, mechanics
}

func paidBooking() *domain.Booking {
	return &domain.Booking{
		ID: 5, UserID: 1, MechanicID: 10,
		Status:        domain.BookingCompleted,
		PaymentStatus: domain.PaymentCompleted,
	}
}

func TestCreateReviewHappyPath(t *testing.T) {
	svc, reviews, bookings, mechanics := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(paidBooking(), nil)
	reviews.On("ExistsForBooking", mock.Anything, int64(5)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)
	reviews.On("AverageRating", mock.Anything, int64(10)).Return(4.5, nil)
	mechanics.On("SetRating", mock.Anything, int64(10), 4.5).Return(nil)

	rv, err := svc.Create(context.Background(), 1, CreateRequest{
		BookingID: domain.NewBookingRef(5), Rating: 5, Comment: "fast and friendly",
	})
	assert.NoError(t, err)
	assert.True(t, rv.BookingID.Matches(5))
	assert.True(t, rv.Verified)
	mechanics.AssertExpectations(t)
}

func TestCreateReviewAfterDeclinedPayment(t *testing.T) {
	// declining payment still unlocks rating, but the review is unverified
	svc, reviews, bookings, mechanics := newTestService()

	b := paidBooking()
	b.PaymentStatus = domain.PaymentDeclined
	bookings.On("GetByID", mock.Anything, int64(5)).Return(b, nil)
	reviews.On("ExistsForBooking", mock.Anything, int64(5)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)
	reviews.On("AverageRating", mock.Anything, int64(10)).Return(2.0, nil)
	mechanics.On("SetRating", mock.Anything, int64(10), 2.0).Return(nil)

	rv, err := svc.Create(context.Background(), 1, CreateRequest{
		BookingID: domain.NewBookingRef(5), Rating: 2,
	})
	assert.NoError(t, err)
	assert.False(t, rv.Verified)
}

func TestCreateReviewBlockedWhilePaymentPending(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	b := paidBooking()
	b.PaymentStatus = domain.PaymentPending
	bookings.On("GetByID", mock.Anything, int64(5)).Return(b, nil)

	_, err := svc.Create(context.Background(), 1, CreateRequest{
		BookingID: domain.NewBookingRef(5), Rating: 4,
	})
	assert.ErrorIs(t, err, ErrNotReviewable)
}

func TestCreateReviewBlockedBeforeCompletion(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	b := paidBooking()
	b.Status = domain.BookingInProgress
	bookings.On("GetByID", mock.Anything, int64(5)).Return(b, nil)

	_, err := svc.Create(context.Background(), 1, CreateRequest{
		BookingID: domain.NewBookingRef(5), Rating: 4,
	})
	assert.ErrorIs(t, err, ErrNotReviewable)
}

func TestCreateReviewOnlyOncePerBooking(t *testing.T) {
	svc, reviews, bookings, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(paidBooking(), nil)
	reviews.On("ExistsForBooking", mock.Anything, int64(5)).Return(true, nil)

	_, err := svc.Create(context.Background(), 1, CreateRequest{
		BookingID: domain.NewBookingRef(5), Rating: 4,
	})
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
	reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateReviewOwnershipEnforced(t *testing.T) {
	svc, _, bookings, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(paidBooking(), nil)

	_, err := svc.Create(context.Background(), 99, CreateRequest{
		BookingID: domain.NewBookingRef(5), Rating: 4,
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCreateReviewValidatesRating(t *testing.T) {
	svc, _, _, _ := newTestService()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.Create(context.Background(), 1, CreateRequest{
			BookingID: domain.NewBookingRef(5), Rating: rating,
		})
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestCreateReviewExpandedRefPayload(t *testing.T) {
	// the booking reference may arrive as an expanded object; the ref
	// normalizes it before the service sees it
	svc, reviews, bookings, mechanics := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(paidBooking(), nil)
	reviews.On("ExistsForBooking", mock.Anything, int64(5)).Return(false, nil)
	reviews.On("Create", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)
	reviews.On("AverageRating", mock.Anything, int64(10)).Return(5.0, nil)
	mechanics.On("SetRating", mock.Anything, int64(10), 5.0).Return(nil)

	var ref domain.BookingRef
	assert.NoError(t, ref.UnmarshalJSON([]byte(`{"_id": 5}`)))

	rv, err := svc.Create(context.Background(), 1, CreateRequest{BookingID: ref, Rating: 5})
	assert.NoError(t, err)
	assert.True(t, rv.BookingID.Matches(5))
}

func TestDeleteRecomputesRating(t *testing.T) {
	svc, reviews, _, mechanics := newTestService()

	reviews.On("GetByID", mock.Anything, int64(555)).Return(&domain.Review{
		ID: 555, UserID: 1, MechanicID: 10,
	}, nil)
	reviews.On("Delete", mock.Anything, int64(555)).Return(nil)
	reviews.On("AverageRating", mock.Anything, int64(10)).Return(0.0, nil)
	mechanics.On("SetRating", mock.Anything, int64(10), 0.0).Return(nil)

	assert.NoError(t, svc.Delete(context.Background(), 555, 1))
	mechanics.AssertExpectations(t)
}

func TestDeleteOnlyOwn(t *testing.T) {
	svc, reviews, _, _ := newTestService()

	reviews.On("GetByID", mock.Anything, int64(555)).Return(&domain.Review{
		ID: 555, UserID: 2, MechanicID: 10,
	}, nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), 555, 1), ErrForbidden)
}

func TestDeleteNotFound(t *testing.T) {
	svc, reviews, _, _ := newTestService()

	reviews.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 404, 1), ErrNotFound)
}
