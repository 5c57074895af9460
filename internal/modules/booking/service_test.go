package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"roadassist/internal/domain"
	"roadassist/internal/lifecycle"
)

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

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, method string) error {
	args := m.Called(ctx, id, status, method)
	return args.Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Review, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type fakeNotifier struct {
	updated   []int64
	completed []int64
}

func (f *fakeNotifier) NotifyNewRequest(*domain.ServiceRequest)      {}
func (f *fakeNotifier) NotifyRequestUnavailable(int64)               {}
func (f *fakeNotifier) NotifyRequestAccepted(int64, *domain.MechanicProfile, *domain.Booking) {}
func (f *fakeNotifier) NotifyBookingUpdated(userID int64, b *domain.Booking) {
	f.updated = append(f.updated, b.ID)
}
func (f *fakeNotifier) NotifyBookingCompleted(userID int64, b *domain.Booking) {
	f.completed = append(f.completed, b.ID)
}
func (f *fakeNotifier) NotifyMechanicLocation(int64, int64, float64, float64) {}

func newTestService() (*Service, *MockBookingRepository, *MockReviewRepository, *MockRequestRepository, *fakeNotifier) {
	bookings := new(MockBookingRepository)
	reviews := new(MockReviewRepository)
	requests := new(MockRequestRepository)
	notifier := &fakeNotifier{}
	return NewService(bookings, reviews, requests, notifier), bookings, reviews, requests, notifier
}

func TestActiveResolvesNewestActionable(t *testing.T) {
	svc, bookings, reviews, _, _ := newTestService()

	bookings.On("ListByUser", mock.Anything, int64(1)).Return([]domain.Booking{
		{ID: 9, UserID: 1, Status: domain.BookingEnRoute},
		{ID: 8, UserID: 1, Status: domain.BookingCompleted, PaymentStatus: domain.PaymentCompleted},
	}, nil)
	reviews.On("ListByUser", mock.Anything, int64(1)).Return([]domain.Review{}, nil)

	active, err := svc.Active(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, int64(9), active.Booking.ID)
	assert.Equal(t, lifecycle.ActionAwaitTracking, active.Action)
}

func TestActiveNothingLeft(t *testing.T) {
	svc, bookings, reviews, _, _ := newTestService()

	bookings.On("ListByUser", mock.Anything, int64(1)).Return([]domain.Booking{
		{ID: 8, UserID: 1, Status: domain.BookingCompleted, PaymentStatus: domain.PaymentCompleted},
	}, nil)
	reviews.On("ListByUser", mock.Anything, int64(1)).Return([]domain.Review{
		{BookingID: domain.NewBookingRef(8)},
	}, nil)

	active, err := svc.Active(context.Background(), 1)
	assert.NoError(t, err)
	assert.Nil(t, active.Booking)
	assert.Equal(t, lifecycle.ActionNone, active.Action)
}

func TestProcessPaymentHappyPath(t *testing.T) {
	svc, bookings, _, _, notifier := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingCompleted,
		TotalCost: 120, PaymentStatus: domain.PaymentPending,
	}, nil)
	bookings.On("UpdatePayment", mock.Anything, int64(5), domain.PaymentCompleted, "card").Return(nil)

	b, err := svc.ProcessPayment(context.Background(), 5, 1, PaymentRequest{Amount: 120, Method: "card"})
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, b.PaymentStatus)
	assert.Equal(t, []int64{5}, notifier.updated)
	bookings.AssertExpectations(t)
}

func TestProcessPaymentAmountMustMatch(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingCompleted,
		TotalCost: 120, PaymentStatus: domain.PaymentPending,
	}, nil)

	_, err := svc.ProcessPayment(context.Background(), 5, 1, PaymentRequest{Amount: 100})
	assert.ErrorIs(t, err, ErrAmountMismatch)
	bookings.AssertNotCalled(t, "UpdatePayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessPaymentRejectsUnsettledStates(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingInProgress,
	}, nil).Once()
	_, err := svc.ProcessPayment(context.Background(), 5, 1, PaymentRequest{Amount: 120})
	assert.ErrorIs(t, err, ErrNotCompleted)

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingCompleted,
		TotalCost: 120, PaymentStatus: domain.PaymentCompleted,
	}, nil).Once()
	_, err = svc.ProcessPayment(context.Background(), 5, 1, PaymentRequest{Amount: 120})
	assert.ErrorIs(t, err, ErrAlreadySettled)
}

func TestProcessPaymentOwnershipEnforced(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 2, Status: domain.BookingCompleted, TotalCost: 120,
	}, nil)

	_, err := svc.ProcessPayment(context.Background(), 5, 1, PaymentRequest{Amount: 120})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeclinePaymentResolvesObligation(t *testing.T) {
	svc, bookings, _, _, notifier := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingCompleted,
		TotalCost: 120, PaymentStatus: domain.PaymentPending,
	}, nil)
	bookings.On("UpdatePayment", mock.Anything, int64(5), domain.PaymentDeclined, "").Return(nil)

	b, err := svc.DeclinePayment(context.Background(), 5, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentDeclined, b.PaymentStatus)
	assert.Equal(t, []int64{5}, notifier.updated)
}

func TestCancelReleasesRequest(t *testing.T) {
	svc, bookings, _, requests, notifier := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, RequestID: 77, Status: domain.BookingEnRoute,
	}, nil)
	bookings.On("UpdateStatus", mock.Anything, int64(5), domain.BookingCancelled).Return(nil)
	requests.On("UpdateStatus", mock.Anything, int64(77), domain.RequestCancelled).Return(nil)

	b, err := svc.Cancel(context.Background(), 5, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	assert.Equal(t, []int64{5}, notifier.updated)
	requests.AssertExpectations(t)
}

func TestCancelRefusedOnceWorkStarted(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingInProgress,
	}, nil)

	_, err := svc.Cancel(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrNotCancellable)
}

func TestGetNotFound(t *testing.T) {
	svc, bookings, _, _, _ := newTestService()

	bookings.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), 404, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
