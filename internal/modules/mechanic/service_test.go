package mechanic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"roadassist/internal/dispatch"
	"roadassist/internal/domain"
	"roadassist/internal/geo"
	"roadassist/internal/realtime"
	"roadassist/internal/repository"
)

type MockMechanicRepository struct {
	mock.Mock
}

func (m *MockMechanicRepository) GetByID(ctx context.Context, id int64) (*domain.MechanicProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MechanicProfile), args.Error(1)
}

func (m *MockMechanicRepository) GetByUserID(ctx context.Context, userID int64) (*domain.MechanicProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MechanicProfile), args.Error(1)
}

func (m *MockMechanicRepository) Update(ctx context.Context, p *domain.MechanicProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockMechanicRepository) SetAvailability(ctx context.Context, userID int64, available bool) error {
	args := m.Called(ctx, userID, available)
	return args.Error(0)
}

func (m *MockMechanicRepository) UpdateLocation(ctx context.Context, userID int64, lat, lng float64) error {
	args := m.Called(ctx, userID, lat, lng)
	return args.Error(0)
}

func (m *MockMechanicRepository) IncrementTotalJobs(ctx context.Context, mechanicID int64) error {
	args := m.Called(ctx, mechanicID)
	return args.Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByMechanic(ctx context.Context, mechanicID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, mechanicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListActiveByMechanic(ctx context.Context, mechanicID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, mechanicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountActiveByMechanic(ctx context.Context, mechanicID int64) (int64, error) {
	args := m.Called(ctx, mechanicID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) ListCompletedByMechanicSince(ctx context.Context, mechanicID int64, since time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, mechanicID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) Complete(ctx context.Context, id int64, totalCost float64) error {
	args := m.Called(ctx, id, totalCost)
	return args.Error(0)
}

type MockRequestRepository struct {
	mock.Mock
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ServiceRequest), args.Error(1)
}

func (m *MockRequestRepository) Claim(ctx context.Context, requestID, mechanicUserID int64) error {
	args := m.Called(ctx, requestID, mechanicUserID)
	return args.Error(0)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockRequestRepository) ListPending(ctx context.Context) ([]domain.ServiceRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ServiceRequest), args.Error(1)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) ListByMechanic(ctx context.Context, mechanicID int64, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, mechanicID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

type fakeNotifier struct {
	unavailable []int64
	accepted    []int64
	updated     []int64
	completed   []int64
	locations   []int64
}

func (f *fakeNotifier) NotifyNewRequest(*domain.ServiceRequest) {}
func (f *fakeNotifier) NotifyRequestUnavailable(requestID int64) {
	f.unavailable = append(f.unavailable, requestID)
}
func (f *fakeNotifier) NotifyRequestAccepted(userID int64, _ *domain.MechanicProfile, _ *domain.Booking) {
	f.accepted = append(f.accepted, userID)
}
func (f *fakeNotifier) NotifyBookingUpdated(_ int64, b *domain.Booking) {
	f.updated = append(f.updated, b.ID)
}
func (f *fakeNotifier) NotifyBookingCompleted(_ int64, b *domain.Booking) {
	f.completed = append(f.completed, b.ID)
}
func (f *fakeNotifier) NotifyMechanicLocation(_ int64, bookingID int64, _, _ float64) {
	f.locations = append(f.locations, bookingID)
}

type testEnv struct {
	svc       *Service
	mechanics *MockMechanicRepository
	bookings  *MockBookingRepository
	requests  *MockRequestRepository
	reviews   *MockReviewRepository
	notifier  *fakeNotifier
	pool      *dispatch.Pool
}

func newTestEnv() *testEnv {
	env := &testEnv{
		mechanics: new(MockMechanicRepository),
		bookings:  new(MockBookingRepository),
		requests:  new(MockRequestRepository),
		reviews:   new(MockReviewRepository),
		notifier:  &fakeNotifier{},
		pool:      dispatch.NewPool(),
	}
	env.svc = NewService(
		env.mechanics, env.bookings, env.requests, env.reviews,
		geo.NewIndex(), env.notifier, env.pool, time.Hour,
	)
	return env
}

func verifiedProfile() *domain.MechanicProfile {
	return &domain.MechanicProfile{ID: 10, UserID: 2, ShopName: "Torres Roadside", IsVerified: true}
}

func TestAcceptRequestHappyPath(t *testing.T) {
	env := newTestEnv()
	env.pool.Prepend(domain.ServiceRequest{ID: 77})

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("ListActiveByMechanic", mock.Anything, int64(10)).Return([]domain.Booking{}, nil)
	env.requests.On("GetByID", mock.Anything, int64(77)).Return(&domain.ServiceRequest{
		ID: 77, UserID: 1, Title: "Flat tire", Status: domain.RequestPending,
	}, nil)
	env.requests.On("Claim", mock.Anything, int64(77), int64(2)).Return(nil)
	env.bookings.On("Create", mock.Anything, mock.AnythingOfType("*domain.Booking")).Return(nil)

	b, err := env.svc.AcceptRequest(context.Background(), 2, 77)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingScheduled, b.Status)
	assert.Equal(t, int64(1), b.UserID)
	assert.Equal(t, int64(10), b.MechanicID)

	// the request leaves the pool and everyone hears about it
	assert.False(t, env.pool.Contains(77))
	assert.Equal(t, []int64{77}, env.notifier.unavailable)
	assert.Equal(t, []int64{1}, env.notifier.accepted)
}

func TestAcceptRequestBlockedByOpenJob(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("ListActiveByMechanic", mock.Anything, int64(10)).Return([]domain.Booking{
		{ID: 5, Status: domain.BookingArrived},
	}, nil)

	_, err := env.svc.AcceptRequest(context.Background(), 2, 77)
	assert.ErrorIs(t, err, dispatch.ErrJobInProgress)
	env.requests.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything)
}

func TestAcceptRequestLosesRace(t *testing.T) {
	env := newTestEnv()
	env.pool.Prepend(domain.ServiceRequest{ID: 77})

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("ListActiveByMechanic", mock.Anything, int64(10)).Return([]domain.Booking{}, nil)
	env.requests.On("GetByID", mock.Anything, int64(77)).Return(&domain.ServiceRequest{
		ID: 77, UserID: 1, Status: domain.RequestPending,
	}, nil)
	env.requests.On("Claim", mock.Anything, int64(77), int64(2)).Return(repository.ErrAlreadyTaken)

	_, err := env.svc.AcceptRequest(context.Background(), 2, 77)
	assert.ErrorIs(t, err, ErrRequestGone)

	// losing the race still removes the request locally, and the removal sticks
	assert.False(t, env.pool.Contains(77))
	env.pool.Prepend(domain.ServiceRequest{ID: 77})
	assert.False(t, env.pool.Contains(77))

	env.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAcceptRequestRequiresVerification(t *testing.T) {
	env := newTestEnv()

	p := verifiedProfile()
	p.IsVerified = false
	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(p, nil)

	_, err := env.svc.AcceptRequest(context.Background(), 2, 77)
	assert.ErrorIs(t, err, ErrNotVerified)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, MechanicID: 10, Status: domain.BookingScheduled,
	}, nil)
	env.bookings.On("UpdateStatus", mock.Anything, int64(5), domain.BookingEnRoute).Return(nil)

	b, err := env.svc.UpdateStatus(context.Background(), 2, 5, domain.BookingEnRoute)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingEnRoute, b.Status)
	assert.Equal(t, []int64{5}, env.notifier.updated)
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, MechanicID: 10, Status: domain.BookingScheduled,
	}, nil)

	_, err := env.svc.UpdateStatus(context.Background(), 2, 5, domain.BookingArrived)
	assert.ErrorIs(t, err, dispatch.ErrInvalidTransition)
	env.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatusCompletionGoesThroughComplete(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, MechanicID: 10, Status: domain.BookingInProgress,
	}, nil)

	_, err := env.svc.UpdateStatus(context.Background(), 2, 5, domain.BookingCompleted)
	assert.ErrorIs(t, err, dispatch.ErrInvalidTransition)
}

func TestUpdateStatusOwnershipEnforced(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, MechanicID: 99, Status: domain.BookingScheduled,
	}, nil)

	_, err := env.svc.UpdateStatus(context.Background(), 2, 5, domain.BookingEnRoute)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCompleteHappyPath(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, RequestID: 77, MechanicID: 10, Status: domain.BookingInProgress,
	}, nil)
	env.bookings.On("Complete", mock.Anything, int64(5), 150.0).Return(nil)
	env.requests.On("UpdateStatus", mock.Anything, int64(77), domain.RequestCompleted).Return(nil)
	env.mechanics.On("IncrementTotalJobs", mock.Anything, int64(10)).Return(nil)

	b, err := env.svc.Complete(context.Background(), 2, 5, 150)
	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCompleted, b.Status)
	assert.Equal(t, 150.0, b.TotalCost)
	assert.Equal(t, domain.PaymentPending, b.PaymentStatus)
	assert.Equal(t, []int64{5}, env.notifier.completed)
	env.mechanics.AssertExpectations(t)
}

func TestCompleteRejectsBadCost(t *testing.T) {
	env := newTestEnv()

	for _, cost := range []float64{0, -10} {
		_, err := env.svc.Complete(context.Background(), 2, 5, cost)
		assert.ErrorIs(t, err, dispatch.ErrInvalidCost)
	}
	env.bookings.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteRejectsFromEnRoute(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByUserID", mock.Anything, int64(2)).Return(verifiedProfile(), nil)
	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, MechanicID: 10, Status: domain.BookingEnRoute,
	}, nil)

	_, err := env.svc.Complete(context.Background(), 2, 5, 150)
	assert.ErrorIs(t, err, dispatch.ErrInvalidTransition)
}

func TestHandleLocationForwardsAndIndexes(t *testing.T) {
	env := newTestEnv()

	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, MechanicID: 10, Status: domain.BookingEnRoute,
		Mechanic: verifiedProfile(),
	}, nil)
	env.mechanics.On("UpdateLocation", mock.Anything, int64(2), 40.75, -73.98).Return(nil)

	ping := realtime.LocationPing{BookingID: 5, UserID: 1}
	ping.Location.Latitude = 40.75
	ping.Location.Longitude = -73.98
	env.svc.HandleLocation(ping)

	assert.Equal(t, []int64{5}, env.notifier.locations)
}

func TestHandleLocationIgnoresSettledBooking(t *testing.T) {
	env := newTestEnv()

	env.bookings.On("GetByID", mock.Anything, int64(5)).Return(&domain.Booking{
		ID: 5, UserID: 1, Status: domain.BookingCompleted,
	}, nil)

	env.svc.HandleLocation(realtime.LocationPing{BookingID: 5})
	assert.Empty(t, env.notifier.locations)
}

func TestProfileNotFound(t *testing.T) {
	env := newTestEnv()

	env.mechanics.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := env.svc.Profile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
