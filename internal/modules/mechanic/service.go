package mechanic

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"roadassist/internal/dispatch"
	"roadassist/internal/domain"
	"roadassist/internal/geo"
	"roadassist/internal/observability"
	"roadassist/internal/realtime"
	"roadassist/internal/repository"
)

type Service struct {
	mechanics MechanicRepository
	bookings  BookingRepository
	requests  RequestRepository
	reviews   ReviewRepository
	locator   geo.Locator
	notifier  realtime.Notifier
	pool      *dispatch.Pool

	tickPeriod time.Duration

	mu      sync.Mutex
	tickers map[int64]*dispatch.LocationTicker // keyed by booking id
	lastPos map[int64]position                 // keyed by booking id
}

type position struct {
	userID   int64
	lat, lng float64
}

func NewService(
	mechanics MechanicRepository,
	bookings BookingRepository,
	requests RequestRepository,
	reviews ReviewRepository,
	locator geo.Locator,
	notifier realtime.Notifier,
	pool *dispatch.Pool,
	tickPeriod time.Duration,
) *Service {
	if tickPeriod <= 0 {
		tickPeriod = dispatch.DefaultLocationPeriod
	}
	return &Service{
		mechanics:  mechanics,
		bookings:   bookings,
		requests:   requests,
		reviews:    reviews,
		locator:    locator,
		notifier:   notifier,
		pool:       pool,
		tickPeriod: tickPeriod,
		tickers:    make(map[int64]*dispatch.LocationTicker),
		lastPos:    make(map[int64]position),
	}
}

func (s *Service) Profile(ctx context.Context, id int64) (*domain.MechanicProfile, error) {
	p, err := s.mechanics.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) ProfileByUser(ctx context.Context, userID int64) (*domain.MechanicProfile, error) {
	p, err := s.mechanics.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.MechanicProfile, error) {
	p, err := s.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.ShopName != "" {
		p.ShopName = req.ShopName
	}
	if req.ShopAddress != "" {
		p.ShopAddress = req.ShopAddress
	}
	if req.YearsOfExperience != nil {
		p.YearsOfExperience = *req.YearsOfExperience
	}
	if req.Skills != nil {
		p.Skills = req.Skills
	}

	if err := s.mechanics.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SetAvailability flips whether the mechanic is offered work. Going
// unavailable also drops them from the live position index so travelers stop
// seeing them as nearby.
func (s *Service) SetAvailability(ctx context.Context, userID int64, available bool) error {
	if _, err := s.ProfileByUser(ctx, userID); err != nil {
		return err
	}
	if err := s.mechanics.SetAvailability(ctx, userID, available); err != nil {
		return err
	}
	if !available {
		return s.locator.Remove(ctx, userID)
	}
	return nil
}

// AcceptRequest claims a pending request for the mechanic. The sequence is:
// a local gate on the mechanic's open job, then the database's conditional
// claim, and only on success a new scheduled booking plus notifications. The
// request leaves the shared pool no matter which mechanic won.
func (s *Service) AcceptRequest(ctx context.Context, mechanicUserID, requestID int64) (*domain.Booking, error) {
	p, err := s.ProfileByUser(ctx, mechanicUserID)
	if err != nil {
		return nil, err
	}
	if !p.IsVerified {
		return nil, ErrNotVerified
	}

	active, err := s.bookings.ListActiveByMechanic(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if err := dispatch.CheckAccept(dispatch.CurrentJob(active)); err != nil {
		return nil, err
	}

	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestGone
		}
		return nil, err
	}

	if err := s.requests.Claim(ctx, requestID, mechanicUserID); err != nil {
		if errors.Is(err, repository.ErrAlreadyTaken) {
			observability.AcceptConflicts.Inc()
			s.pool.Remove(requestID)
			return nil, ErrRequestGone
		}
		return nil, err
	}

	b := &domain.Booking{
		RequestID:          req.ID,
		UserID:             req.UserID,
		MechanicID:         p.ID,
		ServiceDescription: req.Title,
		Status:             domain.BookingScheduled,
		BookingDate:        time.Now(),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	b.Mechanic = p

	s.pool.Remove(requestID)
	s.notifier.NotifyRequestUnavailable(requestID)
	s.notifier.NotifyRequestAccepted(req.UserID, p, b)
	observability.RequestsAccepted.Inc()
	return b, nil
}

// UpdateStatus advances the mechanic's booking along the job state machine
// and keeps the periodic location announcement in step with it: ticking while
// driving or waiting on site, silent otherwise.
func (s *Service) UpdateStatus(ctx context.Context, mechanicUserID, bookingID int64, to domain.BookingStatus) (*domain.Booking, error) {
	b, _, err := s.ownedBooking(ctx, mechanicUserID, bookingID)
	if err != nil {
		return nil, err
	}

	if !dispatch.CanTransition(b.Status, to) {
		return nil, dispatch.ErrInvalidTransition
	}
	if to == domain.BookingCompleted {
		// completion carries a cost and goes through Complete
		return nil, dispatch.ErrInvalidTransition
	}

	if err := s.bookings.UpdateStatus(ctx, bookingID, to); err != nil {
		return nil, err
	}
	b.Status = to

	s.syncTicker(b)
	s.notifier.NotifyBookingUpdated(b.UserID, b)

	if to == domain.BookingCancelled && b.RequestID != 0 {
		if err := s.requests.UpdateStatus(ctx, b.RequestID, domain.RequestCancelled); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Complete finishes the job with its final cost and opens the payment leg.
func (s *Service) Complete(ctx context.Context, mechanicUserID, bookingID int64, totalCost float64) (*domain.Booking, error) {
	if err := dispatch.ValidateCompletionCost(totalCost); err != nil {
		return nil, err
	}

	b, p, err := s.ownedBooking(ctx, mechanicUserID, bookingID)
	if err != nil {
		return nil, err
	}
	if !dispatch.CanTransition(b.Status, domain.BookingCompleted) {
		return nil, dispatch.ErrInvalidTransition
	}

	if err := s.bookings.Complete(ctx, bookingID, totalCost); err != nil {
		return nil, err
	}
	if b.RequestID != 0 {
		if err := s.requests.UpdateStatus(ctx, b.RequestID, domain.RequestCompleted); err != nil {
			return nil, err
		}
	}
	if err := s.mechanics.IncrementTotalJobs(ctx, p.ID); err != nil {
		return nil, err
	}

	b.Status = domain.BookingCompleted
	b.TotalCost = totalCost
	b.PaymentStatus = domain.PaymentPending

	s.syncTicker(b)
	s.notifier.NotifyBookingCompleted(b.UserID, b)
	observability.BookingsCompleted.Inc()
	return b, nil
}

func (s *Service) Bookings(ctx context.Context, mechanicUserID int64) ([]domain.Booking, error) {
	p, err := s.ProfileByUser(ctx, mechanicUserID)
	if err != nil {
		return nil, err
	}
	return s.bookings.ListByMechanic(ctx, p.ID)
}

// Dashboard assembles the mechanic's working view in one call.
func (s *Service) Dashboard(ctx context.Context, mechanicUserID int64) (*Dashboard, error) {
	p, err := s.ProfileByUser(ctx, mechanicUserID)
	if err != nil {
		return nil, err
	}

	pending := s.pool.Snapshot()
	if len(pending) == 0 {
		if pending, err = s.requests.ListPending(ctx); err != nil {
			return nil, err
		}
	}

	active, err := s.bookings.ListActiveByMechanic(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	startOfDay := time.Now().Truncate(24 * time.Hour)
	todays, err := s.bookings.ListCompletedByMechanicSince(ctx, p.ID, startOfDay)
	if err != nil {
		return nil, err
	}

	recent, err := s.reviews.ListByMechanic(ctx, p.ID, 5)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Mechanic:        p,
		PendingRequests: pending,
		CurrentJob:      dispatch.CurrentJob(active),
		TodaysJobs:      todays,
		RecentReviews:   recent,
	}, nil
}

// HandleLocation ingests one live position ping from the websocket. It
// refreshes the geo index, forwards the position to whoever is tracking the
// booking, and remembers it so the ticker can re-announce between pings.
func (s *Service) HandleLocation(ping realtime.LocationPing) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b, err := s.bookings.GetByID(ctx, ping.BookingID)
	if err != nil {
		return
	}
	if !b.Status.IsActive() {
		return
	}

	lat, lng := ping.Location.Latitude, ping.Location.Longitude

	if b.Mechanic != nil {
		_ = s.locator.Upsert(ctx, geo.Position{ID: b.Mechanic.UserID, Latitude: lat, Longitude: lng})
		_ = s.mechanics.UpdateLocation(ctx, b.Mechanic.UserID, lat, lng)
	}

	s.mu.Lock()
	s.lastPos[b.ID] = position{userID: b.UserID, lat: lat, lng: lng}
	s.mu.Unlock()

	s.notifier.NotifyMechanicLocation(b.UserID, b.ID, lat, lng)
	observability.LocationPings.Inc()
}

// syncTicker starts or stops the periodic re-announcement for a booking
// according to its status. Only en_route and arrived jobs tick.
func (s *Service) syncTicker(b *domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticking := b.Status == domain.BookingEnRoute || b.Status == domain.BookingArrived
	t, exists := s.tickers[b.ID]

	if !ticking {
		if exists {
			t.Stop()
			delete(s.tickers, b.ID)
			delete(s.lastPos, b.ID)
		}
		return
	}

	if exists {
		return
	}

	t = dispatch.NewLocationTicker(s.tickPeriod)
	s.tickers[b.ID] = t
	bookingID := b.ID
	t.Start(func() {
		s.mu.Lock()
		pos, ok := s.lastPos[bookingID]
		s.mu.Unlock()
		if !ok {
			return
		}
		s.notifier.NotifyMechanicLocation(pos.userID, bookingID, pos.lat, pos.lng)
	})
}

func (s *Service) ownedBooking(ctx context.Context, mechanicUserID, bookingID int64) (*domain.Booking, *domain.MechanicProfile, error) {
	p, err := s.ProfileByUser(ctx, mechanicUserID)
	if err != nil {
		return nil, nil, err
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if b.MechanicID != p.ID {
		return nil, nil, ErrForbidden
	}
	return b, p, nil
}
