package request

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roadassist/internal/dispatch"
	"roadassist/internal/domain"
	"roadassist/internal/geo"
	"roadassist/internal/realtime"
	"roadassist/internal/repository"
)

const defaultRadiusKm = 25

type Service struct {
	requests  RequestRepository
	mechanics MechanicRepository
	locator   geo.Locator
	notifier  realtime.Notifier
	pool      *dispatch.Pool
	ttl       time.Duration
}

func NewService(
	requests RequestRepository,
	mechanics MechanicRepository,
	locator geo.Locator,
	notifier realtime.Notifier,
	pool *dispatch.Pool,
	ttl time.Duration,
) *Service {
	return &Service{
		requests:  requests,
		mechanics: mechanics,
		locator:   locator,
		notifier:  notifier,
		pool:      pool,
		ttl:       ttl,
	}
}

// Create persists a new breakdown request, offers it to the pool, and
// announces it to every connected mechanic.
func (s *Service) Create(ctx context.Context, userID int64, in CreateRequest) (*domain.ServiceRequest, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.IssueType == "" {
		return nil, ErrValidation
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	req := &domain.ServiceRequest{
		UserID:      userID,
		Reference:   uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		IssueType:   in.IssueType,
		Priority:    priority,
		VehicleInfo: in.VehicleInfo,
		Location: domain.GeoPoint{
			Latitude:  in.Location.Latitude,
			Longitude: in.Location.Longitude,
			Address:   in.Location.Address,
		},
		Status: domain.RequestPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}

	s.pool.Prepend(*req)
	s.notifier.NotifyNewRequest(req)
	return req, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (s *Service) MyRequests(ctx context.Context, userID int64) ([]domain.ServiceRequest, error) {
	return s.requests.ListByUser(ctx, userID)
}

// Cancel withdraws a still-pending request and tells every mechanic it is
// gone. Once a mechanic has claimed it the traveler cancels the booking
// instead.
func (s *Service) Cancel(ctx context.Context, id, userID int64) error {
	req, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if req.UserID != userID {
		return ErrForbidden
	}

	if err := s.requests.Cancel(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrAlreadyTaken) {
			return ErrNotPending
		}
		return err
	}

	s.pool.Remove(id)
	s.notifier.NotifyRequestUnavailable(id)
	return nil
}

// NearbyRequests lists pending requests around a mechanic's position,
// nearest first.
func (s *Service) NearbyRequests(ctx context.Context, q NearbyQuery) ([]domain.ServiceRequest, error) {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}
	return s.requests.ListPendingNear(ctx, q.Latitude, q.Longitude, radius)
}

// NearbyMechanics lists available mechanics around the traveler. Live
// positions from the locator take precedence; mechanics without a live ping
// fall back to their stored shop coordinates.
func (s *Service) NearbyMechanics(ctx context.Context, q NearbyQuery) ([]NearbyMechanic, error) {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = defaultRadiusKm
	}

	available, err := s.mechanics.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	byUserID := make(map[int64]*domain.MechanicProfile, len(available))
	for i := range available {
		byUserID[available[i].UserID] = &available[i]
	}

	positions, err := s.locator.Nearby(ctx, q.Latitude, q.Longitude, radius, 50)
	if err != nil {
		return nil, err
	}

	out := make([]NearbyMechanic, 0, len(positions))
	seen := make(map[int64]bool, len(positions))
	for _, p := range positions {
		m, ok := byUserID[p.ID]
		if !ok {
			continue
		}
		seen[p.ID] = true
		out = append(out, NearbyMechanic{
			Mechanic: *m,
			Distance: geo.Haversine(q.Latitude, q.Longitude, p.Latitude, p.Longitude),
		})
	}

	for i := range available {
		m := &available[i]
		if seen[m.UserID] || m.Location == nil {
			continue
		}
		d := geo.Haversine(q.Latitude, q.Longitude, m.Location.Latitude, m.Location.Longitude)
		if d <= radius*1000 {
			out = append(out, NearbyMechanic{Mechanic: *m, Distance: d})
		}
	}

	for i := 0; i < len(out); i++ {
		best := i
		for j := i + 1; j < len(out); j++ {
			if out[j].Distance < out[best].Distance {
				best = j
			}
		}
		out[i], out[best] = out[best], out[i]
	}
	return out, nil
}

// ExpireStale retires pending requests older than the configured TTL and
// announces each disappearance. Runs on a schedule.
func (s *Service) ExpireStale(ctx context.Context) (int, error) {
	ids, err := s.requests.ExpireStale(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		s.pool.Remove(id)
		s.notifier.NotifyRequestUnavailable(id)
	}
	return len(ids), nil
}

// PoolSnapshot exposes the current offer order for dashboards.
func (s *Service) PoolSnapshot() []domain.ServiceRequest {
	return s.pool.Snapshot()
}

// WarmPool loads currently pending requests into the pool at startup.
func (s *Service) WarmPool(ctx context.Context) error {
	pending, err := s.requests.ListPending(ctx)
	if err != nil {
		return err
	}
	s.pool.Reset(pending)
	return nil
}
