// Package admin is the back-office surface: platform stats, user management
// and mechanic verification.
package admin

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

var ErrNotFound = errors.New("not found")

type Stats struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalMechanics    int64 `json:"totalMechanics"`
	PendingRequests   int64 `json:"pendingRequests"`
	CompletedBookings int64 `json:"completedBookings"`
	ActiveBookings    int64 `json:"activeBookings"`
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error)
	SetBlocked(ctx context.Context, id int64, blocked bool) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

type MechanicRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.MechanicProfile, error)
	SetVerified(ctx context.Context, id int64, verified bool) error
	ListPendingVerification(ctx context.Context) ([]domain.MechanicProfile, error)
}

type RequestRepository interface {
	CountByStatus(ctx context.Context, status domain.RequestStatus) (int64, error)
}

type BookingRepository interface {
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error)
}

type Service struct {
	users     UserRepository
	mechanics MechanicRepository
	requests  RequestRepository
	bookings  BookingRepository
}

func NewService(
	users UserRepository,
	mechanics MechanicRepository,
	requests RequestRepository,
	bookings BookingRepository,
) *Service {
	return &Service{users: users, mechanics: mechanics, requests: requests, bookings: bookings}
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{}

	var err error
	if st.TotalUsers, err = s.users.CountByRole(ctx, string(domain.RoleUser)); err != nil {
		return nil, err
	}
	if st.TotalMechanics, err = s.users.CountByRole(ctx, string(domain.RoleMechanic)); err != nil {
		return nil, err
	}
	if st.PendingRequests, err = s.requests.CountByStatus(ctx, domain.RequestPending); err != nil {
		return nil, err
	}
	if st.CompletedBookings, err = s.bookings.CountByStatus(ctx, domain.BookingCompleted); err != nil {
		return nil, err
	}

	for _, status := range []domain.BookingStatus{
		domain.BookingScheduled,
		domain.BookingEnRoute,
		domain.BookingArrived,
		domain.BookingInProgress,
	} {
		n, err := s.bookings.CountByStatus(ctx, status)
		if err != nil {
			return nil, err
		}
		st.ActiveBookings += n
	}
	return st, nil
}

func (s *Service) Users(ctx context.Context, role string, limit, offset int) ([]domain.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.users.List(ctx, role, limit, offset)
}

func (s *Service) SetUserBlocked(ctx context.Context, id int64, blocked bool) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.users.SetBlocked(ctx, id, blocked)
}

func (s *Service) PendingMechanics(ctx context.Context) ([]domain.MechanicProfile, error) {
	return s.mechanics.ListPendingVerification(ctx)
}

func (s *Service) SetMechanicVerified(ctx context.Context, id int64, verified bool) error {
	if _, err := s.mechanics.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.mechanics.SetVerified(ctx, id, verified)
}
