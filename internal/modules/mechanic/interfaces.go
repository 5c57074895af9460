package mechanic

import (
	"context"
	"time"

	"roadassist/internal/domain"
)

type MechanicRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.MechanicProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*domain.MechanicProfile, error)
	Update(ctx context.Context, p *domain.MechanicProfile) error
	SetAvailability(ctx context.Context, userID int64, available bool) error
	UpdateLocation(ctx context.Context, userID int64, lat, lng float64) error
	IncrementTotalJobs(ctx context.Context, mechanicID int64) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByMechanic(ctx context.Context, mechanicID int64) ([]domain.Booking, error)
	ListActiveByMechanic(ctx context.Context, mechanicID int64) ([]domain.Booking, error)
	CountActiveByMechanic(ctx context.Context, mechanicID int64) (int64, error)
	ListCompletedByMechanicSince(ctx context.Context, mechanicID int64, since time.Time) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Complete(ctx context.Context, id int64, totalCost float64) error
}

type RequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	Claim(ctx context.Context, requestID, mechanicUserID int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
	ListPending(ctx context.Context) ([]domain.ServiceRequest, error)
}

type ReviewRepository interface {
	ListByMechanic(ctx context.Context, mechanicID int64, limit int) ([]domain.Review, error)
}
