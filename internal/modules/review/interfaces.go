package review

import (
	"context"

	"roadassist/internal/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, rv *domain.Review) error
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForBooking(ctx context.Context, bookingID int64) (bool, error)
	ListByMechanic(ctx context.Context, mechanicID int64, limit int) ([]domain.Review, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
	Delete(ctx context.Context, id int64) error
	AverageRating(ctx context.Context, mechanicID int64) (float64, error)
}

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
}

type MechanicRepository interface {
	SetRating(ctx context.Context, mechanicID int64, rating float64) error
}
