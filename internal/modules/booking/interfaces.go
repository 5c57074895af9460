package booking

import (
	"context"

	"roadassist/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus, method string) error
}

type ReviewRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]domain.Review, error)
}

type RequestRepository interface {
	UpdateStatus(ctx context.Context, id int64, status domain.RequestStatus) error
}
