package request

import (
	"context"
	"time"

	"roadassist/internal/domain"
)

type RequestRepository interface {
	Create(ctx context.Context, req *domain.ServiceRequest) error
	GetByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	Cancel(ctx context.Context, id, userID int64) error
	ListByUser(ctx context.Context, userID int64) ([]domain.ServiceRequest, error)
	ListPending(ctx context.Context) ([]domain.ServiceRequest, error)
	ListPendingNear(ctx context.Context, lat, lng, radiusKm float64) ([]domain.ServiceRequest, error)
	ExpireStale(ctx context.Context, olderThan time.Time) ([]int64, error)
}

type MechanicRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.MechanicProfile, error)
	ListAvailable(ctx context.Context) ([]domain.MechanicProfile, error)
}
