// Package sos handles emergency alerts that bypass the normal request flow.
package sos

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("alert not found")
	ErrForbidden  = errors.New("not your alert")
)

type CreateRequest struct {
	Message   string  `json:"message"`
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
	Address   string  `json:"address"`
}

type NearbyQuery struct {
	Latitude  float64 `form:"latitude" binding:"required"`
	Longitude float64 `form:"longitude" binding:"required"`
	RadiusKm  float64 `form:"radius"`
}

type SOSRepository interface {
	Create(ctx context.Context, a *domain.SOSAlert) error
	GetByID(ctx context.Context, id int64) (*domain.SOSAlert, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.SOSAlert, error)
	ListActiveNear(ctx context.Context, lat, lng, radiusKm float64) ([]domain.SOSAlert, error)
	Resolve(ctx context.Context, id int64) error
}

type Service struct {
	alerts SOSRepository
}

func NewService(alerts SOSRepository) *Service {
	return &Service{alerts: alerts}
}

func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.SOSAlert, error) {
	a := &domain.SOSAlert{
		UserID:  userID,
		Message: strings.TrimSpace(req.Message),
		Location: domain.GeoPoint{
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			Address:   req.Address,
		},
		Status: domain.SOSActive,
	}
	if err := s.alerts.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) MyAlerts(ctx context.Context, userID int64) ([]domain.SOSAlert, error) {
	return s.alerts.ListByUser(ctx, userID)
}

func (s *Service) Nearby(ctx context.Context, q NearbyQuery) ([]domain.SOSAlert, error) {
	radius := q.RadiusKm
	if radius <= 0 {
		radius = 50
	}
	return s.alerts.ListActiveNear(ctx, q.Latitude, q.Longitude, radius)
}

// Resolve closes an alert. The owner or an admin may do this.
func (s *Service) Resolve(ctx context.Context, id, userID int64, isAdmin bool) error {
	a, err := s.alerts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if a.UserID != userID && !isAdmin {
		return ErrForbidden
	}
	return s.alerts.Resolve(ctx, id)
}
