package review

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"roadassist/internal/domain"
)

type Service struct {
	reviews   ReviewRepository
	bookings  BookingRepository
	mechanics MechanicRepository
}

func NewService(reviews ReviewRepository, bookings BookingRepository, mechanics MechanicRepository) *Service {
	return &Service{reviews: reviews, bookings: bookings, mechanics: mechanics}
}

// Create records the rating that closes out a booking. It only goes through
// once the work is completed and the payment leg has resolved either way,
// and never twice for the same booking.
func (s *Service) Create(ctx context.Context, userID int64, req CreateRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrValidation
	}
	bookingID := req.BookingID.ID
	if bookingID == 0 {
		return nil, ErrValidation
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrNotReviewable
	}
	switch b.EffectivePaymentStatus() {
	case domain.PaymentCompleted, domain.PaymentDeclined:
	default:
		return nil, ErrNotReviewable
	}

	exists, err := s.reviews.ExistsForBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	rv := &domain.Review{
		BookingID:  domain.NewBookingRef(bookingID),
		MechanicID: b.MechanicID,
		UserID:     userID,
		Rating:     req.Rating,
		Title:      strings.TrimSpace(req.Title),
		Comment:    strings.TrimSpace(req.Comment),
		Verified:   b.EffectivePaymentStatus() == domain.PaymentCompleted,
	}
	if err := s.reviews.Create(ctx, rv); err != nil {
		return nil, err
	}

	if err := s.refreshRating(ctx, b.MechanicID); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *Service) ListByMechanic(ctx context.Context, mechanicID int64) ([]domain.Review, error) {
	return s.reviews.ListByMechanic(ctx, mechanicID, 0)
}

func (s *Service) MyReviews(ctx context.Context, userID int64) ([]domain.Review, error) {
	return s.reviews.ListByUser(ctx, userID)
}

// Delete removes the caller's own review and recomputes the mechanic's
// aggregate without it.
func (s *Service) Delete(ctx context.Context, id, userID int64) error {
	rv, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if rv.UserID != userID {
		return ErrForbidden
	}

	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.refreshRating(ctx, rv.MechanicID)
}

func (s *Service) refreshRating(ctx context.Context, mechanicID int64) error {
	avg, err := s.reviews.AverageRating(ctx, mechanicID)
	if err != nil {
		return err
	}
	return s.mechanics.SetRating(ctx, mechanicID, avg)
}
