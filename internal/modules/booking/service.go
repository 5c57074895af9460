package booking

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"roadassist/internal/domain"
	"roadassist/internal/lifecycle"
	"roadassist/internal/realtime"
)

type Service struct {
	bookings BookingRepository
	reviews  ReviewRepository
	requests RequestRepository
	notifier realtime.Notifier
}

func NewService(
	bookings BookingRepository,
	reviews ReviewRepository,
	requests RequestRepository,
	notifier realtime.Notifier,
) *Service {
	return &Service{
		bookings: bookings,
		reviews:  reviews,
		requests: requests,
		notifier: notifier,
	}
}

func (s *Service) Get(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *Service) MyBookings(ctx context.Context, userID int64) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Active resolves the user's single actionable booking, if any. The list
// comes back newest first and the resolver keeps that order, so the most
// recent qualifying booking wins ties.
func (s *Service) Active(ctx context.Context, userID int64) (*ActiveBooking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, action := lifecycle.Resolve(bookings, reviews)
	return &ActiveBooking{Booking: b, Action: action}, nil
}

// ProcessPayment settles a completed booking. The amount must match the cost
// the mechanic set at completion; partial payment is not a thing here.
func (s *Service) ProcessPayment(ctx context.Context, id, userID int64, req PaymentRequest) (*domain.Booking, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrNotCompleted
	}
	if b.EffectivePaymentStatus() != domain.PaymentPending {
		return nil, ErrAlreadySettled
	}
	if math.Abs(req.Amount-b.TotalCost) > 0.009 {
		return nil, ErrAmountMismatch
	}

	if err := s.bookings.UpdatePayment(ctx, id, domain.PaymentCompleted, req.Method); err != nil {
		return nil, err
	}

	b.PaymentStatus = domain.PaymentCompleted
	b.PaymentMethod = req.Method
	s.notifier.NotifyBookingUpdated(b.UserID, b)
	return b, nil
}

// DeclinePayment records the user's refusal. A declined payment still
// resolves the obligation as far as the lifecycle is concerned; the booking
// proceeds to rating.
func (s *Service) DeclinePayment(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if b.Status != domain.BookingCompleted {
		return nil, ErrNotCompleted
	}
	if b.EffectivePaymentStatus() != domain.PaymentPending {
		return nil, ErrAlreadySettled
	}

	if err := s.bookings.UpdatePayment(ctx, id, domain.PaymentDeclined, ""); err != nil {
		return nil, err
	}

	b.PaymentStatus = domain.PaymentDeclined
	s.notifier.NotifyBookingUpdated(b.UserID, b)
	return b, nil
}

// Cancel lets the traveler abort a booking that has not progressed past
// arrival. The underlying request is released back to cancelled as well.
func (s *Service) Cancel(ctx context.Context, id, userID int64) (*domain.Booking, error) {
	b, err := s.Get(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	switch b.Status {
	case domain.BookingScheduled, domain.BookingEnRoute, domain.BookingArrived:
	default:
		return nil, ErrNotCancellable
	}

	if err := s.bookings.UpdateStatus(ctx, id, domain.BookingCancelled); err != nil {
		return nil, err
	}
	if b.RequestID != 0 {
		if err := s.requests.UpdateStatus(ctx, b.RequestID, domain.RequestCancelled); err != nil {
			return nil, err
		}
	}

	b.Status = domain.BookingCancelled
	s.notifier.NotifyBookingUpdated(b.UserID, b)
	return b, nil
}
