package booking

import (
	"roadassist/internal/domain"
	"roadassist/internal/lifecycle"
)

type PaymentRequest struct {
	Amount float64 `json:"amount" binding:"required"`
	Method string  `json:"method"`
}

// ActiveBooking is what the user's home screen renders: the one actionable
// booking, if any, and its call-to-action.
type ActiveBooking struct {
	Booking *domain.Booking  `json:"booking"`
	Action  lifecycle.Action `json:"action"`
}
