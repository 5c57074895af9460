package domain

import "time"

type BookingStatus string

const (
	BookingScheduled  BookingStatus = "scheduled"
	BookingEnRoute    BookingStatus = "en_route"
	BookingArrived    BookingStatus = "arrived"
	BookingInProgress BookingStatus = "in_progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// IsTerminal reports whether no further main-status transition is possible.
// Payment resolves independently of the main status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// IsActive reports whether work is still underway on the booking.
func (s BookingStatus) IsActive() bool {
	switch s {
	case BookingScheduled, BookingEnRoute, BookingArrived, BookingInProgress:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentDeclined  PaymentStatus = "declined"
)

// Booking is the working relationship between one user and one mechanic for
// one accepted service request.
type Booking struct {
	ID                 int64         `json:"id"`
	RequestID          int64         `json:"requestId"`
	UserID             int64         `json:"userId"`
	MechanicID         int64         `json:"mechanicId"`
	ServiceDescription string        `json:"serviceDescription"`
	Status             BookingStatus `json:"status"`
	TotalCost          float64       `json:"totalCost,omitempty"`
	PaymentStatus      PaymentStatus `json:"paymentStatus,omitempty"`
	PaymentMethod      string        `json:"paymentMethod,omitempty"`
	BookingDate        time.Time     `json:"bookingDate"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`

	User     *User            `json:"user,omitempty"`
	Mechanic *MechanicProfile `json:"mechanic,omitempty"`
}

// EffectivePaymentStatus treats an unset payment field the same as pending.
// Bookings created before the payment flow existed carry no payment status at all.
func (b *Booking) EffectivePaymentStatus() PaymentStatus {
	if b.PaymentStatus == "" {
		return PaymentPending
	}
	return b.PaymentStatus
}
