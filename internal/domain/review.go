package domain

import "time"

// Review terminates a booking's lifecycle: once one exists for a booking,
// that booking never surfaces as the user's active item again.
type Review struct {
	ID         int64      `json:"id"`
	BookingID  BookingRef `json:"bookingId"`
	MechanicID int64      `json:"mechanicId"`
	UserID     int64      `json:"userId"`
	Rating     int        `json:"rating" validate:"required,gte=1,lte=5"`
	Title      string     `json:"title,omitempty"`
	Comment    string     `json:"comment,omitempty"`
	Verified   bool       `json:"verified"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
