package review

import "roadassist/internal/domain"

type CreateRequest struct {
	BookingID domain.BookingRef `json:"bookingId" binding:"required"`
	Rating    int               `json:"rating" binding:"required,gte=1,lte=5"`
	Title     string            `json:"title"`
	Comment   string            `json:"comment"`
}
