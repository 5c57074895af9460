package review

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("review not found")
	ErrForbidden       = errors.New("not your review")
	ErrBookingNotFound = errors.New("booking not found")
	ErrNotReviewable   = errors.New("booking is not ready for review")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)
