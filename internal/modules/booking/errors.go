package booking

import "errors"

var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("booking not found")
	ErrForbidden      = errors.New("not your booking")
	ErrNotCompleted   = errors.New("booking is not completed")
	ErrAlreadySettled = errors.New("payment already settled")
	ErrAmountMismatch = errors.New("payment amount does not match total cost")
	ErrNotCancellable = errors.New("booking can no longer be cancelled")
)
