package mechanic

import "errors"

var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("mechanic not found")
	ErrForbidden   = errors.New("not your booking")
	ErrNotVerified = errors.New("mechanic is not verified yet")
	ErrRequestGone = errors.New("request no longer available")
)
