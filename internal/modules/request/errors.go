package request

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("request not found")
	ErrForbidden  = errors.New("not your request")
	ErrNotPending = errors.New("request is no longer pending")
)
