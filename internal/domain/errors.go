package domain

import "errors"

// Failure taxonomy returned by the core services. Handlers map these to
// HTTP codes; they are never swallowed.
var (
	ErrOutOfStock         = errors.New("out of stock")
	ErrListingNotLive     = errors.New("listing not live")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("invalid input")
	ErrReservationExpired = errors.New("reservation expired")
)
