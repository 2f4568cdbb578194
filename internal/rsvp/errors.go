package rsvp

import "errors"

// Failure taxonomy surfaced by the ledger and the check-in validator.
// Handlers map these onto HTTP statuses; the message text is shown to
// the user as-is.
var (
	ErrUnauthenticated  = errors.New("authentication required")
	ErrForbidden        = errors.New("you do not have access to this event")
	ErrNotFound         = errors.New("no matching RSVP found")
	ErrAlreadyRedeemed  = errors.New("this check-in token was already used")
	ErrCapacityExceeded = errors.New("this category is full")
	ErrValidation       = errors.New("invalid input")
)
