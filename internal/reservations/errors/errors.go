package errors

import "errors"

var (
	ErrNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid reservation ID format")

	ErrNotOwner = errors.New("only the owner can modify a reservation")

	ErrNotParticipant = errors.New("user is not a participant of the reservation")

	ErrDateInPast = errors.New("reservation date must be in the future")

	ErrSubscriptionClosed = errors.New("reservation subscription closed")
)
