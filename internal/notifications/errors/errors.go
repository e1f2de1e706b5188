package errors

import "errors"

var (
	ErrNotFound = errors.New("notification not found")

	ErrInvalidID = errors.New("invalid notification ID format")

	ErrAlreadyAnswered = errors.New("notification already answered")

	ErrNotRecipient = errors.New("only the recipient can answer a notification")
)
