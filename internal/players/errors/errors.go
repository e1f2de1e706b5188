package errors

import "errors"

var (
	ErrNotFound = errors.New("player not found")

	ErrAlreadyExists = errors.New("player already exists")
)
