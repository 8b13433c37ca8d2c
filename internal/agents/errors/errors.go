package errors

import "errors"

var (
	ErrNotFound = errors.New("agent not found")

	ErrInvalidID = errors.New("invalid agent ID format")

	ErrDateNotFound = errors.New("unavailable date not found")
)
