package errors

import "errors"

var (
	ErrNotFound = errors.New("activity not found")

	ErrInvalidID = errors.New("invalid activity ID format")

	ErrDateNotFound = errors.New("unavailable date not found")

	ErrDuplicateDate = errors.New("unavailable date already exists")
)
