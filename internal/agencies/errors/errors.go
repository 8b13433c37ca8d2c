package errors

import "errors"

var (
	ErrNotFound = errors.New("agency not found")

	ErrInvalidID = errors.New("invalid agency ID format")

	ErrScheduleNotFound = errors.New("unavailable schedule not found")

	ErrDuplicateSchedule = errors.New("unavailable schedule already exists for this date")
)
