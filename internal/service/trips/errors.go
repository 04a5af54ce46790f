package trips

import "errors"

var (
	// ErrNotFound means the booking was absent at cancellation time.
	ErrNotFound = errors.New("booking not found")

	// ErrPastDeparture rejects bookings for dates before the reference date.
	ErrPastDeparture = errors.New("departure date is in the past")

	// ErrPersistence wraps store gateway failures on create and delete.
	ErrPersistence = errors.New("persistence failure")
)
