package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced pump, reservoir or reading does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when an entity invariant would be violated.
	ErrValidation = errors.New("validation failed")
	// ErrPumpUnavailable means the energy service answered that the pump cannot start.
	ErrPumpUnavailable = errors.New("pump unavailable")
	// ErrRemoteUnavailable means the availability check could not complete.
	ErrRemoteUnavailable = errors.New("energy service unreachable")
)
