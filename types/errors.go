package types

import "errors"

var (
	// ErrResourceUnavailable marks a resource that cannot be opened or queried.
	ErrResourceUnavailable = errors.New("resource unavailable")

	// ErrAlreadyActive is returned when activating a sorter that is attached.
	ErrAlreadyActive = errors.New("sorter already active")

	// ErrNilWindow is returned when activating without a host window.
	ErrNilWindow = errors.New("nil host window")
)
