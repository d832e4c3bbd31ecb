package apperr

import "errors"

var (
	// ErrNotFound is returned when no flag is stored at the derived key.
	ErrNotFound = errors.New("flag not found")

	// ErrInvalidInput is returned before any store access when a required field is missing
	// or a value is out of range.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStoreUnavailable covers network, timeout and serialization failures of the backing store.
	ErrStoreUnavailable = errors.New("backing store unavailable")
)
