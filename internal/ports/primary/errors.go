package primary

import "errors"

// Error kinds surfaced to callers. Services wrap these with context via
// fmt.Errorf("...: %w", Err...) so callers can classify with errors.Is.
var (
	// ErrValidation indicates a required field is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates an id did not resolve to a row.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState indicates an operation on an item whose stage does not
	// permit it (e.g. escalating a resolved item).
	ErrInvalidState = errors.New("invalid state")
)
