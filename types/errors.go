package types

import "errors"

// Domain errors. Store and service layers translate low-level failures into
// these sentinels; handlers map them to HTTP status codes.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUserExists is returned when a username is already taken. The
	// message is surfaced to API clients verbatim.
	ErrUserExists = errors.New("Username already exist!")

	// ErrPasswordMatch is returned when a new password and its
	// confirmation differ. The message is surfaced verbatim.
	ErrPasswordMatch = errors.New("Password doesn't match!")
)
