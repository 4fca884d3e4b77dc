package rental

import (
	"errors"
	"fmt"
)

var (
	// repository specific errors
	ErrNotFound = errors.New("not found")

	// account and session errors
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrNotSignedIn        = errors.New("no user is signed in")

	// inventory and lifecycle errors
	ErrOutOfStock        = errors.New("car is out of stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError reports missing or malformed caller input. It is
// recoverable: the user is re-prompted rather than the process failing.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
