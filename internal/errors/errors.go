package errors

import (
	"errors"
	"fmt"
)

// Common error types for the notoli client
var (
	// Session errors
	ErrMissingTokens      = errors.New("auth response missing tokens")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrStorageUnavailable = errors.New("session storage unavailable")
	ErrSessionKeyRequired = errors.New("session key is required")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")

	// Navigation errors
	ErrNavigatorMissing = errors.New("no navigator registered")
	ErrNoParent         = errors.New("path has no parent")

	// Backend errors
	ErrInvalidRequest = errors.New("invalid request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
