package errors

import (
	"errors"
	"fmt"
)

// Common error types for the BFF
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("too many requests")

	// Session errors
	ErrStorageUnavailable = errors.New("session storage unavailable")
	ErrInvalidStage       = errors.New("invalid registration stage")
	ErrNoSession          = errors.New("no session")

	// Onboarding errors
	ErrVerificationIncomplete = errors.New("identity verification incomplete")

	// Remote errors
	ErrUpstream       = errors.New("upstream error")
	ErrInvalidRequest = errors.New("invalid request")

	// General errors
	ErrNotFound = errors.New("not found")
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
