package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the marketplace client. Validation errors are raised locally
// and never reach the network; session-invalidation errors always end the session.
var (
	// Validation errors (local, pre-network)
	ErrMissingCredentials = errors.New("email and password are required")
	ErrMissingCode        = errors.New("verification code is required")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidName        = errors.New("invalid name")
	ErrWeakPassword       = errors.New("password does not meet the policy")

	// Auth rejections (recoverable, re-prompt the user)
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountBlocked     = errors.New("account temporarily blocked")
	ErrUnknown2FAMethod   = errors.New("unknown second-factor method")

	// Session invalidation (fatal, always ends in a full logout)
	ErrSessionRevoked = errors.New("session revoked")
	ErrTokenExpired   = errors.New("token expired")
	ErrSessionInvalid = errors.New("session no longer valid")

	// Transport / general errors
	ErrTransport   = errors.New("transport error")
	ErrForbidden   = errors.New("forbidden")
	ErrNotFound    = errors.New("not found")
	ErrServerError = errors.New("server error")
	ErrInternal    = errors.New("internal error")
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
