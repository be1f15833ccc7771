package api

import (
	"errors"
	"fmt"
	"net/http"

	apperrors "github.com/nubarte/marketplace-client/internal/errors"
)

// Application error codes carried on 401 responses.
const (
	CodeSessionRevoked = "SESSION_REVOKED"
	CodeTokenExpired   = "TOKEN_EXPIRED"
)

// Error is the decoded error payload of a failed API call, together with the
// HTTP status it arrived on.
type Error struct {
	Status            int      `json:"-"`
	Code              string   `json:"code,omitempty"`
	Message           string   `json:"message,omitempty"`
	AttemptsRemaining *int     `json:"attemptsRemaining,omitempty"`
	Blocked           bool     `json:"blocked,omitempty"`
	MinutesRemaining  int      `json:"minutesRemaining,omitempty"`
	Errors            []string `json:"errors,omitempty"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Message)
	}
	if e.Code != "" {
		return fmt.Sprintf("api: %d %s", e.Status, e.Code)
	}
	return fmt.Sprintf("api: %d %s", e.Status, http.StatusText(e.Status))
}

// SessionFatal reports whether the error invalidates the session outright.
func (e *Error) SessionFatal() bool {
	return e.Status == http.StatusUnauthorized &&
		(e.Code == CodeSessionRevoked || e.Code == CodeTokenExpired)
}

// Sentinel maps the response onto the client's error taxonomy so callers can
// branch with errors.Is instead of re-reading status and code fields.
func (e *Error) Sentinel() error {
	switch {
	case e.Status == http.StatusUnauthorized && e.Code == CodeSessionRevoked:
		return apperrors.ErrSessionRevoked
	case e.Status == http.StatusUnauthorized && e.Code == CodeTokenExpired:
		return apperrors.ErrTokenExpired
	case e.Status == http.StatusUnauthorized && e.AttemptsRemaining != nil:
		return apperrors.ErrInvalidCredentials
	case e.Status == http.StatusUnauthorized:
		return apperrors.ErrSessionInvalid
	case e.Status == http.StatusForbidden && e.Blocked,
		e.Status == http.StatusTooManyRequests:
		return apperrors.ErrAccountBlocked
	case e.Status == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.Status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.Status >= http.StatusInternalServerError:
		return apperrors.ErrServerError
	default:
		return apperrors.ErrTransport
	}
}

// Unwrap exposes the sentinel, so errors.Is works on any chain carrying the
// decoded API error.
func (e *Error) Unwrap() error {
	return e.Sentinel()
}

// AsError extracts an *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
