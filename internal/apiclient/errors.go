package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindAuthMissing Kind = "auth_missing"
	KindHTTP        Kind = "http_error"
	KindEnvelope    Kind = "envelope_error"
	KindNetwork     Kind = "network_error"
)

// Error is every failure the client reports. Message is already fit for display.
type Error struct {
	Kind    Kind
	Status  int // HTTP status for KindHTTP, envelope status for KindEnvelope
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind so callers can test against ErrAuthMissing.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Status == 0 || t.Status == e.Status)
}

var ErrAuthMissing = &Error{
	Kind:    KindAuthMissing,
	Message: "Authentication token missing, please sign in again",
}

// statusMessage maps an HTTP status to the message shown when the
// backend did not send one of its own.
func statusMessage(code int) string {
	switch {
	case code == http.StatusUnauthorized:
		return "Session expired, please sign in again"
	case code == http.StatusForbidden:
		return "You are not authorized to perform this action"
	case code == http.StatusNotFound:
		return "Resource not found"
	case code == http.StatusBadRequest:
		return "Invalid request parameters"
	case code >= 500:
		return "Server error, please try again later"
	default:
		return fmt.Sprintf("HTTP error %d", code)
	}
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindHTTP {
		return apiErr.Status
	}
	return 0
}

// IsUnauthorized reports whether the backend rejected the bearer token.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrAuthMissing) || StatusCode(err) == http.StatusUnauthorized
}
