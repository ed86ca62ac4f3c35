package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized matches a [StatusError] for a 401 or 403 response.
var ErrUnauthorized = errors.New("invalid immich credentials")

// StatusError is returned when the immich API responds with an unexpected
// status code.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	if e.StatusCode == http.StatusUnauthorized {
		return "invalid immich token"
	}
	return fmt.Sprintf("unexpected status code %d (%s)", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is reports 401 and 403 responses as [ErrUnauthorized].
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// DecodeError is returned when an immich API response could not be decoded
// or did not have the expected shape.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AuthError is returned when logging in with an email and password fails.
type AuthError struct {
	Email string
	Err   error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("login failed for %s: %v", e.Email, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }
