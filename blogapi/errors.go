package blogapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the backend answers 404.
	ErrNotFound = errors.New("blogapi: not found")
	// ErrInvalid is returned when the backend rejects a malformed identifier (422).
	ErrInvalid = errors.New("blogapi: invalid request")
	// ErrUnauthorized is returned for 401/403 answers on authenticated calls.
	ErrUnauthorized = errors.New("blogapi: unauthorized")
)

// APIError is any other non-2xx answer from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("blogapi: backend returned %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("blogapi: backend returned %d", e.Status)
}

// DetailError carries the backend's "detail" message next to a sentinel so
// callers can both match the category and show the message.
type DetailError struct {
	Err    error
	Detail string
}

func (e *DetailError) Error() string {
	if e.Detail == "" {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + e.Detail
}

func (e *DetailError) Unwrap() error { return e.Err }

// Detail extracts the backend's human readable message from err, if any.
func Detail(err error) string {
	var de *DetailError
	if errors.As(err, &de) {
		return de.Detail
	}
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Detail
	}
	return ""
}

// ErrorCategory groups failures the way the views present them.
type ErrorCategory int

const (
	Transient ErrorCategory = iota
	NotFound
	Invalid
	Unauthorized
)

func (c ErrorCategory) String() string {
	switch c {
	case NotFound:
		return "not_found"
	case Invalid:
		return "invalid"
	case Unauthorized:
		return "unauthorized"
	default:
		return "transient"
	}
}

// Category classifies err. Anything unrecognised, including transport
// failures, is Transient.
func Category(err error) ErrorCategory {
	switch {
	case errors.Is(err, ErrNotFound):
		return NotFound
	case errors.Is(err, ErrInvalid):
		return Invalid
	case errors.Is(err, ErrUnauthorized):
		return Unauthorized
	default:
		return Transient
	}
}

func statusError(status int, detail string) error {
	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusUnprocessableEntity:
		sentinel = ErrInvalid
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = ErrUnauthorized
	default:
		return &APIError{Status: status, Detail: detail}
	}
	return &DetailError{Err: sentinel, Detail: detail}
}
