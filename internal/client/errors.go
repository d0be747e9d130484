package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds surfaced to pages. Match them with errors.Is.
var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrForbidden      = errors.New("forbidden")
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrLocked         = errors.New("locked")
	ErrInternalServer = errors.New("internal server error")
	ErrNetwork        = errors.New("network failure")
)

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// Unwrap maps the status onto its kind sentinel. Statuses outside the
// taxonomy unwrap to nil and stay generic.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusLocked:
		return ErrLocked
	case http.StatusInternalServerError:
		return ErrInternalServer
	default:
		return nil
	}
}

// BackendMessage returns the message the backend attached to err, if any.
func BackendMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func networkError(err error) error {
	return fmt.Errorf("%w: %w", ErrNetwork, err)
}
