package handler

import (
	"errors"
	"net/http"

	"github.com/ibrahimGoumrane/pfeManagerFront/internal/client"
)

// Failure is how an error is shown to the visitor.
type Failure struct {
	Status  int
	Kind    string
	Message string
}

// Describe maps a backend error to the page status and the message shown
// to the visitor. Backend messages are used for validation and conflict
// errors, where they name the offending field.
func Describe(err error) Failure {
	switch {
	case errors.Is(err, client.ErrUnauthorized):
		return Failure{http.StatusUnauthorized, "Unauthorized", "Your session has expired or you are not logged in. Please log in again."}
	case errors.Is(err, client.ErrForbidden):
		return Failure{http.StatusForbidden, "Forbidden", "You are not allowed to do this."}
	case errors.Is(err, client.ErrNotFound):
		return Failure{http.StatusNotFound, "Not Found", "The page or item you asked for does not exist."}
	case errors.Is(err, client.ErrBadRequest):
		return Failure{http.StatusBadRequest, "Bad Request", withBackend(err, "The request was not valid.")}
	case errors.Is(err, client.ErrConflict):
		return Failure{http.StatusConflict, "Conflict", withBackend(err, "This item already exists or was changed meanwhile.")}
	case errors.Is(err, client.ErrLocked):
		return Failure{http.StatusLocked, "Locked", "This item is locked and cannot be changed right now."}
	case errors.Is(err, client.ErrInternalServer):
		return Failure{http.StatusBadGateway, "Server Error", "The server encountered an error. Please try again later."}
	case errors.Is(err, client.ErrNetwork):
		return Failure{http.StatusServiceUnavailable, "Network Error", "Cannot reach the server. Check your connection and try again."}
	default:
		return Failure{http.StatusBadGateway, "Error", withBackend(err, "Something went wrong. Please try again.")}
	}
}

// Message is the visitor facing text for err.
func Message(err error) string {
	return Describe(err).Message
}

func withBackend(err error, fallback string) string {
	if msg := client.BackendMessage(err); msg != "" {
		return msg
	}
	return fallback
}
