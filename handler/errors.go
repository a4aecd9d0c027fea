package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError carries the status code and the client-safe message for a failure.
// Message is rendered to the client verbatim; put internal detail in the wrapped
// cause instead, which is only logged.
type HTTPError struct {
	Code    int
	Message string
	cause   error
}

// NewHTTPError creates an HTTPError with the given status code and client message.
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e HTTPError) Unwrap() error {
	return e.cause
}

// Wrap returns a copy of e carrying cause for logging and errors.Is checks.
func (e HTTPError) Wrap(cause error) HTTPError {
	e.cause = cause
	return e
}

var (
	ErrBadRequest          = HTTPError{Code: http.StatusBadRequest, Message: "Invalid request body"}
	ErrNotFound            = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrMethodNotAllowed    = HTTPError{Code: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	ErrTooManyRequests     = HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests"}
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error"}
)
