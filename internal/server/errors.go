package server

import (
	"fmt"
	"net/http"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrApplicationNotFound indicates the requested application does not exist
type ErrApplicationNotFound struct {
	ID string
}

func (e *ErrApplicationNotFound) Error() string {
	return fmt.Sprintf("application not found: %s", e.ID)
}

// ErrInvalidSession indicates a missing, malformed or expired session token
type ErrInvalidSession struct {
	Cause error
}

func (e *ErrInvalidSession) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid session token: %v", e.Cause)
	}
	return "invalid session token"
}

func (e *ErrInvalidSession) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrValidation:
		return http.StatusBadRequest
	case *ErrApplicationNotFound:
		return http.StatusNotFound
	case *ErrInvalidSession:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
