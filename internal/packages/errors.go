package packages

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JaimeStill/package-lab/internal/identity"
)

// Domain errors for package operations.
var (
	ErrValidation    = errors.New("Request validation error")
	ErrDuplicate     = errors.New("Name already exists")
	ErrConfiguration = errors.New("storage location is not configured")
	ErrStorage       = errors.New("storage failure")
)

// ValidationError lists the request fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return ErrValidation.Error()
}

// Detail returns the message with the offending fields appended.
func (e *ValidationError) Detail() string {
	if len(e.Fields) == 0 {
		return e.Error()
	}
	return e.Error() + ": " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// StorageError wraps a backend failure. Its message is the backend's.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// MapHTTPStatus maps domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, identity.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
