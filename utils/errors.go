package utils

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidSession  = errors.New("invalid session")
	ErrUnknownUser     = errors.New("unknown user")
	ErrNoTenant        = errors.New("no restaurant for this account")
	ErrForbidden       = errors.New("forbidden")
	ErrRateLimited     = errors.New("too many requests")
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrStorage         = errors.New("storage failure")
)

// FieldError names one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned before any mutation is attempted. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (v *ValidationError) Error() string {
	if len(v.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (v *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a single-field ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// StatusFor maps an error from any layer onto its HTTP status class.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidSession),
		errors.Is(err, ErrUnknownUser):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNoTenant), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the caller-facing text for err. Unexpected failures collapse to one generic line.
func PublicMessage(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Error()
	}
	for _, known := range []error{
		ErrUnauthenticated, ErrInvalidSession, ErrUnknownUser, ErrNoTenant, ErrForbidden,
		ErrRateLimited, ErrValidation, ErrNotFound, ErrConflict,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal server error"
}
