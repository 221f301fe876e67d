// Package apperr carries the error taxonomy rendered by the HTTP layer.
//
// Services wrap one of the sentinel kinds (or build one with Validation) and the
// handlers translate it with FromError into a status code and envelope.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is an error with an API-facing code, message and status.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
	// Data is echoed back in the envelope's data field (ex: the existing
	// record on a conflict).
	Data any `json:"-"`
}

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap exposes the internal error for errors.Is / errors.As.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Internal
}

// Is matches on Code so that copies made by WithInternal/WithData still
// satisfy errors.Is against the sentinel they were derived from.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) || t == nil || e == nil {
		return false
	}
	return e.Code == t.Code
}

// WithInternal returns a copy carrying the underlying cause.
func (e *AppError) WithInternal(err error) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Internal = err
	return &cpy
}

// WithData returns a copy carrying a payload for the response body.
func (e *AppError) WithData(data any) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Data = data
	return &cpy
}

// WithMessage returns a copy with a more specific message.
func (e *AppError) WithMessage(msg string) *AppError {
	if e == nil {
		return nil
	}
	cpy := *e
	cpy.Message = msg
	return &cpy
}

var (
	ErrValidation = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Missing required fields",
		StatusCode: http.StatusBadRequest,
	}

	ErrConflict = &AppError{
		Code:       "ALREADY_EXISTS",
		Message:    "Already bookmarked",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	// ErrNotFoundOrUnauthorized deliberately does not say which of the two happened.
	ErrNotFoundOrUnauthorized = &AppError{
		Code:       "NOT_FOUND_OR_UNAUTHORIZED",
		Message:    "Bookmark not found or unauthorized",
		StatusCode: http.StatusNotFound,
	}

	ErrUpstream = &AppError{
		Code:       "UPSTREAM_FAILED",
		Message:    "Content provider request failed",
		StatusCode: http.StatusBadGateway,
	}

	ErrUnavailable = &AppError{
		Code:       "UNAVAILABLE",
		Message:    "Service unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}

	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "Internal server error",
		StatusCode: http.StatusInternalServerError,
	}
)

// Validation builds a 400 error with a field-category message.
func Validation(message string) *AppError {
	return ErrValidation.WithMessage(message)
}

// Wrap turns any error into a 500 AppError while keeping the cause for logs.
func Wrap(err error, message string) *AppError {
	return ErrInternal.WithMessage(message).WithInternal(err)
}

// FromError converts a generic error into an AppError, defaulting to ErrInternal.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal.WithInternal(err)
}
