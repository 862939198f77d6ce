// Package apierrors provides the typed errors returned across the HTTP boundary.
package apierrors

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is an error that knows how it should be rendered to a client.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e *APIError) WithMessage(message string) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    message,
		StatusCode: e.StatusCode,
		Details:    e.Details,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *APIError) WithDetails(details any) *APIError {
	return &APIError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Details:    details,
	}
}

// Is matches on Code so wrapped copies still satisfy errors.Is against the sentinels.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

const (
	CodeConflict           = "conflict"
	CodeAuth               = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeValidation         = "validation_error"
	CodeNotFound           = "not_found"
	CodeBadRequest         = "bad_request"
	CodeRateLimited        = "rate_limited"
	CodeServiceUnavailable = "service_unavailable"
	CodePrediction         = "prediction_error"
	CodeInternal           = "internal_error"
)

var (
	// ErrConflict is returned when a unique attribute is already taken.
	ErrConflict = &APIError{
		Code:       CodeConflict,
		Message:    "Resource already exists",
		StatusCode: http.StatusConflict,
	}

	// ErrAuth is returned when credentials do not match a user.
	ErrAuth = &APIError{
		Code:       CodeAuth,
		Message:    "Invalid username or password",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrUnauthenticated is returned when a gated route has no valid session.
	ErrUnauthenticated = &APIError{
		Code:       CodeUnauthenticated,
		Message:    "Authentication required",
		StatusCode: http.StatusUnauthorized,
	}

	ErrValidation = &APIError{
		Code:       CodeValidation,
		Message:    "Invalid input data",
		StatusCode: http.StatusBadRequest,
	}

	ErrNotFound = &APIError{
		Code:       CodeNotFound,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	ErrBadRequest = &APIError{
		Code:       CodeBadRequest,
		Message:    "Invalid request",
		StatusCode: http.StatusBadRequest,
	}

	ErrRateLimited = &APIError{
		Code:       CodeRateLimited,
		Message:    "Too many requests. Please slow down.",
		StatusCode: http.StatusTooManyRequests,
	}

	// ErrServiceUnavailable is returned when an optional backend (model, uploads) is not configured.
	ErrServiceUnavailable = &APIError{
		Code:       CodeServiceUnavailable,
		Message:    "Service temporarily unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}

	ErrPrediction = &APIError{
		Code:       CodePrediction,
		Message:    "Prediction error",
		StatusCode: http.StatusInternalServerError,
	}

	ErrInternal = &APIError{
		Code:       CodeInternal,
		Message:    "An internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}
)

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, message string) *APIError {
	return &APIError{
		Code:       CodeValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details:    map[string]string{field: message},
	}
}

// NewValidationErrors creates a validation error with multiple field errors.
// The message is taken from the first field in fields order so the result is stable.
func NewValidationErrors(fields []string, errs map[string]string) *APIError {
	msg := "One or more fields failed validation"
	for _, f := range fields {
		if m, ok := errs[f]; ok {
			msg = m
			break
		}
	}
	return &APIError{
		Code:       CodeValidation,
		Message:    msg,
		StatusCode: http.StatusBadRequest,
		Details:    errs,
	}
}

func NewConflictError(message string) *APIError {
	return ErrConflict.WithMessage(message)
}

// NewNotFoundError creates a not found error for a resource type.
func NewNotFoundError(resource string) *APIError {
	return ErrNotFound.WithMessage(fmt.Sprintf("%s not found", resource))
}

// NewPredictionError wraps an inference failure.
func NewPredictionError(err error) *APIError {
	return ErrPrediction.WithMessage(fmt.Sprintf("Prediction error: %v", err))
}

// AsAPIError converts err to an APIError, falling back to ErrInternal.
func AsAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return ErrInternal
}

// IsAPIError reports whether err carries an APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
