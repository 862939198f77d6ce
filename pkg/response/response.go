// Package response provides JSON response helpers for API handlers.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

// ErrorBody is the envelope written for every failed API call.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// JSON writes data as-is with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// OK writes a 200 response with the raw payload.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Success writes {"success":true} merged with fields.
func Success(w http.ResponseWriter, status int, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["success"] = true
	JSON(w, status, body)
}

// Error writes an error response. Errors that are not APIErrors become 500s
// and their text is not exposed.
func Error(w http.ResponseWriter, err error) {
	apiErr := apierrors.AsAPIError(err)
	JSON(w, apiErr.StatusCode, ErrorBody{
		Success: false,
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Details: apiErr.Details,
	})
}

// BadRequest writes a 400 Bad Request error response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, apierrors.ErrBadRequest.WithMessage(message))
}

// Unauthorized writes a 401 for a missing session.
func Unauthorized(w http.ResponseWriter) {
	Error(w, apierrors.ErrUnauthenticated)
}

// NotFound writes a 404 Not Found error response.
func NotFound(w http.ResponseWriter, resource string) {
	Error(w, apierrors.NewNotFoundError(resource))
}

func InternalError(w http.ResponseWriter) {
	Error(w, apierrors.ErrInternal)
}

// TooManyRequests writes a 429 with a custom message.
func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, apierrors.ErrRateLimited.WithMessage(message))
}
