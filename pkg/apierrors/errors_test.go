package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError_WithMessageKeepsCode(t *testing.T) {
	err := ErrConflict.WithMessage("Username already exists")

	assert.Equal(t, "Username already exists", err.Error())
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrAuth)
	// sentinel untouched
	assert.Equal(t, "Resource already exists", ErrConflict.Message)
}

func TestAsAPIError(t *testing.T) {
	wrapped := fmt.Errorf("saving: %w", NewNotFoundError("Workout template"))
	got := AsAPIError(wrapped)
	assert.Equal(t, http.StatusNotFound, got.StatusCode)
	assert.Equal(t, "Workout template not found", got.Message)

	assert.Equal(t, ErrInternal, AsAPIError(errors.New("boom")))
	assert.True(t, IsAPIError(wrapped))
	assert.False(t, IsAPIError(errors.New("boom")))
}

func TestNewValidationErrors_StableMessage(t *testing.T) {
	err := NewValidationErrors(
		[]string{"weight", "notes"},
		map[string]string{"notes": "too long", "weight": "must be positive"},
	)
	assert.Equal(t, "must be positive", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Len(t, err.Details, 2)
}

func TestNewPredictionError(t *testing.T) {
	err := NewPredictionError(errors.New("model exploded"))
	assert.Equal(t, "Prediction error: model exploded", err.Message)
	assert.Equal(t, http.StatusInternalServerError, err.StatusCode)
	assert.ErrorIs(t, err, ErrPrediction)
}
