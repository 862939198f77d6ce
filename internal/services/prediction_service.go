package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/fittrack-backend/internal/models"
	"github.com/AnshRaj112/fittrack-backend/internal/predictor"
	"github.com/AnshRaj112/fittrack-backend/pkg/apierrors"
)

const (
	minPredictedWeight = 30
	maxPredictedWeight = 300
)

var (
	ErrModelUnavailable = apierrors.ErrServiceUnavailable.WithMessage("Prediction model not available")
	ErrInvalidInput     = apierrors.ErrValidation.WithMessage("Invalid input data")
)

type bound struct {
	field    string
	min, max float64
	message  string
}

var predictionBounds = []bound{
	{"current_weight", 20, 300, "Current weight must be between 20 and 300 kg"},
	{"daily_calories", 800, 5000, "Daily calories must be between 800 and 5000"},
	{"weekly_workout_minutes", 0, 2000, "Weekly workout minutes must be between 0 and 2000"},
	{"weeks_ahead", 1, 52, "Weeks ahead must be between 1 and 52"},
}

type PredictionService struct {
	model   predictor.Model // nil when no model is loaded
	history PredictionHistory
	pending sync.WaitGroup // history writes still in flight
}

func NewPredictionService(model predictor.Model, history PredictionHistory) *PredictionService {
	if history == nil {
		history = NoopHistory{}
	}
	return &PredictionService{model: model, history: history}
}

// Available reports whether a model is loaded.
func (s *PredictionService) Available() bool { return s.model != nil }

// Predict validates the raw request fields and runs the model. Values may be
// JSON numbers or numeric strings.
func (s *PredictionService) Predict(ctx context.Context, userID uuid.UUID, raw map[string]any) (*models.PredictionResult, error) {
	if s.model == nil {
		return nil, ErrModelUnavailable
	}

	features, err := ParseFeatures(raw)
	if err != nil {
		return nil, err
	}

	predicted, err := s.invoke(ctx, features)
	if err != nil {
		slog.Warn("prediction failed", slog.String("error", err.Error()))
		return nil, apierrors.NewPredictionError(err)
	}

	clamped := math.Max(minPredictedWeight, math.Min(maxPredictedWeight, predicted))
	result := &models.PredictionResult{
		PredictedWeight: round(clamped, 2),
		WeightChange:    round(clamped-features.CurrentWeight, 2),
	}

	s.recordAsync(userID, features, result)
	return result, nil
}

// invoke shields the caller from model panics and non-finite outputs.
func (s *PredictionService) invoke(ctx context.Context, f predictor.Features) (y float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("model panicked: %v", r)
		}
	}()
	y, err = s.model.Predict(ctx, f)
	if err == nil && (math.IsNaN(y) || math.IsInf(y, 0)) {
		err = fmt.Errorf("model produced a non-finite value")
	}
	return y, err
}

func (s *PredictionService) recordAsync(userID uuid.UUID, f predictor.Features, r *models.PredictionResult) {
	rec := &models.PredictionRecord{
		UserID:               userID.String(),
		CurrentWeight:        f.CurrentWeight,
		DailyCalories:        f.DailyCalories,
		WeeklyWorkoutMinutes: f.WeeklyWorkoutMinutes,
		WeeksAhead:           f.WeeksAhead,
		PredictedWeight:      r.PredictedWeight,
		WeightChange:         r.WeightChange,
		CreatedAt:            time.Now().UTC(),
	}
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.history.Record(ctx, rec); err != nil {
			slog.Warn("failed to record prediction", slog.String("error", err.Error()))
		}
	}()
}

// Wait blocks until in-flight history writes finish or ctx is done.
func (s *PredictionService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// History returns the user's latest predictions, newest first.
func (s *PredictionService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.PredictionRecord, error) {
	return s.history.Recent(ctx, userID.String(), limit)
}

// ParseFeatures checks presence, type and range of the four model inputs.
func ParseFeatures(raw map[string]any) (predictor.Features, error) {
	var missing []string
	for _, name := range predictor.FeatureNames {
		if isBlank(raw[name]) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		msg := "Missing required fields: " + strings.Join(missing, ", ")
		details := make(map[string]string, len(missing))
		for _, m := range missing {
			details[m] = "required"
		}
		return predictor.Features{}, apierrors.ErrValidation.WithMessage(msg).WithDetails(details)
	}

	values := make(map[string]float64, len(predictor.FeatureNames))
	for _, name := range predictor.FeatureNames {
		v, ok := toFloat(raw[name])
		if !ok {
			return predictor.Features{}, ErrInvalidInput.WithDetails(map[string]string{name: "must be a number"})
		}
		values[name] = v
	}

	weeks := values["weeks_ahead"]
	if weeks != math.Trunc(weeks) {
		return predictor.Features{}, apierrors.NewValidationError("weeks_ahead", "Weeks ahead must be a whole number")
	}

	for _, b := range predictionBounds {
		if v := values[b.field]; v < b.min || v > b.max {
			return predictor.Features{}, apierrors.NewValidationError(b.field, b.message)
		}
	}

	return predictor.Features{
		CurrentWeight:        values["current_weight"],
		DailyCalories:        values["daily_calories"],
		WeeklyWorkoutMinutes: values["weekly_workout_minutes"],
		WeeksAhead:           int(weeks),
	}, nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}

func toFloat(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
