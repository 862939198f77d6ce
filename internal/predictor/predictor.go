// Package predictor holds the weight-regression model port and its implementations.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// FeatureNames is the model contract: every implementation receives the
// features under these names and in this order.
var FeatureNames = []string{"current_weight", "daily_calories", "weekly_workout_minutes", "weeks_ahead"}

// Features are the validated inputs for one prediction.
type Features struct {
	CurrentWeight        float64
	DailyCalories        float64
	WeeklyWorkoutMinutes float64
	WeeksAhead           int
}

// Vector returns the features in FeatureNames order.
func (f Features) Vector() []float64 {
	return []float64{f.CurrentWeight, f.DailyCalories, f.WeeklyWorkoutMinutes, float64(f.WeeksAhead)}
}

// Named returns the features keyed by name.
func (f Features) Named() map[string]float64 {
	v := f.Vector()
	out := make(map[string]float64, len(FeatureNames))
	for i, name := range FeatureNames {
		out[name] = v[i]
	}
	return out
}

// Model predicts a future body weight in kg. Implementations must be safe
// for concurrent use.
type Model interface {
	Predict(ctx context.Context, f Features) (float64, error)
}

var ErrFeatureMismatch = errors.New("model feature names do not match the prediction contract")

func checkFeatureNames(names []string) error {
	if len(names) != len(FeatureNames) {
		return fmt.Errorf("%w: got %v", ErrFeatureMismatch, names)
	}
	for i := range names {
		if names[i] != FeatureNames[i] {
			return fmt.Errorf("%w: got %v", ErrFeatureMismatch, names)
		}
	}
	return nil
}

// Load returns the configured model. A remote URL takes precedence over the
// local artifact. A missing artifact yields (nil, nil) so the server can
// start with prediction disabled.
func Load(path, url string) (Model, error) {
	if url != "" {
		slog.Info("using remote prediction model", slog.String("url", url))
		return NewRemoteModel(url, nil), nil
	}

	m, err := LoadLinearModel(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("prediction model not found, prediction disabled", slog.String("path", path))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	slog.Info("prediction model loaded", slog.String("path", path))
	return m, nil
}
