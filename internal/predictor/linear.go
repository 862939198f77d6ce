package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// LinearArtifact is the exported form of a trained linear regression.
type LinearArtifact struct {
	ModelType    string    `json:"model_type"`
	FeatureNames []string  `json:"feature_names"`
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

// LinearModel evaluates intercept + Σ coef·x. It is immutable after load.
type LinearModel struct {
	coefficients []float64
	intercept    float64
}

func LoadLinearModel(path string) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var a LinearArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode model artifact %s: %w", path, err)
	}
	return NewLinearModel(a)
}

func NewLinearModel(a LinearArtifact) (*LinearModel, error) {
	if a.ModelType != "" && a.ModelType != "linear_regression" {
		return nil, fmt.Errorf("unsupported model type %q", a.ModelType)
	}
	if err := checkFeatureNames(a.FeatureNames); err != nil {
		return nil, err
	}
	if len(a.Coefficients) != len(FeatureNames) {
		return nil, fmt.Errorf("expected %d coefficients, got %d", len(FeatureNames), len(a.Coefficients))
	}
	for _, c := range append([]float64{a.Intercept}, a.Coefficients...) {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("model artifact contains a non-finite parameter")
		}
	}
	coef := make([]float64, len(a.Coefficients))
	copy(coef, a.Coefficients)
	return &LinearModel{coefficients: coef, intercept: a.Intercept}, nil
}

func (m *LinearModel) Predict(ctx context.Context, f Features) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	y := m.intercept
	for i, x := range f.Vector() {
		y += m.coefficients[i] * x
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("model produced a non-finite value")
	}
	return y, nil
}
