package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"model_type": "linear_regression",
		"feature_names": ["current_weight", "daily_calories", "weekly_workout_minutes", "weeks_ahead"],
		"coefficients": [1, 0, 0, -0.25],
		"intercept": 0
	}`), 0o600))

	var out bytes.Buffer
	err := (&ModelCheckCmd{Path: path}).Run(&Context{Out: &out})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "current_weight, daily_calories, weekly_workout_minutes, weeks_ahead")
	assert.Contains(t, out.String(), "78.00 kg")
}

func TestModelCheck_WrongFeatureOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"model_type": "linear_regression",
		"feature_names": ["daily_calories", "current_weight", "weekly_workout_minutes", "weeks_ahead"],
		"coefficients": [0, 1, 0, 0],
		"intercept": 0
	}`), 0o600))

	err := (&ModelCheckCmd{Path: path}).Run(&Context{Out: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestMigrateStatus(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&MigrateStatusCmd{}).Run(&Context{Out: &out}))
	assert.Contains(t, out.String(), "000001_init.up.sql")
	assert.Contains(t, out.String(), "000002_seed.up.sql")
}
