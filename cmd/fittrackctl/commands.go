package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/AnshRaj112/fittrack-backend/internal/database"
	"github.com/AnshRaj112/fittrack-backend/internal/predictor"
)

// Context is passed to every command's Run method.
type Context struct {
	PostgresURI string
	Out         io.Writer
}

type MigrateUpCmd struct{}

func (c *MigrateUpCmd) Run(ctx *Context) error {
	if err := database.RunMigrations(ctx.PostgresURI); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, "migrations applied")
	return nil
}

type MigrateDownCmd struct {
	Steps int `help:"Number of migrations to roll back." default:"1"`
}

func (c *MigrateDownCmd) Run(ctx *Context) error {
	if err := database.MigrateDown(ctx.PostgresURI, c.Steps); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "rolled back %d migration(s)\n", c.Steps)
	return nil
}

type MigrateStatusCmd struct{}

func (c *MigrateStatusCmd) Run(ctx *Context) error {
	files, err := database.MigrationFiles()
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(ctx.Out, f)
	}
	return nil
}

type ModelCheckCmd struct {
	Path string `help:"Path to the model artifact." default:"models/weight_prediction_model.json" type:"path"`
}

// Run loads the artifact through the server's loader and runs one sample prediction.
func (c *ModelCheckCmd) Run(ctx *Context) error {
	m, err := predictor.LoadLinearModel(c.Path)
	if err != nil {
		return err
	}

	sample := predictor.Features{
		CurrentWeight:        80,
		DailyCalories:        2000,
		WeeklyWorkoutMinutes: 150,
		WeeksAhead:           8,
	}
	y, err := m.Predict(context.Background(), sample)
	if err != nil {
		return fmt.Errorf("sample prediction failed: %w", err)
	}

	fmt.Fprintf(ctx.Out, "features: %s\n", strings.Join(predictor.FeatureNames, ", "))
	fmt.Fprintf(ctx.Out, "sample prediction (80kg, 2000kcal, 150min, 8w): %.2f kg\n", y)
	return nil
}
