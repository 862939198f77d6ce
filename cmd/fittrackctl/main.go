package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/AnshRaj112/fittrack-backend/internal/config"
)

var CLI struct {
	Version  kong.VersionFlag
	Postgres string `help:"PostgreSQL connection URI." env:"POSTGRES_URI"`

	Migrate struct {
		Up     MigrateUpCmd     `cmd:"" help:"Apply all pending migrations."`
		Down   MigrateDownCmd   `cmd:"" help:"Roll back migrations."`
		Status MigrateStatusCmd `cmd:"" help:"List embedded migration files."`
	} `cmd:"" help:"Manage the database schema."`

	Model struct {
		Check ModelCheckCmd `cmd:"" help:"Validate a prediction model artifact."`
	} `cmd:"" help:"Inspect prediction models."`
}

func main() {
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name("fittrackctl"),
		kong.Description("Operator tooling for the FitTrack backend"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	postgresURI := CLI.Postgres
	if postgresURI == "" {
		postgresURI = config.Load().PostgresURI
	}

	if err := ctx.Run(&Context{PostgresURI: postgresURI, Out: os.Stdout}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
