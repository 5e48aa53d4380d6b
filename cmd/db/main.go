package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/askora/askora/cmd/db/commands"
	"github.com/askora/askora/internal/database/migrations"
	"github.com/askora/askora/internal/setup"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := run(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	app, err := setup.InitializeApp(ctx, false)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	defer app.Cleanup()

	deps := &commands.CLIDependencies{
		DB:       app.DB,
		Migrator: migrate.NewMigrator(app.DB.DB(), migrations.Migrations),
		Logger:   app.Logger,
	}

	tool := &cli.Command{
		Name:  "db",
		Usage: "Database management tool",
		Commands: append(
			commands.MigrationCommands(deps),
			commands.ReputationCommands(deps)...,
		),
	}

	return tool.Run(ctx, os.Args)
}
