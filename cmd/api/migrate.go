package main

import (
	"database/sql"

	"marketplace/internal/database"
	"marketplace/migrations"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(db *sql.DB, log *zap.Logger) error {
					return database.RunMigrations(db, migrations.FS, log)
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(db *sql.DB, log *zap.Logger) error {
					return database.RollbackMigration(db, migrations.FS, log)
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the status of every migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDatabase(func(db *sql.DB, _ *zap.Logger) error {
					return database.GetMigrationStatus(db, migrations.FS)
				})
			},
		},
	)

	return cmd
}

func withDatabase(fn func(db *sql.DB, log *zap.Logger) error) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	dbService, err := database.New(cfg.Database)
	if err != nil {
		return err
	}
	defer dbService.Close()

	return fn(dbService.DB(), log)
}
