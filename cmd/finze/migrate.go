package main

import (
	"fmt"

	"github.com/finze/finze-backend/internal/config"
	"github.com/finze/finze-backend/internal/repository/postgres"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  `Bring the schema at DATABASE_URL up to the latest version. Already applied migrations are skipped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			log.Info().Msg("Running database migrations")
			if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Database migrations applied")
			return nil
		},
	}
}
