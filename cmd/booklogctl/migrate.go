package main

import (
	"fmt"

	"booklog-backend/infrastructure/config"
	"booklog-backend/infrastructure/di"
	"booklog-backend/infrastructure/persistence/sqlite"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQLite migrations and seed the family profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Store.Driver != config.StoreSQLite {
				return fmt.Errorf("migrate only applies to the %s store, configured driver is %q", config.StoreSQLite, cfg.Store.Driver)
			}

			db, err := sqlite.Open(cfg.Store.SQLitePath)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			logger, err := di.ProvideLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			if err := sqlite.RunMigrations(ctx, db, logger); err != nil {
				return err
			}
			created, err := sqlite.NewRepository(db).EnsureProfiles(ctx, cfg.Family)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			good.Fprintf(out, "✓ migrated %s\n", cfg.Store.SQLitePath)
			subtle.Fprintf(out, "  %d new profiles, family: %v\n", created, cfg.Family)
			return nil
		},
	}
}
