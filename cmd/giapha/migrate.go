package main

import (
	"fmt"

	"giapha-go/internal/config"
	"giapha-go/internal/db"
	"giapha-go/pkg/logger"
	"github.com/spf13/cobra"
)

func newMigrateCommand(log logger.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(log)
			if err != nil {
				return err
			}

			dbConn, err := db.NewPostgres(cfg.DB, log)
			if err != nil {
				return err
			}
			defer closeDB(dbConn, log)

			var applied int
			if dir != "" {
				applied, err = db.MigrateDir(dbConn, dir, log)
			} else {
				applied, err = db.Migrate(dbConn, log)
			}
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", applied)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "migrations directory (default: nearest ./migrations)")
	return cmd
}
