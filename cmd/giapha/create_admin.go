package main

import (
	"fmt"
	"os"

	"giapha-go/internal/app"
	"giapha-go/internal/config"
	"giapha-go/internal/db"
	accountdomain "giapha-go/internal/domain/account"
	"giapha-go/internal/repository/inmemory"
	"giapha-go/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func newCreateAdminCommand(log logger.Logger) *cobra.Command {
	var username, password, displayName string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password (or ADMIN_PASSWORD) are required")
			}

			cfg, err := config.Load(log)
			if err != nil {
				return err
			}

			dbConn, err := db.NewPostgres(cfg.DB, log)
			if err != nil {
				return err
			}
			defer closeDB(dbConn, log)

			accounts := app.NewAccountService(cfg, dbConn, inmemory.NewInMemoryAttemptStore())
			account, err := accounts.Create(cmd.Context(), accountdomain.CreateInput{
				Username:    username,
				Password:    password,
				DisplayName: displayName,
				Role:        accountdomain.RoleAdmin,
			})
			if err != nil {
				return fmt.Errorf("create admin: %w", err)
			}

			log.Info("account: admin created", "account_id", account.ID, "username", account.Username)
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", account.Username, account.ID)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&username, "username", "", "login name")
	flags.StringVar(&password, "password", "", "initial password")
	flags.StringVar(&displayName, "display-name", "", "display name (defaults to the username)")
	return cmd
}

func closeDB(dbConn *gorm.DB, log logger.Logger) {
	sqlDB, err := dbConn.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("db: close failed", "err", err)
	}
}
