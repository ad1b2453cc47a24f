package main

import (
	"fmt"
	"os"

	"giapha-go/pkg/logger"
	"github.com/spf13/cobra"
)

func main() {
	log := logger.NewFromEnv()

	err := newRootCommand(log).Execute()
	_ = logger.Sync(log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand(log logger.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:           "giapha",
		Short:         "Family genealogy server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCommand(log),
		newMigrateCommand(log),
		newCreateAdminCommand(log),
	)
	return root
}
