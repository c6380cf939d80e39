// Package cli implements productctl, the operator tool for productdesk.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Driver      string
	DatabaseURL string
	SQLitePath  string
}

// NewRootCommand creates the root command for productctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "productctl",
		Short: "productdesk operator tool",
		Long:  "Schema migrations, key and token generation, and access policy checks for productdesk.",
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", envOr("STORE_DRIVER", "postgres"), "store driver (postgres|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.DatabaseURL, "database-url", envOr("DATABASE_URL", ""), "PostgreSQL connection string")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", envOr("SQLITE_PATH", "productdesk.db"), "SQLite database file")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewKeygenCommand())
	cmd.AddCommand(NewTokenCommand())
	cmd.AddCommand(NewPolicyCommand())

	return cmd
}
