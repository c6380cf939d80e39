package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	appctx "productdesk/internal/core/context"
	"productdesk/internal/infrastructure/storage"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Apply pending schema migrations",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := appctx.WithTrace(cmd.Context(), appctx.NewTraceContext())
			store, err := storage.Open(ctx, storage.Config{
				Driver:      rootOpts.Driver,
				DatabaseURL: rootOpts.DatabaseURL,
				SQLitePath:  rootOpts.SQLitePath,
			})
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", store.Backend)
			return nil
		},
	}
}
