package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"productdesk/internal/core/protect"
)

// NewKeygenCommand creates the keygen command. Its output is one
// PROTECTION_KEYS entry; prepend it to rotate, keeping older entries
// so existing prices stay readable.
func NewKeygenCommand() *cobra.Command {
	var keyID string

	cmd := &cobra.Command{
		Use:          "keygen",
		Short:        "Generate a price protection key entry",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyID == "" {
				return fmt.Errorf("--id must not be empty")
			}
			secret, err := protect.GenerateSecret()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", keyID, secret)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyID, "id", "k1", "key id")
	return cmd
}
