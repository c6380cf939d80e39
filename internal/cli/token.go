package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"productdesk/internal/domain/auth"
)

type tokenOptions struct {
	Secret string
	Issuer string
	UserID string
	Email  string
	Roles  []string
	TTL    time.Duration
}

// NewTokenCommand creates the token command. It signs a development token the
// way the identity provider would; production tokens never come from here.
func NewTokenCommand() *cobra.Command {
	opts := &tokenOptions{}

	cmd := &cobra.Command{
		Use:          "token",
		Short:        "Issue a development bearer token",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := auth.DefaultJWTConfig(opts.Secret)
			cfg.Issuer = opts.Issuer
			cfg.AccessTokenTTL = opts.TTL

			svc, err := auth.NewJWTService(cfg)
			if err != nil {
				return err
			}
			token, expiresAt, err := svc.GenerateAccessToken(opts.UserID, opts.Email, opts.Roles)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "roles=%s expires=%s\n", strings.Join(opts.Roles, ","), expiresAt.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Secret, "secret", envOr("JWT_SECRET", ""), "HS256 signing secret")
	cmd.Flags().StringVar(&opts.Issuer, "issuer", envOr("JWT_ISSUER", "productdesk"), "token issuer")
	cmd.Flags().StringVar(&opts.UserID, "user", "dev", "user id claim")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email claim")
	cmd.Flags().StringSliceVar(&opts.Roles, "roles", nil, "roles claim (comma separated)")
	cmd.Flags().DurationVar(&opts.TTL, "ttl", time.Hour, "token lifetime")
	return cmd
}
