package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/a010145456/FitTrackApp/internal/auth"
)

// tokenCommand mints a bearer token for the API using JWT_SECRET and JWT_ISSUER.
func (a *app) tokenCommand() *cobra.Command {
	var (
		subject string
		scopes  []string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a development bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := auth.Sign(auth.Config{Secret: a.cfg.JWTSecret, Issuer: a.cfg.JWTIssuer}, subject, scopes, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "local-user", "token subject")
	cmd.Flags().StringSliceVar(&scopes, "scope", []string{auth.ScopeExercisesRead, auth.ScopeExercisesWrite}, "granted scopes")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
