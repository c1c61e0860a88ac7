package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/00DarkGhost00/Tracking-absence/internal/dto"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
	"github.com/00DarkGhost00/Tracking-absence/internal/service"
)

func newTokenCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")
			if ttl <= 0 {
				ttl = e.cfg.JWT.Expiration
			}
			tokens := service.NewTokenService(service.TokenConfig{
				Secret: e.cfg.JWT.Secret,
				Expiry: ttl,
				Issuer: e.cfg.JWT.Issuer,
			})
			token, expires, err := tokens.Issue(user, models.UserRole(strings.ToUpper(role)))
			if err != nil {
				return err
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), dto.TokenResponse{AccessToken: token, ExpiresAt: expires})
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().String("user", "", "user id placed in the token subject")
	cmd.Flags().String("role", string(models.RoleViewer), "ADMIN, GUARD or VIEWER")
	cmd.Flags().Duration("ttl", 0, "token lifetime (defaults to JWT_EXPIRATION)")
	cmd.Flags().Bool("json", false, "output as JSON")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
