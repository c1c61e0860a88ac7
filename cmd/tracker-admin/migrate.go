package main

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/00DarkGhost00/Tracking-absence/pkg/database"
)

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.Open(cmd.Context(), e.cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := database.Migrate(cmd.Context(), db, e.logger); err != nil {
					return err
				}
				return printVersion(cmd, db)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert the latest migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.Open(cmd.Context(), e.cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				if err := database.Rollback(cmd.Context(), db, e.logger); err != nil {
					return err
				}
				return printVersion(cmd, db)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Log the state of every migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.Open(cmd.Context(), e.cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				return database.Status(cmd.Context(), db, e.logger)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, err := database.Open(cmd.Context(), e.cfg.Database)
				if err != nil {
					return err
				}
				defer db.Close()
				return printVersion(cmd, db)
			},
		},
	)
	return cmd
}

func printVersion(cmd *cobra.Command, db *sqlx.DB) error {
	v, err := database.Version(cmd.Context(), db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", v)
	return nil
}
