package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/00DarkGhost00/Tracking-absence/pkg/config"
	"github.com/00DarkGhost00/Tracking-absence/pkg/logger"
)

type configLoader func() (*config.Config, error)

// env carries what every subcommand needs once configuration is loaded.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(load configLoader) *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "tracker-admin",
		Short:         "Administration tasks for the absence tracker",
		Long:          "tracker-admin manages the schema, prints hour balances and issues API tokens without going through the HTTP gateway.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				cfg.Log.Level = "debug"
			}
			l, err := logger.New(cfg)
			if err != nil {
				return err
			}
			e.cfg, e.logger = cfg, l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.logger != nil {
				_ = e.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	root.AddCommand(newMigrateCmd(e), newHoursCmd(e), newTokenCmd(e))
	return root
}
