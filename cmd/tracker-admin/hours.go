package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/00DarkGhost00/Tracking-absence/internal/app"
	"github.com/00DarkGhost00/Tracking-absence/internal/models"
)

func newHoursCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours [professor]",
		Short: "Print hour balances for one professor or the whole fleet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *e.cfg
			cfg.Reports.Enabled = false
			cfg.Canonical.Watch = false
			a, err := app.New(cmd.Context(), &cfg, e.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			asJSON, _ := cmd.Flags().GetBool("json")
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				summary, err := a.Ledger.ProfessorSummary(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, summary)
				}
				return writeSummaries(out, []models.ProfessorHourSummary{*summary})
			}

			fleet, err := a.Ledger.FleetSummary(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, fleet)
			}
			summaries, err := a.Ledger.ListProfessors(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "semester %s to %s, %d professors, completion %d%%\n",
				fleet.Semester.Start, fleet.Semester.End, fleet.Professors, fleet.CompletionRate)
			return writeSummaries(out, summaries)
		},
	}
	cmd.Flags().Bool("json", false, "output as JSON")
	return cmd
}

func writeSummaries(out io.Writer, summaries []models.ProfessorHourSummary) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROFESSOR\tSTATUS\tTHEORETICAL\tABSENT\tMADE UP\tREALIZED")
	for _, s := range summaries {
		status := string(s.Status)
		if status == "" {
			status = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\n",
			s.Professor, status, s.TheoreticalHours, s.AbsenceHours, s.MakeupHours, s.RealizedHours)
	}
	return tw.Flush()
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
