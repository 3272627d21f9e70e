package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"wordmill/internal/history"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report [run-id]",
		Short: "Print the full JSON report for a run (defaults to the most recent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				run, err := lookupRun(cmd, store, args)
				if err != nil {
					return err
				}
				if run.ReportJSON == "" {
					return fmt.Errorf("run %s has no stored report", shortRunID(run.RunID))
				}
				var report map[string]any
				if err := json.Unmarshal([]byte(run.ReportJSON), &report); err != nil {
					return fmt.Errorf("decode stored report: %w", err)
				}
				return writeJSON(cmd, report)
			})
		},
	}
}
