package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"wordmill/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past classification runs",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				runs, err := store.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortRunID(run.RunID),
						run.CreatedAt.Local().Format("2006-01-02 15:04:05"),
						strconv.Itoa(run.WordCount),
						strconv.Itoa(run.Successful),
						strconv.Itoa(run.Failed),
						strconv.Itoa(run.TotalAPICalls),
						formatEfficiency(run.APIEfficiency),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Run", "Date", "Words", "Classified", "Failed", "Calls", "Efficiency"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list (0 for all)")
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show one run's summary (defaults to the most recent)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistoryStore(ctx, func(store *history.Store) error {
				run, err := lookupRun(cmd, store, args)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, run)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run ID: %s\n", run.RunID)
				fmt.Fprintf(out, "Date: %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
				fmt.Fprintf(out, "Words: %d\n", run.WordCount)
				fmt.Fprintf(out, "Classified: %d\n", run.Successful)
				fmt.Fprintf(out, "Failed: %d\n", run.Failed)
				fmt.Fprintf(out, "API calls: %d (%d primary, %d failure, %d individual)\n",
					run.TotalAPICalls, run.PrimaryBatches, run.FailureBatches, run.IndividualRetries)
				fmt.Fprintf(out, "Efficiency: %s\n", formatEfficiency(run.APIEfficiency))
				if run.ReportPath != "" {
					fmt.Fprintf(out, "Report: %s\n", run.ReportPath)
				}
				return nil
			})
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errors.New("refusing to clear run history without --force")
			}
			return withHistoryStore(ctx, func(store *history.Store) error {
				if err := store.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Run history cleared")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm deletion of all run history")
	return cmd
}

func withHistoryStore(ctx *commandContext, fn func(*history.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

// lookupRun resolves an optional run-id argument, accepting the shortened
// prefix shown in list output.
func lookupRun(cmd *cobra.Command, store *history.Store, args []string) (*history.Run, error) {
	if len(args) == 0 {
		run, err := store.MostRecent(cmd.Context())
		if errors.Is(err, history.ErrRunNotFound) {
			return nil, errors.New("no runs recorded yet")
		}
		return run, err
	}

	runID := args[0]
	run, err := store.GetByRunID(cmd.Context(), runID)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, history.ErrRunNotFound) {
		return nil, err
	}

	runs, err := store.List(cmd.Context(), 0)
	if err != nil {
		return nil, err
	}
	var match *history.Run
	for _, candidate := range runs {
		if shortRunID(candidate.RunID) == shortRunID(runID) {
			if match != nil {
				return nil, fmt.Errorf("run id %q is ambiguous", runID)
			}
			match = candidate
		}
	}
	if match == nil {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	return match, nil
}
