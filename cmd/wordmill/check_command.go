package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"wordmill/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var skipHealth bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify directories, credentials, and classifier reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{SkipHealthCheck: skipHealth})
			if ctx.JSONMode() {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				for _, result := range results {
					fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
				}
			}

			if !preflight.AllPassed(results) {
				return errors.New("one or more preflight checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipHealth, "skip-health", false, "Skip the live classifier API probe")
	return cmd
}
