package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wordmill/internal/classify"
	"wordmill/internal/logging"
	"wordmill/internal/services/llm"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <word> [word...]",
		Short: "Classify words one at a time, without batching or history",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			client := llm.NewClient(llmClientConfig(cfg))
			adapter := classify.NewLLMAdapter(
				client,
				cfg.Classifier.Categories,
				cfg.Classifier.ConfidenceThreshold,
				classify.WithLogger(logging.NewComponentLogger(logger, "classify")),
			)

			var outcomes []classify.BatchOutcome
			for _, arg := range args {
				word := strings.ToLower(strings.TrimSpace(arg))
				if word == "" {
					continue
				}
				outcome, err := adapter.Classify(cmd.Context(), []string{word}, classify.ModeIndividual)
				if err != nil {
					return fmt.Errorf("classify %q: %w", word, err)
				}
				outcomes = append(outcomes, outcome)
			}

			if ctx.JSONMode() {
				return writeJSON(cmd, outcomes)
			}

			rows := make([][]string, 0, len(outcomes))
			for _, outcome := range outcomes {
				for _, result := range outcome.Successful {
					rows = append(rows, []string{
						result.Word,
						categoryLabel(result.Category),
						fmt.Sprintf("%.2f", result.Confidence),
					})
				}
				for _, failure := range outcome.Failed {
					rows = append(rows, []string{failure.Word, "-", failure.LastError})
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Word", "Category", "Confidence"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
