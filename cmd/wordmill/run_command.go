package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"wordmill/internal/classify"
	"wordmill/internal/config"
	"wordmill/internal/history"
	"wordmill/internal/logging"
	"wordmill/internal/notifications"
	"wordmill/internal/pipeline"
	"wordmill/internal/preflight"
	"wordmill/internal/runlock"
	"wordmill/internal/services"
	"wordmill/internal/services/llm"
	"wordmill/internal/wordlist"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var wordsPath string
	var skipHealth bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify a word list through the tiered pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runClassification(cmd, ctx, wordsPath, skipHealth)
			if err != nil && services.IsRetryable(err) {
				fmt.Fprintln(cmd.ErrOrStderr(), "The failure looks transient; rerunning may succeed.")
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&wordsPath, "words", "w", "", "Path to a word list file (defaults to the built-in list)")
	cmd.Flags().BoolVar(&skipHealth, "skip-health-check", false, "Skip the live classifier API probe")
	return cmd
}

func runClassification(cmd *cobra.Command, ctx *commandContext, wordsPath string, skipHealth bool) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	words, err := loadWords(wordsPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results := preflight.RunAll(cmd.Context(), cfg, preflight.Options{SkipHealthCheck: skipHealth})
	if failure, failed := preflight.FirstFailure(results); failed {
		colorize := shouldColorize(out)
		for _, result := range results {
			fmt.Fprintln(out, renderCheckLine(result.Name, result.Passed, result.Detail, colorize))
		}
		return wrapPreflightFailure(failure)
	}

	lock := runlock.New(cfg.Paths.DataDir)
	if err := lock.Acquire(); err != nil {
		if errors.Is(err, runlock.ErrAlreadyLocked) {
			return fmt.Errorf("another wordmill run is already in progress (lock at %s)", lock.Path())
		}
		return fmt.Errorf("acquire run lock: %w", err)
	}
	defer lock.Release()

	store, err := history.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run history: %w", err)
	}
	defer store.Close()

	client := llm.NewClient(llmClientConfig(cfg))
	adapter := classify.NewLLMAdapter(
		client,
		cfg.Classifier.Categories,
		cfg.Classifier.ConfidenceThreshold,
		classify.WithLogger(logging.NewComponentLogger(logger, "classify")),
	)
	processor, err := pipeline.New(
		pipeline.Config{
			BatchSize:        cfg.Classifier.BatchSize,
			FailureThreshold: cfg.Classifier.FailureThreshold,
		},
		adapter,
		pipeline.WithLogger(logging.NewComponentLogger(logger, "pipeline")),
		pipeline.WithPacer(pipeline.NewSleepPacer(cfg.RetryDelay())),
	)
	if err != nil {
		return err
	}

	notifier := notifications.NewService(cfg)
	if err := notifier.NotifyRunStarted(cmd.Context(), len(words)); err != nil {
		logger.Warn("run-started notification failed", logging.Error(err))
	}

	result, err := processor.Run(cmd.Context(), words)
	if err != nil {
		if notifyErr := notifier.NotifyError(context.WithoutCancel(cmd.Context()), err, "classification run"); notifyErr != nil {
			logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return err
	}

	runID := uuid.NewString()
	report := pipeline.BuildReport(result, pipeline.ReportParams{
		BatchSize:        cfg.Classifier.BatchSize,
		FailureThreshold: cfg.Classifier.FailureThreshold,
	})

	reportPath, reportJSON, err := writeReportFile(cfg, report, result, runID)
	if err != nil {
		return err
	}

	if err := store.SaveRun(cmd.Context(), &history.Run{
		RunID:             runID,
		CreatedAt:         result.FinishedAt,
		WordCount:         result.WordListSize,
		Successful:        len(result.Successful),
		Failed:            len(result.Failed),
		PrimaryBatches:    result.Stats.PrimaryBatches,
		FailureBatches:    result.Stats.FailureBatches,
		IndividualRetries: result.Stats.IndividualRetries,
		TotalAPICalls:     result.Stats.TotalAPICalls,
		APIEfficiency:     report.Summary.APICalls.APIEfficiency,
		ReportPath:        reportPath,
		ReportJSON:        reportJSON,
	}); err != nil {
		return fmt.Errorf("save run history: %w", err)
	}

	duration := result.FinishedAt.Sub(result.StartedAt)
	if err := notifier.NotifyRunCompleted(cmd.Context(), len(result.Successful), len(result.Failed), result.Stats.TotalAPICalls, duration); err != nil {
		logger.Warn("run-completed notification failed", logging.Error(err))
	}

	if ctx.JSONMode() {
		return writeJSON(cmd, report)
	}
	renderRunSummary(cmd, report, result, runID, reportPath)
	return nil
}

func loadWords(wordsPath string) ([]string, error) {
	path := strings.TrimSpace(wordsPath)
	if path == "" {
		return wordlist.Default(), nil
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	words, err := wordlist.Load(expanded)
	if err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list %s contains no words", expanded)
	}
	return words, nil
}

func llmClientConfig(cfg *config.Config) llm.Config {
	settings := cfg.GetLLM()
	return llm.Config{
		APIKey:         settings.APIKey,
		BaseURL:        settings.BaseURL,
		Model:          settings.Model,
		Referer:        settings.Referer,
		Title:          settings.Title,
		TimeoutSeconds: settings.TimeoutSeconds,
	}
}

// wrapPreflightFailure maps a failed check onto the shared error taxonomy so
// callers can tell transient outages from configuration problems.
func wrapPreflightFailure(failure preflight.Result) error {
	marker := services.ErrConfiguration
	if failure.Name == "Classifier API" {
		marker = services.ErrTransient
	}
	return services.Wrap(marker, "preflight", "check", fmt.Sprintf("%s: %s", failure.Name, failure.Detail), nil)
}

func writeReportFile(cfg *config.Config, report pipeline.Report, result *pipeline.RunResult, runID string) (string, string, error) {
	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode report: %w", err)
	}
	name := fmt.Sprintf("wordmill-report-%s-%s.json",
		result.FinishedAt.UTC().Format("20060102-150405"), shortRunID(runID))
	path := filepath.Join(cfg.Paths.ReportDir, name)
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return "", "", fmt.Errorf("write report: %w", err)
	}
	return path, string(encoded), nil
}

func renderRunSummary(cmd *cobra.Command, report pipeline.Report, result *pipeline.RunResult, runID, reportPath string) {
	out := cmd.OutOrStdout()
	summary := report.Summary
	calls := summary.APICalls

	fmt.Fprintf(out, "Run %s finished in %s\n", shortRunID(runID), result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond))
	fmt.Fprintln(out, renderTable(
		[]string{"Words", "Classified", "Failed", "Success Rate", "API Calls", "Efficiency"},
		[][]string{{
			strconv.Itoa(summary.TotalWordsTested),
			strconv.Itoa(summary.FinalSuccessful),
			strconv.Itoa(summary.FinalFailed),
			formatPercent(summary.FinalSuccessRate),
			strconv.Itoa(calls.TotalCalls),
			formatEfficiency(calls.APIEfficiency),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))

	fmt.Fprintf(out, "Calls by tier: %d primary, %d failure, %d individual\n",
		calls.PrimaryBatches, calls.FailureBatches, calls.IndividualRetries)

	if counts := categoryCounts(result.Successful); len(counts) > 0 {
		rows := make([][]string, 0, len(counts))
		for _, count := range counts {
			rows = append(rows, []string{categoryLabel(count.Category), strconv.Itoa(count.Count)})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Category", "Words"},
			rows,
			[]columnAlignment{alignLeft, alignRight},
		))
	}

	if len(result.Failed) > 0 {
		fmt.Fprintf(out, "%d words exhausted all tiers:\n", len(result.Failed))
		for _, failure := range result.Failed {
			fmt.Fprintf(out, "  %s: %s\n", failure.Word, failure.LastError)
		}
	}

	fmt.Fprintf(out, "Report written to %s\n", reportPath)
}
