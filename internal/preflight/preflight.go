package preflight

import (
	"context"

	"wordmill/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options tunes which checks run.
type Options struct {
	// SkipHealthCheck disables the live classifier API probe. Credential
	// presence is still verified.
	SkipHealthCheck bool
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDirectoryAccess("Report directory", cfg.Paths.ReportDir))
	results = append(results, CheckCredentials(cfg.GetLLM()))
	if !opts.SkipHealthCheck {
		results = append(results, CheckLLM(ctx, "Classifier API", cfg.GetLLM()))
	}
	results = append(results, CheckHistoryDB(cfg))

	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

// FirstFailure returns the first failed check, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, result := range results {
		if !result.Passed {
			return result, true
		}
	}
	return Result{}, false
}
