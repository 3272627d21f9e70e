package pipeline

import (
	"time"

	"wordmill/internal/classify"
)

// Report is the persisted run summary. Field layout matches the JSON
// document written to the report directory and stored in run history.
type Report struct {
	Timestamp          string             `json:"timestamp"`
	TestType           string             `json:"test_type"`
	WordListSize       int                `json:"word_list_size"`
	BatchSize          int                `json:"batch_size"`
	FailureThreshold   int                `json:"failure_threshold"`
	Summary            Summary            `json:"summary"`
	Results            Results            `json:"results"`
	BatchDetails       BatchDetails       `json:"batch_details"`
	EfficiencyAnalysis EfficiencyAnalysis `json:"efficiency_analysis"`
}

// Summary aggregates terminal outcomes and call accounting.
type Summary struct {
	TotalWordsTested int              `json:"total_words_tested"`
	FinalSuccessful  int              `json:"final_successful"`
	FinalFailed      int              `json:"final_failed"`
	FinalSuccessRate float64          `json:"final_success_rate"`
	APICalls         APICallBreakdown `json:"api_calls"`
}

// APICallBreakdown splits the consumed calls by tier.
type APICallBreakdown struct {
	PrimaryBatches    int     `json:"primary_batches"`
	FailureBatches    int     `json:"failure_batches"`
	IndividualRetries int     `json:"individual_retries"`
	TotalCalls        int     `json:"total_calls"`
	APIEfficiency     float64 `json:"api_efficiency"`
}

// Results lists every word's terminal outcome.
type Results struct {
	Successful []WordResult  `json:"successful"`
	Failed     []WordFailure `json:"failed"`
}

// WordResult is one terminally successful word.
type WordResult struct {
	Word       string  `json:"word"`
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Tier       string  `json:"tier"`
}

// WordFailure is one word that exhausted every tier.
type WordFailure struct {
	Word      string `json:"word"`
	LastError string `json:"last_error"`
	Tier      string `json:"tier_attempted"`
}

// BatchDetails records per-call outcomes for the two batch tiers.
type BatchDetails struct {
	PrimaryBatches []BatchDetail `json:"primary_batches"`
	FailureBatches []BatchDetail `json:"failure_batches"`
}

// BatchDetail summarizes a single batch call.
type BatchDetail struct {
	Batch       int     `json:"batch"`
	Size        int     `json:"size"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"`
}

// EfficiencyAnalysis compares the run against the one-call-per-word
// baseline.
type EfficiencyAnalysis struct {
	TraditionalApproach Approach `json:"traditional_approach"`
	CurrentSystem       Approach `json:"current_system"`
}

// Approach describes the call cost of one strategy.
type Approach struct {
	APICalls     int     `json:"api_calls"`
	CallsPerWord float64 `json:"calls_per_word"`
	Improvement  float64 `json:"improvement,omitempty"`
	Description  string  `json:"description"`
}

// ReportParams carries the run configuration echoed into the report.
type ReportParams struct {
	TestType         string
	BatchSize        int
	FailureThreshold int
	Timestamp        time.Time
}

// BuildReport is a pure aggregation over a finished run. It reads only
// terminal outcomes, never the transient session counters.
func BuildReport(result *RunResult, params ReportParams) Report {
	timestamp := params.Timestamp
	if timestamp.IsZero() {
		timestamp = result.FinishedAt
	}
	testType := params.TestType
	if testType == "" {
		testType = "tiered_batch_classification"
	}

	summary := Summary{
		TotalWordsTested: result.WordListSize,
		FinalSuccessful:  len(result.Successful),
		FinalFailed:      len(result.Failed),
		APICalls: APICallBreakdown{
			PrimaryBatches:    result.Stats.PrimaryBatches,
			FailureBatches:    result.Stats.FailureBatches,
			IndividualRetries: result.Stats.IndividualRetries,
			TotalCalls:        result.Stats.TotalAPICalls,
		},
	}
	if result.WordListSize > 0 {
		summary.FinalSuccessRate = float64(len(result.Successful)) / float64(result.WordListSize)
	}

	var efficiency float64
	if summary.APICalls.TotalCalls > 0 {
		efficiency = float64(result.WordListSize) / float64(summary.APICalls.TotalCalls)
	}
	summary.APICalls.APIEfficiency = efficiency

	var callsPerWord float64
	if result.WordListSize > 0 {
		callsPerWord = float64(summary.APICalls.TotalCalls) / float64(result.WordListSize)
	}

	return Report{
		Timestamp:        timestamp.UTC().Format(time.RFC3339),
		TestType:         testType,
		WordListSize:     result.WordListSize,
		BatchSize:        params.BatchSize,
		FailureThreshold: params.FailureThreshold,
		Summary:          summary,
		Results: Results{
			Successful: wordResults(result.Successful),
			Failed:     wordFailures(result.Failed),
		},
		BatchDetails: BatchDetails{
			PrimaryBatches: batchDetails(result.PrimaryOutcomes),
			FailureBatches: batchDetails(result.FailureOutcomes),
		},
		EfficiencyAnalysis: EfficiencyAnalysis{
			TraditionalApproach: Approach{
				APICalls:     result.WordListSize,
				CallsPerWord: 1,
				Description:  "one classification call per word",
			},
			CurrentSystem: Approach{
				APICalls:     summary.APICalls.TotalCalls,
				CallsPerWord: callsPerWord,
				Improvement:  efficiency - 1.0,
				Description:  "tiered batching with failure escalation",
			},
		},
	}
}

func wordResults(results []classify.Result) []WordResult {
	out := make([]WordResult, 0, len(results))
	for _, r := range results {
		out = append(out, WordResult{
			Word:       r.Word,
			Category:   r.Category,
			Confidence: r.Confidence,
			Tier:       string(r.Tier),
		})
	}
	return out
}

func wordFailures(failures []classify.FailureRecord) []WordFailure {
	out := make([]WordFailure, 0, len(failures))
	for _, f := range failures {
		out = append(out, WordFailure{
			Word:      f.Word,
			LastError: f.LastError,
			Tier:      string(f.Tier),
		})
	}
	return out
}

func batchDetails(outcomes []classify.BatchOutcome) []BatchDetail {
	out := make([]BatchDetail, 0, len(outcomes))
	for i, outcome := range outcomes {
		out = append(out, BatchDetail{
			Batch:       i + 1,
			Size:        outcome.TotalCount,
			Successful:  len(outcome.Successful),
			Failed:      len(outcome.Failed),
			SuccessRate: outcome.SuccessRate(),
		})
	}
	return out
}
