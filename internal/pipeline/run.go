package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"wordmill/internal/classify"
	"wordmill/internal/logging"
)

// Config holds the tunable pipeline parameters.
type Config struct {
	// BatchSize is the primary chunk size.
	BatchSize int
	// FailureThreshold is the queue depth that triggers a failure batch.
	FailureThreshold int
}

// RunResult aggregates everything the three tiers produced. Success and
// failure lists are concatenated per tier and do not preserve original
// input order.
type RunResult struct {
	WordListSize int

	Successful []classify.Result
	Failed     []classify.FailureRecord

	PrimaryOutcomes    []classify.BatchOutcome
	FailureOutcomes    []classify.BatchOutcome
	IndividualOutcomes []classify.BatchOutcome

	Stats      SessionStats
	StartedAt  time.Time
	FinishedAt time.Time
}

// Processor drives words through the escalation tiers sequentially. One
// Processor may be reused across runs; all per-run state lives in the
// accumulator created inside Run.
type Processor struct {
	cfg     Config
	adapter classify.Adapter
	pacer   Pacer
	logger  *slog.Logger
}

// Option customizes a Processor.
type Option func(*Processor)

// WithLogger attaches a logger for per-batch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPacer overrides the courtesy delay applied between individual calls.
func WithPacer(pacer Pacer) Option {
	return func(p *Processor) {
		if pacer != nil {
			p.pacer = pacer
		}
	}
}

// New validates the configuration and builds a Processor.
func New(cfg Config, adapter classify.Adapter, opts ...Option) (*Processor, error) {
	if adapter == nil {
		return nil, fmt.Errorf("pipeline: adapter is required")
	}
	if cfg.BatchSize < 1 {
		return nil, fmt.Errorf("pipeline: batch size must be positive, got %d", cfg.BatchSize)
	}
	if cfg.FailureThreshold < 1 {
		return nil, fmt.Errorf("pipeline: failure threshold must be positive, got %d", cfg.FailureThreshold)
	}
	processor := &Processor{
		cfg:     cfg,
		adapter: adapter,
		pacer:   NewSleepPacer(0),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(processor)
	}
	return processor, nil
}

// Run classifies every word to a terminal outcome. Classifier failures of
// any kind never abort the run; the only error paths are context
// cancellation and invalid input.
func (p *Processor) Run(ctx context.Context, words []string) (*RunResult, error) {
	result := &RunResult{
		WordListSize: len(words),
		StartedAt:    time.Now().UTC(),
	}
	acc := NewAccumulator(p.cfg.FailureThreshold)

	if err := p.runPrimary(ctx, words, acc, result); err != nil {
		return nil, err
	}
	if err := p.runIndividual(ctx, acc, result); err != nil {
		return nil, err
	}

	result.Stats = acc.Stats()
	result.FinishedAt = time.Now().UTC()

	p.logger.Info("classification run complete",
		logging.Int("words", result.WordListSize),
		logging.Int("successful", len(result.Successful)),
		logging.Int("failed", len(result.Failed)),
		logging.Int("api_calls", result.Stats.TotalAPICalls),
		logging.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)),
	)
	return result, nil
}

// failureTierRounds bounds how many times the failure tier may cycle the
// whole queue. A classifier that keeps failing the same words would
// otherwise re-queue them forever; once the bound is hit the leftovers fall
// through to the individual tier, which always terminates.
const failureTierRounds = 3

// runPrimary walks the input in contiguous chunks, escalating failures into
// the accumulator and draining full failure batches inline as soon as the
// threshold is reached.
func (p *Processor) runPrimary(ctx context.Context, words []string, acc *Accumulator, result *RunResult) error {
	maxFailureBatches := failureTierRounds * ((len(words) + p.cfg.FailureThreshold - 1) / p.cfg.FailureThreshold)
	for start := 0; start < len(words); start += p.cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+p.cfg.BatchSize, len(words))
		chunk := words[start:end]

		outcome := p.classifyBatch(ctx, chunk, classify.ModePrimary)
		acc.RecordPrimaryCall(len(chunk))
		acc.RecordSuccesses(len(outcome.Successful))
		result.PrimaryOutcomes = append(result.PrimaryOutcomes, outcome)
		result.Successful = append(result.Successful, outcome.Successful...)
		acc.AddFailures(outcome.Failed)

		p.logger.Debug("primary batch processed",
			logging.String(logging.FieldTier, string(classify.ModePrimary)),
			logging.Int(logging.FieldBatch, len(result.PrimaryOutcomes)),
			logging.Int("size", len(chunk)),
			logging.Int("failed", len(outcome.Failed)),
			logging.Int("queued", acc.Pending()),
		)

		// Failures can pile up past the threshold more than once per chunk.
		for acc.ShouldDrain() && len(result.FailureOutcomes) < maxFailureBatches {
			if err := ctx.Err(); err != nil {
				return err
			}
			p.runFailureBatch(ctx, acc, result)
		}
	}
	return nil
}

// runFailureBatch drains exactly one threshold-sized batch and
// re-classifies it with the stricter strategy. Failures re-enter the queue
// and may trigger the caller's drain loop again.
func (p *Processor) runFailureBatch(ctx context.Context, acc *Accumulator, result *RunResult) {
	batch := acc.DrainBatch()
	if len(batch) == 0 {
		return
	}
	outcome := p.classifyBatch(ctx, recordWords(batch), classify.ModeFailure)
	acc.RecordFailureCall()
	acc.RecordSuccesses(len(outcome.Successful))
	result.FailureOutcomes = append(result.FailureOutcomes, outcome)
	result.Successful = append(result.Successful, outcome.Successful...)
	acc.AddFailures(outcome.Failed)

	p.logger.Debug("failure batch processed",
		logging.String(logging.FieldTier, string(classify.ModeFailure)),
		logging.Int(logging.FieldBatch, len(result.FailureOutcomes)),
		logging.Int("recovered", len(outcome.Successful)),
		logging.Int("still_failing", len(outcome.Failed)),
		logging.Int("queued", acc.Pending()),
	)
}

// runIndividual processes the remaining queue one word per call. Words that
// fail here are terminal.
func (p *Processor) runIndividual(ctx context.Context, acc *Accumulator, result *RunResult) error {
	remainder := acc.DrainRemainder()
	for _, record := range remainder {
		if err := ctx.Err(); err != nil {
			return err
		}
		outcome := p.classifyBatch(ctx, []string{record.Word}, classify.ModeIndividual)
		acc.RecordIndividualCall()
		result.IndividualOutcomes = append(result.IndividualOutcomes, outcome)

		if len(outcome.Successful) > 0 {
			acc.RecordSuccesses(len(outcome.Successful))
			result.Successful = append(result.Successful, outcome.Successful...)
		} else {
			failure := record
			if len(outcome.Failed) > 0 {
				failure = outcome.Failed[0]
			}
			result.Failed = append(result.Failed, failure)
			p.logger.Debug("word exhausted all tiers",
				logging.String("word", failure.Word),
				logging.String("last_error", failure.LastError),
			)
		}

		if err := p.pacer.Pause(ctx); err != nil {
			return err
		}
	}
	return nil
}

// classifyBatch applies the whole-batch failure policy: when the adapter
// call itself errors, every word in the call escalates one tier, and the
// call still counts against the session.
func (p *Processor) classifyBatch(ctx context.Context, words []string, mode classify.Mode) classify.BatchOutcome {
	outcome, err := p.adapter.Classify(ctx, words, mode)
	if err != nil {
		p.logger.Warn("classifier call failed, escalating whole batch",
			logging.String(logging.FieldTier, string(mode)),
			logging.Int("size", len(words)),
			logging.Error(err),
		)
		return classify.FailedOutcome(words, mode, err)
	}
	return outcome
}

func recordWords(records []classify.FailureRecord) []string {
	words := make([]string, len(records))
	for i, record := range records {
		words[i] = record.Word
	}
	return words
}
