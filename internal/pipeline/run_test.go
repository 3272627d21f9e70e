package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wordmill/internal/classify"
	"wordmill/internal/pipeline"
)

type adapterCall struct {
	words []string
	mode  classify.Mode
}

// scriptedAdapter routes every call through behave and records the call
// sequence for assertions.
type scriptedAdapter struct {
	behave func(words []string, mode classify.Mode) (classify.BatchOutcome, error)
	calls  []adapterCall
}

func (a *scriptedAdapter) Classify(_ context.Context, words []string, mode classify.Mode) (classify.BatchOutcome, error) {
	copied := make([]string, len(words))
	copy(copied, words)
	a.calls = append(a.calls, adapterCall{words: copied, mode: mode})
	return a.behave(words, mode)
}

func succeedAll(words []string, mode classify.Mode) classify.BatchOutcome {
	outcome := classify.BatchOutcome{Mode: mode, TotalCount: len(words)}
	for _, word := range words {
		outcome.Successful = append(outcome.Successful, classify.Result{
			Word:       word,
			Category:   "noun",
			Confidence: 0.9,
			Tier:       mode,
		})
	}
	return outcome
}

func splitOutcome(words []string, mode classify.Mode, failing map[string]bool) classify.BatchOutcome {
	outcome := classify.BatchOutcome{Mode: mode, TotalCount: len(words)}
	for _, word := range words {
		if failing[word] {
			outcome.Failed = append(outcome.Failed, classify.FailureRecord{
				Word:      word,
				LastError: "confidence 0.40 below threshold 0.85",
				Tier:      mode,
			})
			continue
		}
		outcome.Successful = append(outcome.Successful, classify.Result{
			Word:       word,
			Category:   "noun",
			Confidence: 0.9,
			Tier:       mode,
		})
	}
	return outcome
}

type recordingPacer struct {
	pauses int
}

func (p *recordingPacer) Pause(context.Context) error {
	p.pauses++
	return nil
}

func wordListOfSize(n int) []string {
	words := make([]string, 0, n)
	for i := 0; i < n; i++ {
		words = append(words, fmt.Sprintf("word%03d", i))
	}
	return words
}

func newProcessor(t *testing.T, cfg pipeline.Config, adapter classify.Adapter, opts ...pipeline.Option) *pipeline.Processor {
	t.Helper()
	processor, err := pipeline.New(cfg, adapter, opts...)
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	return processor
}

func TestRunAllSucceed(t *testing.T) {
	adapter := &scriptedAdapter{
		behave: func(words []string, mode classify.Mode) (classify.BatchOutcome, error) {
			return succeedAll(words, mode), nil
		},
	}
	processor := newProcessor(t, pipeline.Config{BatchSize: 30, FailureThreshold: 10}, adapter)

	result, err := processor.Run(context.Background(), wordListOfSize(100))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Stats.PrimaryBatches != 4 || result.Stats.FailureBatches != 0 || result.Stats.IndividualRetries != 0 {
		t.Fatalf("unexpected tier counts: %+v", result.Stats)
	}
	if len(result.Successful) != 100 || len(result.Failed) != 0 {
		t.Fatalf("expected 100/0 terminal split, got %d/%d", len(result.Successful), len(result.Failed))
	}
	wantSizes := []int{30, 30, 30, 10}
	if len(adapter.calls) != len(wantSizes) {
		t.Fatalf("expected %d calls, got %d", len(wantSizes), len(adapter.calls))
	}
	for i, want := range wantSizes {
		if len(adapter.calls[i].words) != want {
			t.Fatalf("call %d: expected chunk of %d, got %d", i, want, len(adapter.calls[i].words))
		}
		if adapter.calls[i].mode != classify.ModePrimary {
			t.Fatalf("call %d: expected primary mode, got %s", i, adapter.calls[i].mode)
		}
	}
}

func TestRunEscalatesThroughAllTiers(t *testing.T) {
	words := wordListOfSize(25)
	failing := make(map[string]bool, 12)
	for _, word := range words[:12] {
		failing[word] = true
	}

	adapter := &scriptedAdapter{
		behave: func(batch []string, mode classify.Mode) (classify.BatchOutcome, error) {
			if mode == classify.ModePrimary {
				return splitOutcome(batch, mode, failing), nil
			}
			return succeedAll(batch, mode), nil
		},
	}
	pacer := &recordingPacer{}
	processor := newProcessor(t,
		pipeline.Config{BatchSize: 30, FailureThreshold: 10},
		adapter,
		pipeline.WithPacer(pacer),
	)

	result, err := processor.Run(context.Background(), words)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	stats := result.Stats
	if stats.PrimaryBatches != 1 || stats.FailureBatches != 1 || stats.IndividualRetries != 2 {
		t.Fatalf("unexpected tier counts: %+v", stats)
	}
	if stats.TotalAPICalls != 4 {
		t.Fatalf("expected 4 total calls, got %d", stats.TotalAPICalls)
	}
	if len(result.Successful) != 25 || len(result.Failed) != 0 {
		t.Fatalf("expected 25/0 terminal split, got %d/%d", len(result.Successful), len(result.Failed))
	}

	// The failure batch must hold exactly the first threshold failures in
	// arrival order.
	failureCall := adapter.calls[1]
	if failureCall.mode != classify.ModeFailure {
		t.Fatalf("expected failure mode on second call, got %s", failureCall.mode)
	}
	if len(failureCall.words) != 10 {
		t.Fatalf("expected drained batch of 10, got %d", len(failureCall.words))
	}
	for i, word := range words[:10] {
		if failureCall.words[i] != word {
			t.Fatalf("expected FIFO failure batch %v, got %v", words[:10], failureCall.words)
		}
	}

	// The two leftovers ride the individual tier, one word per call.
	for _, call := range adapter.calls[2:] {
		if call.mode != classify.ModeIndividual || len(call.words) != 1 {
			t.Fatalf("unexpected individual call %+v", call)
		}
	}
	if pacer.pauses != 2 {
		t.Fatalf("expected a pause per individual call, got %d", pacer.pauses)
	}
}

func TestRunAdapterErrorFailsWholeBatch(t *testing.T) {
	transport := errors.New("connection reset")
	adapter := &scriptedAdapter{
		behave: func(batch []string, mode classify.Mode) (classify.BatchOutcome, error) {
			if mode == classify.ModePrimary {
				return classify.BatchOutcome{}, transport
			}
			return succeedAll(batch, mode), nil
		},
	}
	processor := newProcessor(t, pipeline.Config{BatchSize: 30, FailureThreshold: 10}, adapter)

	result, err := processor.Run(context.Background(), wordListOfSize(30))
	if err != nil {
		t.Fatalf("adapter errors must not abort the run: %v", err)
	}

	if result.Stats.PrimaryBatches != 1 {
		t.Fatalf("failed call still counts: %+v", result.Stats)
	}
	// All 30 escalate and recover in three failure batches.
	if result.Stats.FailureBatches != 3 || result.Stats.IndividualRetries != 0 {
		t.Fatalf("unexpected escalation counts: %+v", result.Stats)
	}
	if len(result.Successful) != 30 || len(result.Failed) != 0 {
		t.Fatalf("expected full recovery, got %d/%d", len(result.Successful), len(result.Failed))
	}
}

func TestRunCompletesWhenClassifierNeverSucceeds(t *testing.T) {
	adapter := &scriptedAdapter{
		behave: func(batch []string, mode classify.Mode) (classify.BatchOutcome, error) {
			return classify.BatchOutcome{}, errors.New("permanently down")
		},
	}
	processor := newProcessor(t, pipeline.Config{BatchSize: 10, FailureThreshold: 5}, adapter)

	words := wordListOfSize(20)
	result, err := processor.Run(context.Background(), words)
	if err != nil {
		t.Fatalf("Run must terminate and report: %v", err)
	}

	if len(result.Successful) != 0 || len(result.Failed) != len(words) {
		t.Fatalf("expected every word terminally failed, got %d/%d", len(result.Successful), len(result.Failed))
	}
	stats := result.Stats
	if stats.TotalAPICalls != stats.PrimaryBatches+stats.FailureBatches+stats.IndividualRetries {
		t.Fatalf("call accounting broken: %+v", stats)
	}
	for _, failure := range result.Failed {
		if failure.LastError == "" {
			t.Fatalf("terminal failure missing last error: %+v", failure)
		}
	}
}

func TestRunConservation(t *testing.T) {
	// Deterministic but messy adapter: primary fails every third word,
	// failure tier fails every second of its batch, individual succeeds
	// only for even-length words.
	adapter := &scriptedAdapter{
		behave: func(batch []string, mode classify.Mode) (classify.BatchOutcome, error) {
			failing := make(map[string]bool)
			for i, word := range batch {
				switch mode {
				case classify.ModePrimary:
					if i%3 == 0 {
						failing[word] = true
					}
				case classify.ModeFailure:
					if i%2 == 0 {
						failing[word] = true
					}
				case classify.ModeIndividual:
					if len(word)%2 == 1 {
						failing[word] = true
					}
				}
			}
			return splitOutcome(batch, mode, failing), nil
		},
	}
	processor := newProcessor(t, pipeline.Config{BatchSize: 7, FailureThreshold: 4}, adapter)

	const n = 53
	result, err := processor.Run(context.Background(), wordListOfSize(n))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := len(result.Successful) + len(result.Failed); got != n {
		t.Fatalf("conservation violated: %d successful + %d failed != %d",
			len(result.Successful), len(result.Failed), n)
	}

	seen := make(map[string]int, n)
	for _, success := range result.Successful {
		seen[success.Word]++
	}
	for _, failure := range result.Failed {
		seen[failure.Word]++
	}
	for word, count := range seen {
		if count != 1 {
			t.Fatalf("word %q reached %d terminal states", word, count)
		}
	}

	stats := result.Stats
	if stats.TotalAPICalls != stats.PrimaryBatches+stats.FailureBatches+stats.IndividualRetries {
		t.Fatalf("call accounting broken: %+v", stats)
	}
	if stats.WordsProcessed != n {
		t.Fatalf("expected %d words processed, got %d", n, stats.WordsProcessed)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	adapter := &scriptedAdapter{
		behave: func(batch []string, mode classify.Mode) (classify.BatchOutcome, error) {
			cancel()
			return succeedAll(batch, mode), nil
		},
	}
	processor := newProcessor(t, pipeline.Config{BatchSize: 10, FailureThreshold: 5}, adapter)

	_, err := processor.Run(ctx, wordListOfSize(30))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(adapter.calls) != 1 {
		t.Fatalf("expected run to stop after first call, got %d calls", len(adapter.calls))
	}
}

func TestNewValidatesConfig(t *testing.T) {
	adapter := &scriptedAdapter{behave: func(batch []string, mode classify.Mode) (classify.BatchOutcome, error) {
		return succeedAll(batch, mode), nil
	}}

	if _, err := pipeline.New(pipeline.Config{BatchSize: 0, FailureThreshold: 10}, adapter); err == nil {
		t.Fatal("expected error for zero batch size")
	}
	if _, err := pipeline.New(pipeline.Config{BatchSize: 30, FailureThreshold: 0}, adapter); err == nil {
		t.Fatal("expected error for zero failure threshold")
	}
	if _, err := pipeline.New(pipeline.Config{BatchSize: 30, FailureThreshold: 10}, nil); err == nil {
		t.Fatal("expected error for nil adapter")
	}
}
