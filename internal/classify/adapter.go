package classify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"wordmill/internal/logging"
	"wordmill/internal/services/llm"
)

// Adapter is the boundary to the external classifier. Implementations
// return an error only when the call itself failed (transport or parse);
// per-word problems are reported inside the outcome.
type Adapter interface {
	Classify(ctx context.Context, words []string, mode Mode) (BatchOutcome, error)
}

// LLMAdapter classifies words through the chat-completion client, applying
// the confidence threshold and identifier matching rules.
type LLMAdapter struct {
	client              *llm.Client
	categories          []string
	confidenceThreshold float64
	logger              *slog.Logger
}

// AdapterOption customizes the adapter.
type AdapterOption func(*LLMAdapter)

// WithLogger attaches a logger for per-call diagnostics.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(a *LLMAdapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewLLMAdapter builds the production adapter. Results whose confidence
// falls below threshold are reported as per-word failures.
func NewLLMAdapter(client *llm.Client, categories []string, threshold float64, opts ...AdapterOption) *LLMAdapter {
	adapter := &LLMAdapter{
		client:              client,
		categories:          categories,
		confidenceThreshold: threshold,
		logger:              logging.NewNop(),
	}
	for _, opt := range opts {
		opt(adapter)
	}
	return adapter
}

// Classify sends one call for the supplied words. Words missing from the
// response, answered under the confidence threshold, or answered with an
// unknown category fail individually; everything else succeeds.
func (a *LLMAdapter) Classify(ctx context.Context, words []string, mode Mode) (BatchOutcome, error) {
	if !mode.IsValid() {
		return BatchOutcome{}, fmt.Errorf("classify: unknown mode %q", mode)
	}
	if len(words) == 0 {
		return BatchOutcome{Mode: mode}, nil
	}

	answers, err := a.client.ClassifyWords(ctx, promptForMode(mode), a.categories, words)
	if err != nil {
		return BatchOutcome{}, fmt.Errorf("classify %s call: %w", mode, err)
	}

	requested := make(map[string]struct{}, len(words))
	for _, word := range words {
		requested[word] = struct{}{}
	}
	for word := range answers {
		if _, ok := requested[word]; !ok {
			a.logger.Debug("discarding unrequested word from response",
				logging.String("word", word),
				logging.String(logging.FieldTier, string(mode)))
		}
	}

	outcome := BatchOutcome{Mode: mode, TotalCount: len(words)}
	for _, word := range words {
		answer, ok := answers[word]
		switch {
		case !ok:
			outcome.Failed = append(outcome.Failed, FailureRecord{
				Word:      word,
				LastError: "word missing from classifier response",
				Tier:      mode,
			})
		case answer.Confidence < a.confidenceThreshold:
			outcome.Failed = append(outcome.Failed, FailureRecord{
				Word:      word,
				LastError: fmt.Sprintf("confidence %.2f below threshold %.2f", answer.Confidence, a.confidenceThreshold),
				Tier:      mode,
			})
		case !a.knownCategory(answer.Category):
			outcome.Failed = append(outcome.Failed, FailureRecord{
				Word:      word,
				LastError: fmt.Sprintf("unknown category %q", answer.Category),
				Tier:      mode,
			})
		default:
			outcome.Successful = append(outcome.Successful, Result{
				Word:       word,
				Category:   answer.Category,
				Confidence: answer.Confidence,
				Tier:       mode,
			})
		}
	}
	return outcome, nil
}

func (a *LLMAdapter) knownCategory(category string) bool {
	if len(a.categories) == 0 {
		return strings.TrimSpace(category) != ""
	}
	for _, known := range a.categories {
		if category == known {
			return true
		}
	}
	return false
}

func promptForMode(mode Mode) string {
	switch mode {
	case ModeFailure:
		return llm.EscalatedClassificationPrompt
	case ModeIndividual:
		return llm.IndividualClassificationPrompt
	default:
		return llm.BatchClassificationPrompt
	}
}
