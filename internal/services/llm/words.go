package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// WordClassification is the model's answer for a single word.
type WordClassification struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

type wordRequest struct {
	Categories []string `json:"categories"`
	Words      []string `json:"words"`
}

type wordResponse struct {
	Words []struct {
		Word       string  `json:"word"`
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
	} `json:"words"`
}

// ClassifyWords sends one classification call for the supplied words using
// the given prompt strategy and returns the parsed answers keyed by word.
// The response may contain words that were never requested; callers decide
// how to treat those.
func (c *Client) ClassifyWords(ctx context.Context, systemPrompt string, categories, words []string) (map[string]WordClassification, error) {
	if len(words) == 0 {
		return nil, errors.New("llm classify: at least one word required")
	}
	if c.cfg.APIKey == "" {
		return nil, errors.New("llm classify: api key required")
	}

	request := wordRequest{Categories: categories, Words: words}
	encoded, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("llm classify: encode request: %w", err)
	}

	content, err := c.CompleteJSON(ctx, systemPrompt, string(encoded))
	if err != nil {
		return nil, err
	}

	var parsed wordResponse
	if err := DecodeLLMJSON(content, &parsed); err != nil {
		return nil, fmt.Errorf("llm classify: parse payload: %w", err)
	}

	answers := make(map[string]WordClassification, len(parsed.Words))
	for _, entry := range parsed.Words {
		word := strings.TrimSpace(entry.Word)
		if word == "" {
			continue
		}
		confidence := entry.Confidence
		if confidence < 0 {
			confidence = 0
		}
		if confidence > 1 {
			confidence = 1
		}
		answers[word] = WordClassification{
			Category:   strings.ToLower(strings.TrimSpace(entry.Category)),
			Confidence: confidence,
		}
	}
	return answers, nil
}
