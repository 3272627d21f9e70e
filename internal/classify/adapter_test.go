package classify_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wordmill/internal/classify"
	"wordmill/internal/services/llm"
)

var testCategories = []string{"noun", "verb", "adjective"}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) (*classify.LLMAdapter, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := llm.NewClient(llm.Config{
		APIKey:  "test",
		BaseURL: server.URL,
		Model:   "test/model",
	}, llm.WithRetryMaxAttempts(1))
	return classify.NewLLMAdapter(client, testCategories, 0.85), server
}

func completionWith(t *testing.T, content string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal completion: %v", err)
	}
	return body
}

func TestClassifySplitsPerWordOutcomes(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		content := `{"words": [
			{"word": "river", "category": "noun", "confidence": 0.95},
			{"word": "swim", "category": "verb", "confidence": 0.42},
			{"word": "blue", "category": "color", "confidence": 0.99},
			{"word": "unrequested", "category": "noun", "confidence": 0.9}
		]}`
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionWith(t, content))
	})

	outcome, err := adapter.Classify(context.Background(), []string{"river", "swim", "blue", "ghost"}, classify.ModePrimary)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	if outcome.TotalCount != 4 {
		t.Fatalf("expected total 4, got %d", outcome.TotalCount)
	}
	if len(outcome.Successful) != 1 || outcome.Successful[0].Word != "river" {
		t.Fatalf("unexpected successes: %+v", outcome.Successful)
	}
	if outcome.Successful[0].Tier != classify.ModePrimary {
		t.Fatalf("success should carry the call tier, got %s", outcome.Successful[0].Tier)
	}

	reasons := make(map[string]string, len(outcome.Failed))
	for _, failure := range outcome.Failed {
		reasons[failure.Word] = failure.LastError
	}
	if len(reasons) != 3 {
		t.Fatalf("expected 3 failures, got %+v", outcome.Failed)
	}
	if !strings.Contains(reasons["swim"], "confidence 0.42 below threshold 0.85") {
		t.Fatalf("unexpected low-confidence reason %q", reasons["swim"])
	}
	if !strings.Contains(reasons["blue"], `unknown category "color"`) {
		t.Fatalf("unexpected category reason %q", reasons["blue"])
	}
	if reasons["ghost"] != "word missing from classifier response" {
		t.Fatalf("unexpected missing-word reason %q", reasons["ghost"])
	}
}

func TestClassifyTransportErrorFailsWholeCall(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	})

	_, err := adapter.Classify(context.Background(), []string{"river"}, classify.ModePrimary)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestClassifySelectsPromptPerMode(t *testing.T) {
	var prompts []string
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err == nil && len(payload.Messages) > 0 {
			prompts = append(prompts, payload.Messages[0].Content)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionWith(t, `{"words": [{"word": "river", "category": "noun", "confidence": 0.95}]}`))
	})

	ctx := context.Background()
	for _, mode := range []classify.Mode{classify.ModePrimary, classify.ModeFailure, classify.ModeIndividual} {
		if _, err := adapter.Classify(ctx, []string{"river"}, mode); err != nil {
			t.Fatalf("Classify %s: %v", mode, err)
		}
	}

	if len(prompts) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(prompts))
	}
	want := []string{llm.BatchClassificationPrompt, llm.EscalatedClassificationPrompt, llm.IndividualClassificationPrompt}
	for i, prompt := range want {
		if prompts[i] != prompt {
			t.Fatalf("call %d used the wrong prompt strategy", i)
		}
	}
	if prompts[0] == prompts[1] || prompts[1] == prompts[2] {
		t.Fatal("prompt strategies must differ per mode")
	}
}

func TestClassifyRejectsUnknownMode(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for invalid mode")
	})

	if _, err := adapter.Classify(context.Background(), []string{"river"}, classify.Mode("bogus")); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestClassifyEmptyBatchSkipsCall(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty batch")
	})

	outcome, err := adapter.Classify(context.Background(), nil, classify.ModePrimary)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if outcome.TotalCount != 0 || len(outcome.Successful) != 0 || len(outcome.Failed) != 0 {
		t.Fatalf("expected empty outcome, got %+v", outcome)
	}
}

func TestClassifyLargeBatchKeepsRequestOrderIndependent(t *testing.T) {
	adapter, _ := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		var request struct {
			Words []string `json:"words"`
		}
		if err := json.Unmarshal([]byte(payload.Messages[1].Content), &request); err != nil {
			t.Fatalf("decode word request: %v", err)
		}
		// Answer in reverse order; the adapter keys by word.
		entries := make([]string, 0, len(request.Words))
		for i := len(request.Words) - 1; i >= 0; i-- {
			entries = append(entries, fmt.Sprintf(`{"word": %q, "category": "noun", "confidence": 0.9}`, request.Words[i]))
		}
		content := `{"words": [` + strings.Join(entries, ",") + `]}`
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(completionWith(t, content))
	})

	words := []string{"alpha", "beta", "gamma", "delta"}
	outcome, err := adapter.Classify(context.Background(), words, classify.ModeFailure)
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if len(outcome.Successful) != len(words) {
		t.Fatalf("expected all successes, got %+v", outcome)
	}
}
