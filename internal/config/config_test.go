package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wordmill/internal/config"
)

func TestLoadUsesDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")
	t.Setenv("DEEPSEEK_API_KEY", "")

	missing := filepath.Join(t.TempDir(), "config.toml")
	cfg, resolved, exists, err := config.Load(missing)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != missing {
		t.Fatalf("expected resolved path %q, got %q", missing, resolved)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("expected api key from environment, got %q", cfg.LLM.APIKey)
	}
	if cfg.Classifier.BatchSize != 30 {
		t.Fatalf("expected default batch size 30, got %d", cfg.Classifier.BatchSize)
	}
	if cfg.Classifier.FailureThreshold != 10 {
		t.Fatalf("expected default failure threshold 10, got %d", cfg.Classifier.FailureThreshold)
	}
	if cfg.Classifier.ConfidenceThreshold != 0.85 {
		t.Fatalf("expected default confidence threshold 0.85, got %v", cfg.Classifier.ConfidenceThreshold)
	}
	if len(cfg.Classifier.Categories) == 0 {
		t.Fatal("expected default categories")
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"

[llm]
api_key = "file-key"
model = "test/model"

[classifier]
batch_size = 5
failure_threshold = 3
confidence_threshold = 0.9
individual_retry_delay_seconds = 0.1
categories = ["Noun", "noun", " verb "]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if cfg.LLM.APIKey != "file-key" {
		t.Fatalf("file key should win over environment, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.Model != "test/model" {
		t.Fatalf("unexpected model %q", cfg.LLM.Model)
	}
	if cfg.Classifier.BatchSize != 5 || cfg.Classifier.FailureThreshold != 3 {
		t.Fatalf("unexpected classifier sizing: %+v", cfg.Classifier)
	}
	if got := cfg.Classifier.Categories; len(got) != 2 || got[0] != "noun" || got[1] != "verb" {
		t.Fatalf("expected deduplicated lowercase categories, got %v", got)
	}
	if cfg.RetryDelay() != 100*time.Millisecond {
		t.Fatalf("expected 100ms retry delay, got %s", cfg.RetryDelay())
	}
}

func TestLoadRejectsMissingAPIKey(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "")

	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "config.toml"))
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if !strings.Contains(err.Error(), "llm.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}
}

func TestLoadRejectsInvalidThreshold(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[classifier]
confidence_threshold = 1.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "confidence_threshold") {
		t.Fatalf("expected confidence threshold error, got %v", err)
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	cfg.Paths.ReportDir = filepath.Join(dir, "reports")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, path := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.ReportDir} {
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory at %s, err=%v", path, err)
		}
	}
	if got := cfg.HistoryDBPath(); got != filepath.Join(cfg.Paths.DataDir, "history.db") {
		t.Fatalf("unexpected history db path %q", got)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("OPENROUTER_API_KEY", "env-key")

	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("sample config should load cleanly, exists=%v err=%v", exists, err)
	}
}
