// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"wordmill/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.LLM.APIKey = "test"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ReportDir = filepath.Join(base, "reports")
	cfg.Classifier.RetryDelaySeconds = 0

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithClassifierSizing overrides the batch size and failure threshold.
func WithClassifierSizing(batchSize, failureThreshold int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Classifier.BatchSize = batchSize
		cfg.Classifier.FailureThreshold = failureThreshold
	}
}

// WithNtfyTopic enables notifications on the test config.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
	}
}
