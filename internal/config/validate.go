package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateClassifier(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/wordmill/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set OPENROUTER_API_KEY env var or edit %s (create with 'wordmill config init')", defaultPath)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateClassifier() error {
	if c.Classifier.BatchSize < 1 {
		return errors.New("classifier.batch_size must be >= 1")
	}
	if c.Classifier.FailureThreshold < 1 {
		return errors.New("classifier.failure_threshold must be >= 1")
	}
	if c.Classifier.FailureThreshold > c.Classifier.BatchSize {
		return errors.New("classifier.failure_threshold must not exceed classifier.batch_size")
	}
	if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold > 1 {
		return errors.New("classifier.confidence_threshold must be between 0 and 1")
	}
	if c.Classifier.RetryDelaySeconds < 0 {
		return errors.New("classifier.retry_delay_seconds must be >= 0")
	}
	if len(c.Classifier.Categories) == 0 {
		return errors.New("classifier.categories must include at least one category")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}
