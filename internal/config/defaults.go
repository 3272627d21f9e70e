package config

const (
	defaultDataDir             = "~/.local/share/wordmill"
	defaultLogDir              = "~/.local/share/wordmill/logs"
	defaultReportDir           = "~/.local/share/wordmill/reports"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultLLMBaseURL          = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel            = "deepseek/deepseek-chat-v3.1"
	defaultLLMReferer          = "https://github.com/wordmill/wordmill"
	defaultLLMTitle            = "Wordmill Classifier"
	defaultLLMTimeoutSeconds   = 30
	defaultBatchSize           = 30
	defaultFailureThreshold    = 10
	defaultConfidenceThreshold = 0.85
	defaultRetryDelaySeconds   = 0.75
	defaultNotifyTimeout       = 10
)

func defaultCategories() []string {
	return []string{
		"noun",
		"verb",
		"adjective",
		"adverb",
		"pronoun",
		"preposition",
		"conjunction",
		"interjection",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:   defaultDataDir,
			LogDir:    defaultLogDir,
			ReportDir: defaultReportDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Classifier: Classifier{
			BatchSize:           defaultBatchSize,
			FailureThreshold:    defaultFailureThreshold,
			ConfidenceThreshold: defaultConfidenceThreshold,
			RetryDelaySeconds:   defaultRetryDelaySeconds,
			Categories:          defaultCategories(),
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			RunStarted:     true,
			RunCompleted:   true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
