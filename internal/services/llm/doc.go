// Package llm wraps the OpenRouter-compatible chat completion API used for
// grammatical word classification. The client retries transient transport
// failures with capped exponential backoff and tolerates the JSON
// formatting quirks common to LLM responses.
package llm
