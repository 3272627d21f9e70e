// Command wordmill classifies word lists by grammatical role through a
// tiered batch pipeline backed by an LLM classifier.
package main
