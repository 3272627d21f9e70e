// Package classify defines the classifier adapter boundary: the outcome
// types exchanged between the retry pipeline and the external LLM
// classifier, and the adapter that converts raw model responses into
// per-word successes and failures.
package classify
