// Package pipeline implements the three-tier classification workflow:
// primary batches over the full word list, threshold-triggered failure
// batches over accumulated failures, and one-word-per-call individual
// retries for whatever remains. Every word ends in exactly one terminal
// state regardless of classifier behavior, and one accumulator owned by the
// run tracks all pending retries and session counters.
package pipeline
