package pipeline

import "wordmill/internal/classify"

// SessionStats carries the run-wide counters. WordsFailed is incremented
// optimistically when failures are queued and may exceed the terminal
// failure count mid-run; reports must derive final numbers from terminal
// outcomes, not from this counter.
type SessionStats struct {
	PrimaryBatches    int
	FailureBatches    int
	IndividualRetries int
	TotalAPICalls     int
	WordsProcessed    int
	WordsSuccessful   int
	WordsFailed       int
}

// EfficiencySnapshot summarizes call efficiency for a session in flight.
type EfficiencySnapshot struct {
	APIEfficiency float64
	SuccessRate   float64
	FailureRate   float64
}

// Accumulator owns the FIFO queue of failed words awaiting escalation plus
// the session counters. It performs no I/O and no classifier calls; the
// processor mutates it from a single control flow.
type Accumulator struct {
	threshold int
	queue     []classify.FailureRecord
	stats     SessionStats
}

// NewAccumulator builds an accumulator that drains in batches of threshold.
func NewAccumulator(threshold int) *Accumulator {
	if threshold < 1 {
		threshold = 1
	}
	return &Accumulator{threshold: threshold}
}

// AddFailures appends records to the tail, preserving arrival order.
func (a *Accumulator) AddFailures(records []classify.FailureRecord) {
	if len(records) == 0 {
		return
	}
	a.queue = append(a.queue, records...)
	a.stats.WordsFailed += len(records)
}

// ShouldDrain reports whether enough failures are queued for a full batch.
func (a *Accumulator) ShouldDrain() bool {
	return len(a.queue) >= a.threshold
}

// DrainBatch removes and returns exactly threshold records in FIFO order,
// or nothing at all when the queue has not reached the threshold.
func (a *Accumulator) DrainBatch() []classify.FailureRecord {
	if !a.ShouldDrain() {
		return nil
	}
	batch := make([]classify.FailureRecord, a.threshold)
	copy(batch, a.queue[:a.threshold])
	a.queue = a.queue[a.threshold:]
	return batch
}

// DrainRemainder removes and returns everything still queued, regardless of
// size. Called exactly once, after the primary phase ends.
func (a *Accumulator) DrainRemainder() []classify.FailureRecord {
	if len(a.queue) == 0 {
		return nil
	}
	remainder := make([]classify.FailureRecord, len(a.queue))
	copy(remainder, a.queue)
	a.queue = a.queue[:0]
	return remainder
}

// Pending returns the number of queued failures.
func (a *Accumulator) Pending() int {
	return len(a.queue)
}

// RecordPrimaryCall accounts for one primary-tier API call over n words.
func (a *Accumulator) RecordPrimaryCall(words int) {
	a.stats.PrimaryBatches++
	a.stats.TotalAPICalls++
	a.stats.WordsProcessed += words
}

// RecordFailureCall accounts for one failure-tier API call.
func (a *Accumulator) RecordFailureCall() {
	a.stats.FailureBatches++
	a.stats.TotalAPICalls++
}

// RecordIndividualCall accounts for one individual-tier API call.
func (a *Accumulator) RecordIndividualCall() {
	a.stats.IndividualRetries++
	a.stats.TotalAPICalls++
}

// RecordSuccesses adds terminal successes to the session counters.
func (a *Accumulator) RecordSuccesses(count int) {
	a.stats.WordsSuccessful += count
}

// Stats returns a copy of the session counters.
func (a *Accumulator) Stats() SessionStats {
	return a.stats
}

// Efficiency reports call efficiency with zero-call and zero-word guards.
func (a *Accumulator) Efficiency() EfficiencySnapshot {
	var snapshot EfficiencySnapshot
	if a.stats.TotalAPICalls > 0 {
		snapshot.APIEfficiency = float64(a.stats.WordsProcessed) / float64(a.stats.TotalAPICalls)
	}
	if a.stats.WordsProcessed > 0 {
		snapshot.SuccessRate = float64(a.stats.WordsSuccessful) / float64(a.stats.WordsProcessed)
		snapshot.FailureRate = float64(a.stats.WordsFailed) / float64(a.stats.WordsProcessed)
	}
	return snapshot
}
