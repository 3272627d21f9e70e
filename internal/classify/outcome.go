package classify

import "strings"

// Mode selects the prompt strategy used for a classification call. Later
// modes trade throughput for per-word accuracy.
type Mode string

const (
	ModePrimary    Mode = "primary"
	ModeFailure    Mode = "failure"
	ModeIndividual Mode = "individual"
)

var allModes = []Mode{ModePrimary, ModeFailure, ModeIndividual}

// IsValid reports whether the mode is one of the recognized strategies.
func (m Mode) IsValid() bool {
	for _, mode := range allModes {
		if m == mode {
			return true
		}
	}
	return false
}

// Result is one successful classification for one word.
type Result struct {
	Word       string
	Category   string
	Confidence float64
	Tier       Mode
}

// FailureRecord is a word that did not reach success in the tier that
// attempted it, queued for escalation.
type FailureRecord struct {
	Word      string
	LastError string
	Tier      Mode
}

// BatchOutcome is the result of one adapter call over one batch of words.
type BatchOutcome struct {
	Mode       Mode
	Successful []Result
	Failed     []FailureRecord
	TotalCount int
}

// SuccessRate returns the fraction of words in the call that succeeded.
func (o BatchOutcome) SuccessRate() float64 {
	if o.TotalCount <= 0 {
		return 0
	}
	return float64(len(o.Successful)) / float64(o.TotalCount)
}

// FailedOutcome synthesizes an outcome where every requested word failed
// with the same error. Used by the pipeline when the adapter call itself
// errors (whole-batch failure policy).
func FailedOutcome(words []string, mode Mode, err error) BatchOutcome {
	message := "classification call failed"
	if err != nil {
		if trimmed := strings.TrimSpace(err.Error()); trimmed != "" {
			message = trimmed
		}
	}
	failed := make([]FailureRecord, 0, len(words))
	for _, word := range words {
		failed = append(failed, FailureRecord{Word: word, LastError: message, Tier: mode})
	}
	return BatchOutcome{Mode: mode, Failed: failed, TotalCount: len(words)}
}
