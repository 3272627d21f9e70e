package pipeline

import (
	"context"
	"time"
)

// Pacer injects the courtesy delay applied between individual retry calls.
// It exists as an interface so the delay policy is testable without real
// wall-clock waits.
type Pacer interface {
	Pause(ctx context.Context) error
}

type sleepPacer struct {
	delay time.Duration
}

// NewSleepPacer returns a pacer that blocks for the configured delay, or a
// no-op pacer when the delay is not positive.
func NewSleepPacer(delay time.Duration) Pacer {
	return sleepPacer{delay: delay}
}

func (p sleepPacer) Pause(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
