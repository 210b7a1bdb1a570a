// Package guardrails holds cross cutting safety helpers for job runs
package guardrails

import (
	"context"
	"time"
)

// Budget bounds one job invocation.
// Zero values mean no extra timeout at that level
type Budget struct {
	// Run is the overall wall-clock budget for the whole job
	Run time.Duration

	// Fetch caps a single upstream page or detail fetch
	Fetch time.Duration

	// Persist caps the store write step
	Persist time.Duration
}

// WithRun returns a context limited by the run budget without extending any
// parent deadline. A zero budget returns a cancelable child that inherits
// the parent deadline
func WithRun(parent context.Context, b Budget) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, b.Run)
}

// ForFetch returns a sub context for one upstream call bounded by Fetch and
// any remaining run budget
func ForFetch(parent context.Context, b Budget) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, b.Fetch)
}

// ForPersist returns a sub context for the store write bounded by Persist and
// any remaining run budget
func ForPersist(parent context.Context, b Budget) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, b.Persist)
}

// Remaining returns the time until the deadline on ctx, zero when none is set
// or it already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		d := time.Until(dl)
		if d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout chooses the tighter of the requested duration and any
// parent remainder. Never extends the parent deadline
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
