// Package cancel provides the stop signal polled between benchmark trials
// and build jobs.
//
// Two implementations of Canceler are provided:
//   - AtomicCanceler: a single atomic load per poll, used by sampler
//     workers that check between every trial
//   - ContextCanceler: wraps a context.Context, used by the build runner
//     so the same signal also kills child processes
//
// Both remember the first cause handed to CancelCause, so the
// goroutine that notices a wrong result can stop its siblings and the
// supervisor can report why.
package cancel

// Canceler signals that work should stop.
//
// Implementations must be safe for concurrent use: any number of
// goroutines may call Done while others call Cancel or CancelCause.
type Canceler interface {
	// Done returns true once Cancel or CancelCause has been called.
	Done() bool

	// Cancel triggers cancellation. Safe to call multiple times.
	Cancel()

	// CancelCause triggers cancellation and records err if no cause
	// has been recorded yet. A nil err records context.Canceled.
	CancelCause(err error)

	// Cause returns the first recorded cause, or nil before firing.
	// Cancel records context.Canceled.
	Cause() error
}
