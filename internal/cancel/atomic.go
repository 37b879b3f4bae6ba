package cancel

import (
	"context"
	"sync/atomic"
)

// AtomicCanceler keeps the stop flag and the cause in separate atomics
// so the per-trial poll is one load.
type AtomicCanceler struct {
	done  atomic.Bool
	cause atomic.Pointer[error]
}

// NewAtomic returns an AtomicCanceler that has not fired.
func NewAtomic() *AtomicCanceler {
	return &AtomicCanceler{}
}

// Done reports whether the canceler has fired.
func (a *AtomicCanceler) Done() bool {
	return a.done.Load()
}

// Cancel fires with context.Canceled as the cause.
func (a *AtomicCanceler) Cancel() {
	a.CancelCause(nil)
}

// CancelCause fires and keeps err unless an earlier call won. A nil err
// is recorded as context.Canceled.
func (a *AtomicCanceler) CancelCause(err error) {
	if err == nil {
		err = context.Canceled
	}
	a.cause.CompareAndSwap(nil, &err)
	a.done.Store(true)
}

// Cause returns the first recorded cause, or nil before firing.
func (a *AtomicCanceler) Cause() error {
	if p := a.cause.Load(); p != nil {
		return *p
	}
	return nil
}

// Reset clears the flag and the cause so the canceler can guard another
// run. Not safe to call while workers are still polling.
func (a *AtomicCanceler) Reset() {
	a.cause.Store(nil)
	a.done.Store(false)
}
