package tick

import (
	"sync/atomic"
	"time"
	_ "unsafe" // go:linkname
)

//go:linkname nanotime runtime.nanotime
func nanotime() int64

// AtomicTicker fires when runtime.nanotime passes a stored deadline.
//
// Tick is one clock read and one load on the fast path. When the
// deadline has passed, a compare-and-swap moves it forward, so exactly
// one of several concurrent pollers sees the beat. Beats are counted.
type AtomicTicker struct {
	interval int64 // ns
	deadline atomic.Int64
	beats    atomic.Uint64
}

// NewAtomicTicker returns a ticker whose first beat is one interval
// from now.
func NewAtomicTicker(interval time.Duration) *AtomicTicker {
	t := &AtomicTicker{interval: int64(interval)}
	t.Reset()
	return t
}

// New returns an AtomicTicker, or Never when interval is not positive.
func New(interval time.Duration) Ticker {
	if interval <= 0 {
		return Never{}
	}
	return NewAtomicTicker(interval)
}

// Tick reports whether the deadline has passed and, if so, starts the
// next interval from now. Missed beats are not replayed.
func (a *AtomicTicker) Tick() bool {
	now := nanotime()
	deadline := a.deadline.Load()
	if now < deadline {
		return false
	}
	if !a.deadline.CompareAndSwap(deadline, now+a.interval) {
		return false
	}
	a.beats.Add(1)
	return true
}

// Reset pushes the deadline to one interval from now.
func (a *AtomicTicker) Reset() {
	a.deadline.Store(nanotime() + a.interval)
}

// Stop does nothing; there is no timer to release.
func (a *AtomicTicker) Stop() {}

// Interval returns the configured period.
func (a *AtomicTicker) Interval() time.Duration {
	return time.Duration(a.interval)
}

// Beats returns how many times Tick has returned true.
func (a *AtomicTicker) Beats() uint64 {
	return a.beats.Load()
}
