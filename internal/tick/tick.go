// Package tick provides the progress heartbeat used by long sampling runs.
//
// The collector polls Tick after every sample it drains; when it fires,
// a progress line is logged. Polling must stay cheap because it sits in
// the same loop that empties the sample queue.
package tick

import "time"

// Ticker signals when a time interval has elapsed.
type Ticker interface {
	// Tick returns true if the interval has elapsed since the last tick.
	// This is a non-blocking check.
	Tick() bool

	// Reset starts a new interval from now.
	Reset()

	// Stop releases any resources held by the ticker.
	Stop()
}

// DefaultInterval is the progress period used when none is configured.
const DefaultInterval = 2 * time.Second

// Never is a Ticker that never fires, for runs with progress disabled.
type Never struct{}

func (Never) Tick() bool { return false }
func (Never) Reset()     {}
func (Never) Stop()      {}
