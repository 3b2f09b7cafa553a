// Package host provides environments a cadence scheduler can run in.
//
// A host tells the scheduler what time it is, runs its work loop "soon"
// after yielding, fires one-shot timeouts and answers whether the running
// slice should give control back. Three hosts are provided:
//
//   - Virtual, a simulated clock driven by the caller, for tests
//   - Headless, a real clock pumped by the caller through Drain
//   - Executor, a message loop confined to the goroutine calling Run
package host

import "time"

// Callback is the scheduler's work loop. It returns whether more work remains.
type Callback = func(hasTimeRemaining bool, now time.Duration) (bool, error)

// Timeout is a one-shot delayed callback.
type Timeout = func(now time.Duration)

// Clock measures monotonic time since it was created.
type Clock struct {
	start time.Time
}

func NewClock() Clock {
	return Clock{start: time.Now()}
}

func (c Clock) Now() time.Duration {
	return time.Since(c.start)
}

// runCallback invokes the callback held in slot. The slot is emptied for the
// duration of the call and the callback is kept if it reported more work,
// unless a new one was requested meanwhile.
func runCallback(slot *Callback, now time.Duration) (bool, error) {
	cb := *slot
	*slot = nil

	more, err := cb(true, now)
	if more && *slot == nil {
		*slot = cb
	}

	return more, err
}
