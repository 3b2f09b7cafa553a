package internal

import (
	"context"
	"time"
)

// HostCallback is invoked by the host "soon". It returns whether more work
// remains, in which case the host should call it again after yielding.
type HostCallback = func(hasTimeRemaining bool, now time.Duration) (bool, error)

// HostTimeout is invoked once after a requested delay.
type HostTimeout = func(now time.Duration)

// Host is the environment a Scheduler runs in.
type Host interface {
	// monotonic time since the host's epoch
	Now() time.Duration

	RequestCallback(cb func(hasTimeRemaining bool, now time.Duration) (bool, error))
	CancelCallback()

	RequestTimeout(cb func(now time.Duration), delay time.Duration)
	CancelTimeout()

	// true when the host wants control back
	ShouldYield() bool
}

// Drainer is implemented by hosts that can be pumped by the caller until idle.
type Drainer interface {
	Drain(ctx context.Context) error
}
