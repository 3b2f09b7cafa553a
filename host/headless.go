package host

import (
	"context"
	"time"
)

// DefaultMaxSlice caps how long a headless slice runs before yielding.
const DefaultMaxSlice = 300 * time.Millisecond

// Headless is a real time host without an event loop of its own. Work only
// runs when the owner pumps it with Drain or RunPending.
type Headless struct {
	clock Clock

	callback Callback

	timeout   Timeout
	timeoutAt time.Duration

	sliceStart time.Duration
	maxSlice   time.Duration
}

func NewHeadless() *Headless {
	return &Headless{
		clock:    NewClock(),
		maxSlice: DefaultMaxSlice,
	}
}

// SetMaxSlice changes how long a slice may run, zero never yields.
func (h *Headless) SetMaxSlice(d time.Duration) {
	h.maxSlice = d
}

func (h *Headless) Now() time.Duration {
	return h.clock.Now()
}

func (h *Headless) RequestCallback(cb func(hasTimeRemaining bool, now time.Duration) (bool, error)) {
	h.callback = cb
}

func (h *Headless) CancelCallback() {
	h.callback = nil
}

func (h *Headless) RequestTimeout(cb func(now time.Duration), delay time.Duration) {
	h.timeout = cb
	h.timeoutAt = h.Now() + delay
}

func (h *Headless) CancelTimeout() {
	h.timeout = nil
}

func (h *Headless) ShouldYield() bool {
	return h.maxSlice > 0 && h.Now()-h.sliceStart >= h.maxSlice
}

// Idle reports whether nothing is pending.
func (h *Headless) Idle() bool {
	return h.callback == nil && h.timeout == nil
}

// RunPending runs the pending callback once, or the timeout if it is due,
// without blocking. It reports whether anything ran.
func (h *Headless) RunPending() (bool, error) {
	if h.callback != nil {
		h.sliceStart = h.Now()
		_, err := runCallback(&h.callback, h.sliceStart)
		return true, err
	}

	if h.timeout != nil && h.timeoutAt <= h.Now() {
		h.fireTimeout()
		return true, nil
	}

	return false, nil
}

// Drain runs work until nothing is pending, sleeping until timeouts are due.
// A failing callback stops the drain, calling Drain again resumes it.
func (h *Headless) Drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if h.callback != nil {
			h.sliceStart = h.Now()
			if _, err := runCallback(&h.callback, h.sliceStart); err != nil {
				return err
			}
			continue
		}

		if h.timeout == nil {
			return nil
		}

		if wait := h.timeoutAt - h.Now(); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		h.fireTimeout()
	}
}

func (h *Headless) fireTimeout() {
	cb := h.timeout
	h.timeout = nil
	if cb != nil {
		cb(h.Now())
	}
}
