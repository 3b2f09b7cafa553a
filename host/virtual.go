package host

import (
	"context"
	"time"
)

// Virtual is a host with a simulated clock. Nothing happens on its own:
// the caller moves time with Advance or Sleep and runs the pending callback
// with RunCallback, RunUntilIdle or Drain.
type Virtual struct {
	now time.Duration

	callback Callback

	timeout   Timeout
	timeoutAt time.Duration

	shouldYield func() bool

	callbackRequests int
	timeoutRequests  int
}

func NewVirtual() *Virtual {
	return &Virtual{}
}

func (v *Virtual) Now() time.Duration {
	return v.now
}

func (v *Virtual) RequestCallback(cb func(hasTimeRemaining bool, now time.Duration) (bool, error)) {
	v.callback = cb
	v.callbackRequests++
}

func (v *Virtual) CancelCallback() {
	v.callback = nil
}

func (v *Virtual) RequestTimeout(cb func(now time.Duration), delay time.Duration) {
	v.timeout = cb
	v.timeoutAt = v.now + delay
	v.timeoutRequests++
}

func (v *Virtual) CancelTimeout() {
	v.timeout = nil
}

func (v *Virtual) ShouldYield() bool {
	return v.shouldYield != nil && v.shouldYield()
}

// SetShouldYield replaces the yield signal, nil never yields.
func (v *Virtual) SetShouldYield(fn func() bool) {
	v.shouldYield = fn
}

// Sleep moves the clock without firing the timeout, as if a task spent d running.
func (v *Virtual) Sleep(d time.Duration) {
	v.now += d
}

// Advance moves the clock and fires the timeout if it is due.
func (v *Virtual) Advance(d time.Duration) {
	v.now += d
	v.fireTimeout()
}

func (v *Virtual) HasCallback() bool {
	return v.callback != nil
}

// TimeoutAt returns when the pending timeout fires.
func (v *Virtual) TimeoutAt() (time.Duration, bool) {
	if v.timeout == nil {
		return 0, false
	}
	return v.timeoutAt, true
}

// Requests returns how many callbacks and timeouts were requested so far.
func (v *Virtual) Requests() (callbacks, timeouts int) {
	return v.callbackRequests, v.timeoutRequests
}

// RunCallback runs the pending callback once, reporting whether it has more work.
func (v *Virtual) RunCallback() (bool, error) {
	if v.callback == nil {
		return false, nil
	}

	return runCallback(&v.callback, v.now)
}

// RunUntilIdle runs the pending callback until it reports no more work,
// without moving the clock. It stops at the first error.
func (v *Virtual) RunUntilIdle() error {
	for v.callback != nil {
		if _, err := v.RunCallback(); err != nil {
			return err
		}
	}

	return nil
}

// Drain runs callbacks and jumps the clock to each pending timeout until
// nothing is left.
func (v *Virtual) Drain(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch {
		case v.callback != nil:
			if _, err := v.RunCallback(); err != nil {
				return err
			}
		case v.timeout != nil:
			if v.timeoutAt > v.now {
				v.now = v.timeoutAt
			}
			v.fireTimeout()
		default:
			return nil
		}
	}
}

func (v *Virtual) fireTimeout() {
	if v.timeout == nil || v.timeoutAt > v.now {
		return
	}

	cb := v.timeout
	v.timeout = nil
	cb(v.now)
}
