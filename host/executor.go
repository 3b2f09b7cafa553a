package host

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/joeycumines/logiface"
)

const (
	DefaultYieldInterval    = 5 * time.Millisecond
	DefaultMaxYieldInterval = 300 * time.Millisecond
	DefaultPostBuffer       = 1024
)

// Executor is a real time message loop confined to the goroutine that calls
// Run. Work from other goroutines enters through Post. Scheduler callbacks run
// one slice per message, and a slice yields once its frame deadline passes.
//
// Every method except Post, Now and Running must be called from the Run
// goroutine (or before Run starts).
type Executor struct {
	clock  Clock
	logger *logiface.Logger[logiface.Event]

	posts   chan func()
	done    chan struct{}
	started atomic.Bool

	// messages posted by the loop to itself
	local []func()

	callback           Callback
	callbackGen        uint64
	messageLoopRunning bool

	timer    *time.Timer
	timerGen uint64

	sliceStart       time.Duration
	deadline         time.Duration
	yieldInterval    time.Duration
	maxYieldInterval time.Duration
	needsPaint       bool
	inputPending     func() bool

	onError func(error)

	performFn func()
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithYieldInterval sets the length of a slice.
func WithYieldInterval(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.yieldInterval = d
		}
	}
}

// WithMaxYieldInterval caps a slice when an input probe reports nothing pending.
func WithMaxYieldInterval(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		if d > 0 {
			e.maxYieldInterval = d
		}
	}
}

// WithInputPending installs a probe for pending input. With it, a slice past
// its deadline only yields if input or a paint is pending, or the max yield
// interval elapsed.
func WithInputPending(fn func() bool) ExecutorOption {
	return func(e *Executor) {
		e.inputPending = fn
	}
}

// WithErrorHandler receives errors and recovered panics from callbacks and
// posted functions. Without it they are logged.
func WithErrorHandler(fn func(error)) ExecutorOption {
	return func(e *Executor) {
		e.onError = fn
	}
}

func WithExecutorLogger(logger *logiface.Logger[logiface.Event]) ExecutorOption {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithPostBuffer sizes the channel used by Post.
func WithPostBuffer(n int) ExecutorOption {
	return func(e *Executor) {
		if n > 0 {
			e.posts = make(chan func(), n)
		}
	}
}

func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		clock:            NewClock(),
		done:             make(chan struct{}),
		yieldInterval:    DefaultYieldInterval,
		maxYieldInterval: DefaultMaxYieldInterval,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.posts == nil {
		e.posts = make(chan func(), DefaultPostBuffer)
	}
	e.performFn = e.performWorkUntilDeadline

	return e
}

func (e *Executor) Now() time.Duration {
	return e.clock.Now()
}

// Post queues fn to run on the Run goroutine. It is safe for concurrent use.
func (e *Executor) Post(fn func()) error {
	select {
	case <-e.done:
		return ErrExecutorStopped
	default:
	}

	select {
	case e.posts <- fn:
		return nil
	case <-e.done:
		return ErrExecutorStopped
	}
}

// Running reports whether Run has started and not returned.
func (e *Executor) Running() bool {
	if !e.started.Load() {
		return false
	}

	select {
	case <-e.done:
		return false
	default:
		return true
	}
}

// Run processes messages on the calling goroutine until ctx is done.
// An executor runs once.
func (e *Executor) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return ErrExecutorRunning
	}
	defer close(e.done)
	defer e.CancelTimeout()

	e.logger.Debug().Log("executor started")
	defer e.logger.Debug().Log("executor stopped")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if len(e.local) > 0 {
			// let posted work in between slices
			select {
			case fn := <-e.posts:
				e.call(fn)
			default:
			}

			fn := e.local[0]
			e.local[0] = nil
			e.local = e.local[1:]
			e.call(fn)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-e.posts:
			e.call(fn)
		}
	}
}

func (e *Executor) RequestCallback(cb func(hasTimeRemaining bool, now time.Duration) (bool, error)) {
	e.callback = cb
	e.callbackGen++
	if !e.messageLoopRunning {
		e.messageLoopRunning = true
		e.local = append(e.local, e.performFn)
	}
}

func (e *Executor) CancelCallback() {
	e.callback = nil
}

func (e *Executor) RequestTimeout(cb func(now time.Duration), delay time.Duration) {
	e.CancelTimeout()

	gen := e.timerGen
	e.timer = time.AfterFunc(delay, func() {
		_ = e.Post(func() {
			if gen != e.timerGen {
				return
			}
			e.timer = nil
			cb(e.Now())
		})
	})
}

func (e *Executor) CancelTimeout() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.timerGen++
}

func (e *Executor) ShouldYield() bool {
	now := e.Now()
	if now < e.deadline {
		// there's still time left in the frame
		return false
	}

	if e.inputPending == nil {
		return true
	}

	if e.needsPaint || e.inputPending() {
		return true
	}

	// nothing pending, only yield once the max interval is reached
	return now-e.sliceStart >= e.maxYieldInterval
}

// RequestPaint makes the current slice yield at its deadline even when no
// input is pending.
func (e *Executor) RequestPaint() {
	e.needsPaint = true
}

// ForceFrameRate sets the slice length to one frame at fps. Zero resets it.
func (e *Executor) ForceFrameRate(fps int) error {
	if fps < 0 || fps > 125 {
		return ErrFrameRate
	}

	if fps > 0 {
		e.yieldInterval = time.Second / time.Duration(fps)
	} else {
		e.yieldInterval = DefaultYieldInterval
	}

	return nil
}

func (e *Executor) YieldInterval() time.Duration {
	return e.yieldInterval
}

func (e *Executor) performWorkUntilDeadline() {
	// yielding gives a chance to paint
	defer func() { e.needsPaint = false }()

	cb := e.callback
	if cb == nil {
		e.messageLoopRunning = false
		return
	}

	now := e.Now()
	e.sliceStart = now
	e.deadline = now + e.yieldInterval
	gen := e.callbackGen

	more, err := e.invoke(cb, now)
	if err != nil {
		// end the slice so the error is observed, the rest runs next message
		e.local = append(e.local, e.performFn)
		e.reportError(err)
		return
	}

	if more {
		e.local = append(e.local, e.performFn)
		return
	}

	if gen != e.callbackGen {
		// a new callback was requested during the slice
		e.local = append(e.local, e.performFn)
		return
	}

	e.messageLoopRunning = false
	e.callback = nil
}

func (e *Executor) invoke(cb Callback, now time.Duration) (more bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			more, err = true, newPanicError(r)
		}
	}()

	return cb(true, now)
}

func (e *Executor) call(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.reportError(newPanicError(r))
		}
	}()

	fn()
}

func (e *Executor) reportError(err error) {
	if e.onError != nil {
		e.onError(err)
		return
	}

	e.logger.Err().Err(err).Log("executor callback failed")
}
