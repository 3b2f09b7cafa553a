// Package cadence is a cooperative priority scheduler with a synchronous lane
// for work that must not wait, plus the glue to drive event queues with it.
//
// The package level functions use a runtime bound to the calling goroutine,
// created on first use. Use NewRuntime for an explicit runtime with its own
// host.
package cadence

import (
	"context"
	"time"

	"github.com/AnatoleLucet/cadence/internal"
)

type (
	PriorityLevel  = internal.PriorityLevel
	Continuation   = internal.Continuation
	Result         = internal.Result
	Task           = internal.Task
	Host           = internal.Host
	Stats          = internal.Stats
	Logger         = internal.Logger
	Option         = internal.Option
	ScheduleOption = internal.ScheduleOption
	MisuseError    = internal.MisuseError
)

const (
	NoPriority           = internal.NoPriority
	ImmediatePriority    = internal.ImmediatePriority
	UserBlockingPriority = internal.UserBlockingPriority
	NormalPriority       = internal.NormalPriority
	LowPriority          = internal.LowPriority
	IdlePriority         = internal.IdlePriority
)

var (
	ErrSchedulerMisuse = internal.ErrSchedulerMisuse
	ErrNotDrainable    = internal.ErrNotDrainable
)

// Done reports that a continuation finished its task.
func Done() Result { return internal.Done() }

// Yield reports that a continuation has more work, next runs later at the same priority.
func Yield(next Continuation) Result { return internal.Yield(next) }

// Func adapts a function that always completes to a Continuation.
func Func(fn func() error) Continuation {
	return func(bool) (Result, error) {
		return Done(), fn()
	}
}

func WithHost(host Host) Option          { return internal.WithHost(host) }
func WithLogger(logger *Logger) Option   { return internal.WithLogger(logger) }
func WithOwnerCheck(enabled bool) Option { return internal.WithOwnerCheck(enabled) }

// WithDelay makes the task wait d before it becomes ready.
func WithDelay(d time.Duration) ScheduleOption { return internal.WithDelay(d) }

// WithTimeout overrides how long the task may wait before it expires.
func WithTimeout(d time.Duration) ScheduleOption { return internal.WithTimeout(d) }

// Schedule queues cont at the given priority.
func Schedule(level PriorityLevel, cont Continuation, opts ...ScheduleOption) *Task {
	return internal.GetRuntime().Schedule(level, cont, opts...)
}

// Cancel drops whatever work the task has left.
func Cancel(t *Task) {
	internal.GetRuntime().Cancel(t)
}

// CurrentPriority returns the priority of the running task or of the
// enclosing RunAtPriority.
func CurrentPriority() PriorityLevel {
	return internal.GetRuntime().Scheduler().CurrentPriority()
}

// RunAtPriority runs fn with the current priority set to level.
func RunAtPriority(level PriorityLevel, fn func() error) error {
	return internal.GetRuntime().Scheduler().RunAtPriority(level, fn)
}

// Next runs fn at normal priority unless the current priority is lower.
func Next(fn func() error) error {
	return internal.GetRuntime().Scheduler().Next(fn)
}

// WrapCallback returns fn bound to the current priority.
func WrapCallback(fn func() error) func() error {
	return internal.GetRuntime().Scheduler().WrapCallback(fn)
}

// ShouldYield reports whether the running task should hand control back.
func ShouldYield() bool {
	return internal.GetRuntime().Scheduler().ShouldYield()
}

// ScheduleSync queues cont on the sync lane.
func ScheduleSync(cont Continuation) {
	internal.GetRuntime().ScheduleSync(cont)
}

// FlushSync runs the sync lane now.
func FlushSync() error {
	return internal.GetRuntime().FlushSync()
}

// Batch runs fn and flushes the sync lane once, when the outermost batch ends.
func Batch(fn func() error) error {
	return internal.GetRuntime().Batch(fn)
}

func Pause()    { internal.GetRuntime().Scheduler().Pause() }
func Continue() { internal.GetRuntime().Scheduler().Continue() }

// Drain runs the goroutine's runtime until it has no work left.
func Drain(ctx context.Context) error {
	return internal.GetRuntime().Drain(ctx)
}

// ReleaseRuntime discards the calling goroutine's runtime and its pending work.
func ReleaseRuntime() {
	internal.ReleaseRuntime()
}
