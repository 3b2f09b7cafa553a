package cadence

import (
	"context"
	"time"

	"github.com/AnatoleLucet/cadence/internal"
)

// Runtime is a scheduler and its sync lane running on a given host. It is not
// safe for concurrent use, everything must happen on the goroutine that drives
// the host.
type Runtime struct {
	runtime *internal.Runtime
}

// NewRuntime creates a runtime. Without WithHost it uses a headless host that
// runs when drained.
func NewRuntime(opts ...Option) (*Runtime, error) {
	r, err := internal.NewRuntime(opts...)
	if err != nil {
		return nil, err
	}
	return &Runtime{runtime: r}, nil
}

// Default returns the runtime bound to the calling goroutine.
func Default() *Runtime {
	return &Runtime{runtime: internal.GetRuntime()}
}

func (r *Runtime) Host() Host         { return r.runtime.Host() }
func (r *Runtime) Now() time.Duration { return r.runtime.Scheduler().Now() }

func (r *Runtime) Schedule(level PriorityLevel, cont Continuation, opts ...ScheduleOption) *Task {
	return r.runtime.Schedule(level, cont, opts...)
}

func (r *Runtime) Cancel(t *Task) {
	r.runtime.Cancel(t)
}

func (r *Runtime) CurrentPriority() PriorityLevel {
	return r.runtime.Scheduler().CurrentPriority()
}

func (r *Runtime) CurrentTask() *Task {
	return r.runtime.Scheduler().CurrentTask()
}

func (r *Runtime) RunAtPriority(level PriorityLevel, fn func() error) error {
	return r.runtime.Scheduler().RunAtPriority(level, fn)
}

func (r *Runtime) Next(fn func() error) error {
	return r.runtime.Scheduler().Next(fn)
}

func (r *Runtime) WrapCallback(fn func() error) func() error {
	return r.runtime.Scheduler().WrapCallback(fn)
}

func (r *Runtime) ShouldYield() bool {
	return r.runtime.Scheduler().ShouldYield()
}

// FirstTask returns the ready task that runs next, nil if none.
func (r *Runtime) FirstTask() *Task {
	return r.runtime.Scheduler().FirstTask()
}

// Pending returns the number of queued tasks.
func (r *Runtime) Pending() int {
	return r.runtime.Scheduler().Pending()
}

func (r *Runtime) Pause()       { r.runtime.Scheduler().Pause() }
func (r *Runtime) Continue()    { r.runtime.Scheduler().Continue() }
func (r *Runtime) Paused() bool { return r.runtime.Scheduler().Paused() }

func (r *Runtime) ScheduleSync(cont Continuation) {
	r.runtime.ScheduleSync(cont)
}

func (r *Runtime) FlushSync() error {
	return r.runtime.FlushSync()
}

func (r *Runtime) Batch(fn func() error) error {
	return r.runtime.Batch(fn)
}

func (r *Runtime) Drain(ctx context.Context) error {
	return r.runtime.Drain(ctx)
}

func (r *Runtime) Stats() Stats {
	return r.runtime.Stats()
}
