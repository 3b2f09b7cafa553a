package cadence

import "github.com/AnatoleLucet/cadence/eventqueue"

// Dispatcher feeds a trampoline from outside its loop. Inputs dispatched
// before the sync lane flushes are delivered by a single Run.
type Dispatcher[I any] struct {
	runtime    *Runtime
	trampoline *eventqueue.Trampoline[I]

	scheduled bool
	runFn     Continuation
}

// NewDispatcher drives t on r's sync lane. A nil runtime uses the calling
// goroutine's.
func NewDispatcher[I any](r *Runtime, t *eventqueue.Trampoline[I]) *Dispatcher[I] {
	if r == nil {
		r = Default()
	}

	d := &Dispatcher[I]{
		runtime:    r,
		trampoline: t,
	}
	d.runFn = d.run

	return d
}

// Dispatch buffers input and schedules a drain of the trampoline if none is pending.
func (d *Dispatcher[I]) Dispatch(input I) {
	d.trampoline.Push(input)
	if d.scheduled {
		return
	}

	d.scheduled = true
	d.runtime.ScheduleSync(d.runFn)
}

func (d *Dispatcher[I]) Trampoline() *eventqueue.Trampoline[I] {
	return d.trampoline
}

func (d *Dispatcher[I]) run(bool) (Result, error) {
	d.scheduled = false
	d.trampoline.Run()
	return Done(), nil
}
