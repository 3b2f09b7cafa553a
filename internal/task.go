package internal

import "time"

// Continuation is a resumable unit of work. didTimeout is true when the task
// ran past its expiration time.
type Continuation func(didTimeout bool) (Result, error)

// Result tells the scheduler whether a continuation finished or yielded.
type Result struct {
	next Continuation
}

// Done reports that the task is complete.
func Done() Result { return Result{} }

// Yield reports that more work remains; next is called later at the same priority.
func Yield(next Continuation) Result { return Result{next: next} }

// Next returns the yielded continuation, nil if done.
func (r Result) Next() Continuation { return r.next }

func (r Result) IsDone() bool { return r.next == nil }

// Task is a unit of schedulable work, owned by its Scheduler once created.
// The only thing callers do with it is cancel it.
type Task struct {
	id       uint64
	priority PriorityLevel

	startTime      time.Duration
	expirationTime time.Duration

	// expirationTime in the ready queue, startTime in the timer queue
	sortIndex time.Duration

	// nil once completed or cancelled
	callback Continuation

	cancelled bool
}

func (t *Task) SortIndex() time.Duration { return t.sortIndex }
func (t *Task) ID() uint64               { return t.id }

func (t *Task) Priority() PriorityLevel       { return t.priority }
func (t *Task) StartTime() time.Duration      { return t.startTime }
func (t *Task) ExpirationTime() time.Duration { return t.expirationTime }

// Cancelled reports whether the task was cancelled before finishing.
func (t *Task) Cancelled() bool { return t.cancelled }

// Pending reports whether the task still has work to run.
func (t *Task) Pending() bool { return t.callback != nil }

func (t *Task) cancel() {
	t.cancelled = true
	t.callback = nil
}

// runToCompletion keeps calling cont while it yields, never giving control back.
func runToCompletion(cont Continuation, didTimeout bool) error {
	for cont != nil {
		res, err := cont(didTimeout)
		if err != nil {
			return err
		}
		cont = res.Next()
	}

	return nil
}
