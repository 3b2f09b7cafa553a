package internal

import "time"

// Scheduler is a cooperative priority scheduler. Ready tasks are ordered by
// expiration time, delayed tasks wait in a timer queue ordered by start time.
// Work runs inside host callbacks and yields whenever the host asks, except
// for expired tasks which always run.
//
// A Scheduler is not safe for concurrent use, see Owner.
type Scheduler struct {
	host    Host
	tracker *Tracker
	owner   *Owner
	logger  *Logger

	ready  *PriorityHeap[*Task]
	timers *PriorityHeap[*Task]

	// incremented for each task, keeps insertion order among equal deadlines
	nextID uint64

	paused bool

	// set while performing work, to prevent re-entrancy
	performingWork bool

	hostCallbackScheduled bool
	hostTimeoutScheduled  bool

	// bound once so requesting host work doesn't allocate
	flushWorkFn     HostCallback
	handleTimeoutFn HostTimeout

	stats Stats
}

func NewScheduler(host Host, owner *Owner, logger *Logger) *Scheduler {
	if owner == nil {
		owner = NewOwner(false)
	}

	s := &Scheduler{
		host:    host,
		tracker: NewTracker(),
		owner:   owner,
		logger:  logger,
		ready:   NewHeap[*Task](),
		timers:  NewHeap[*Task](),
	}
	s.flushWorkFn = s.flushWork
	s.handleTimeoutFn = s.handleTimeout

	return s
}

func (s *Scheduler) Now() time.Duration {
	return s.host.Now()
}

// Schedule queues cont at the given priority and returns its handle.
func (s *Scheduler) Schedule(level PriorityLevel, cont Continuation, opts ...ScheduleOption) *Task {
	s.owner.Check("schedule")

	var o scheduleOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	level = level.orNormal()
	now := s.host.Now()

	start := now
	if o.delay > 0 {
		start = now + o.delay
	}

	timeout := level.Timeout()
	if o.hasTimeout {
		timeout = o.timeout
	}

	s.nextID++
	t := &Task{
		id:             s.nextID,
		priority:       level,
		startTime:      start,
		expirationTime: start + timeout,
		callback:       cont,
	}
	s.stats.Scheduled++

	if cont == nil {
		return t
	}

	if start > now {
		t.sortIndex = start
		s.timers.Push(t)

		// all tasks are delayed and this is the earliest one
		if s.ready.Len() == 0 && s.peekTimer() == t {
			if s.hostTimeoutScheduled {
				s.host.CancelTimeout()
			} else {
				s.hostTimeoutScheduled = true
			}
			s.requestTimeout(start - now)
		}
	} else {
		t.sortIndex = t.expirationTime
		s.ready.Push(t)

		// if we're already performing work, wait until the next time we yield
		if !s.hostCallbackScheduled && !s.performingWork {
			s.requestCallback()
		}
	}

	return t
}

// Cancel drops the task's remaining work. Cancelling a finished or already
// cancelled task does nothing. A running invocation is never interrupted, but
// whatever it yields is discarded.
func (s *Scheduler) Cancel(t *Task) {
	if t == nil || t.cancelled {
		return
	}
	s.owner.Check("cancel")

	if t.callback == nil && s.tracker.currentTask != t {
		return
	}

	t.cancel()
}

// CurrentPriority returns the priority of the running task, or the level set
// by RunAtPriority. Normal when nothing runs.
func (s *Scheduler) CurrentPriority() PriorityLevel {
	s.owner.Check("current priority")
	return s.tracker.CurrentPriority()
}

// CurrentTask returns the task being executed, if any.
func (s *Scheduler) CurrentTask() *Task {
	return s.tracker.CurrentTask()
}

// RunAtPriority runs fn with the ambient priority set to level.
// Unknown levels are treated as normal.
func (s *Scheduler) RunAtPriority(level PriorityLevel, fn func() error) error {
	s.owner.Check("run at priority")
	return s.tracker.RunWithPriority(level.orNormal(), fn)
}

// Next runs fn at normal priority when called from an immediate, user
// blocking or normal context, and keeps low and idle contexts as they are.
func (s *Scheduler) Next(fn func() error) error {
	s.owner.Check("next")

	level := s.tracker.CurrentPriority()
	switch level {
	case ImmediatePriority, UserBlockingPriority, NormalPriority:
		// shift down to normal priority
		level = NormalPriority
	}

	return s.tracker.RunWithPriority(level, fn)
}

// WrapCallback captures the current priority, the returned func runs fn at it.
func (s *Scheduler) WrapCallback(fn func() error) func() error {
	parent := s.CurrentPriority()
	return func() error {
		return s.tracker.RunWithPriority(parent, fn)
	}
}

// Pause stops the work loop before the next task, useful for debugging.
func (s *Scheduler) Pause() {
	s.owner.Check("pause")
	s.paused = true
}

func (s *Scheduler) Continue() {
	s.owner.Check("continue")
	s.paused = false
	if !s.hostCallbackScheduled && !s.performingWork {
		s.requestCallback()
	}
}

func (s *Scheduler) Paused() bool { return s.paused }

// FirstTask returns the next ready task, nil if none.
func (s *Scheduler) FirstTask() *Task {
	return s.peekReady()
}

// Pending returns the number of queued tasks, ready or delayed, including
// cancelled ones that haven't been dequeued yet.
func (s *Scheduler) Pending() int {
	return s.ready.Len() + s.timers.Len()
}

// ShouldYield reports whether the running task should give control back,
// either because a more urgent task became ready or because the host asks.
func (s *Scheduler) ShouldYield() bool {
	now := s.host.Now()
	s.advanceTimers(now)

	first := s.peekReady()
	current := s.tracker.currentTask

	if first != nil && current != nil && first != current &&
		first.callback != nil &&
		first.startTime <= now &&
		first.expirationTime < current.expirationTime {
		return true
	}

	return s.host.ShouldYield()
}

func (s *Scheduler) Stats() Stats {
	return s.stats
}

func (s *Scheduler) requestCallback() {
	s.hostCallbackScheduled = true
	s.logger.Debug().Log("host callback requested")
	s.host.RequestCallback(s.flushWorkFn)
}

func (s *Scheduler) requestTimeout(delay time.Duration) {
	s.logger.Debug().Dur("delay", delay).Log("host timeout requested")
	s.host.RequestTimeout(s.handleTimeoutFn, delay)
}

func (s *Scheduler) handleTimeout(now time.Duration) {
	s.owner.Check("handle timeout")

	s.hostTimeoutScheduled = false
	s.advanceTimers(now)

	if s.hostCallbackScheduled {
		return
	}

	if s.ready.Len() > 0 {
		s.requestCallback()
		return
	}
	s.armTimer(now)
}

// flushWork is the host callback. It returns whether ready work remains.
// Errors from continuations are returned as is, the scheduler state is
// restored before returning (or panicking).
func (s *Scheduler) flushWork(hasTimeRemaining bool, initialTime time.Duration) (bool, error) {
	s.owner.Check("flush work")
	if s.performingWork {
		misuse("flush work", "re-entrant flush while already performing work")
	}

	// we'll need a host callback the next time work is scheduled
	s.hostCallbackScheduled = false
	if s.hostTimeoutScheduled {
		// the timeout is no longer needed, work loop re-arms it
		s.hostTimeoutScheduled = false
		s.host.CancelTimeout()
	}

	s.performingWork = true
	restore := s.tracker.enterWork()
	completed := false
	defer func() {
		restore()
		s.performingWork = false
		if !completed {
			// a continuation panicked, the host dropped this callback
			s.rearm()
		}
	}()

	more, err := s.workLoop(hasTimeRemaining, initialTime)
	completed = true
	return more, err
}

// rearm asks the host for whatever the queues still need, after a panic cut
// the work loop short.
func (s *Scheduler) rearm() {
	if s.ready.Len() > 0 {
		s.requestCallback()
		return
	}
	s.armTimer(s.host.Now())
}

func (s *Scheduler) workLoop(hasTimeRemaining bool, initialTime time.Duration) (bool, error) {
	now := initialTime
	s.advanceTimers(now)

	t := s.peekReady()
	for t != nil && !s.paused {
		if t.expirationTime > now && (!hasTimeRemaining || s.host.ShouldYield()) {
			// not expired and we've reached the deadline
			s.stats.Slices++
			s.logger.Debug().Uint64("task", t.id).Log("yielding to host")
			break
		}

		cb := t.callback
		if cb == nil {
			if t.cancelled {
				s.stats.Cancelled++
			}
			s.ready.Pop()
			t = s.peekReady()
			continue
		}

		t.callback = nil
		s.tracker.currentTask = t
		s.tracker.currentPriority = t.priority

		didTimeout := t.expirationTime <= now
		s.stats.Executed++
		if didTimeout {
			s.stats.TimedOut++
		}

		res, err := cb(didTimeout)
		now = s.host.Now()

		if err != nil {
			s.stats.Errors++
			s.logger.Warning().
				Uint64("task", t.id).
				Str("priority", t.priority.String()).
				Err(err).
				Log("task continuation failed")

			// the failed task stays queued without a callback and is dropped next time
			s.advanceTimers(now)
			if s.ready.Len() > 0 {
				return true, err
			}
			s.armTimer(now)
			return false, err
		}

		if !res.IsDone() && !t.cancelled {
			t.callback = res.Next()
			s.stats.Yielded++
		} else {
			if !t.cancelled {
				s.stats.Completed++
			}
			if s.peekReady() == t {
				s.ready.Pop()
			}
		}

		s.advanceTimers(now)
		t = s.peekReady()
	}

	if s.paused {
		// Continue requests a new callback
		return false, nil
	}

	if t != nil {
		return true, nil
	}

	s.armTimer(now)
	return false, nil
}

// armTimer requests a timeout for the earliest timer, if any.
func (s *Scheduler) armTimer(now time.Duration) {
	if first := s.peekTimer(); first != nil {
		s.hostTimeoutScheduled = true
		s.requestTimeout(first.startTime - now)
	}
}

// advanceTimers moves matured timers to the ready queue and drops cancelled ones.
func (s *Scheduler) advanceTimers(now time.Duration) {
	for {
		timer := s.peekTimer()
		switch {
		case timer == nil:
			return
		case timer.callback == nil:
			if timer.cancelled {
				s.stats.Cancelled++
			}
			s.timers.Pop()
		case timer.startTime <= now:
			s.timers.Pop()
			timer.sortIndex = timer.expirationTime
			s.ready.Push(timer)
		default:
			return
		}
	}
}

func (s *Scheduler) peekReady() *Task {
	t, _ := s.ready.Peek()
	return t
}

func (s *Scheduler) peekTimer() *Task {
	t, _ := s.timers.Peek()
	return t
}
