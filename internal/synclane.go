package internal

// SyncLane is a queue of continuations that always run to completion in one
// flush, at immediate priority, ignoring the host's yield signal. A flush is
// triggered by an immediate task, or sooner by Flush.
type SyncLane struct {
	scheduler *Scheduler
	logger    *Logger

	// pending continuations, appended to in place while a flush owns it
	queue []Continuation

	// the immediate task that will flush the queue unless Flush runs first
	node *Task

	flushing bool

	flushTaskFn Continuation

	flushes  uint64
	failures uint64
}

func NewSyncLane(scheduler *Scheduler, logger *Logger) *SyncLane {
	l := &SyncLane{
		scheduler: scheduler,
		logger:    logger,
	}
	l.flushTaskFn = l.flushTask

	return l
}

// Schedule appends cont to the lane. The first pending item also schedules
// the immediate task that flushes the lane.
func (l *SyncLane) Schedule(cont Continuation) {
	l.scheduler.owner.Check("schedule sync")
	if cont == nil {
		return
	}

	if len(l.queue) == 0 {
		l.queue = append(l.queue[:0], cont)
		l.node = l.scheduler.Schedule(ImmediatePriority, l.flushTaskFn)
		return
	}

	l.queue = append(l.queue, cont)
}

// Flush runs every pending continuation now, on the calling goroutine.
// Calling it while a flush is in progress does nothing, the running flush
// picks up anything appended meanwhile.
func (l *SyncLane) Flush() error {
	l.scheduler.owner.Check("flush sync")

	if l.node != nil {
		node := l.node
		l.node = nil
		l.scheduler.Cancel(node)
	}

	return l.flush()
}

// Len returns the number of continuations waiting in the lane.
func (l *SyncLane) Len() int {
	return len(l.queue)
}

func (l *SyncLane) Flushing() bool {
	return l.flushing
}

func (l *SyncLane) flushTask(bool) (Result, error) {
	if l.node != nil && l.node == l.scheduler.CurrentTask() {
		l.node = nil
	}

	return Done(), l.flush()
}

func (l *SyncLane) flush() (err error) {
	if l.flushing || len(l.queue) == 0 {
		return nil
	}

	l.flushing = true
	l.flushes++
	l.logger.Debug().Int("pending", len(l.queue)).Log("sync flush started")

	i := 0
	ok := false
	defer func() {
		l.flushing = false
		if ok {
			return
		}
		l.dropFailed(i, err)
	}()

	err = l.scheduler.RunAtPriority(ImmediatePriority, func() error {
		// the queue may grow while we iterate
		for ; i < len(l.queue); i++ {
			if err := runToCompletion(l.queue[i], true); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	l.queue = nil
	ok = true

	return nil
}

// dropFailed drops the failed continuation and everything before it, then
// schedules another flush for the rest. Runs on both the error and panic paths.
func (l *SyncLane) dropFailed(failed int, err error) {
	l.failures++

	var rest []Continuation
	if failed+1 < len(l.queue) {
		rest = append(rest, l.queue[failed+1:]...)
	}
	l.queue = rest

	b := l.logger.Err().
		Int("index", failed).
		Int("remaining", len(rest))
	if err != nil {
		b = b.Err(err)
	}
	b.Log("sync callback failed")

	if len(rest) > 0 {
		l.node = l.scheduler.Schedule(ImmediatePriority, l.flushTaskFn)
	}
}
