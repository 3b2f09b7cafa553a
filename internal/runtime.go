package internal

import (
	"context"

	"github.com/AnatoleLucet/cadence/host"
)

// Runtime bundles a scheduler with its sync lane and batcher, all sharing one
// host and one owner goroutine.
type Runtime struct {
	host   Host
	owner  *Owner
	logger *Logger

	scheduler *Scheduler
	sync      *SyncLane
	batcher   *Batcher
}

func NewRuntime(opts ...Option) (*Runtime, error) {
	cfg, err := resolveOptions(opts)
	if err != nil {
		return nil, err
	}

	h := cfg.host
	if h == nil {
		h = host.NewHeadless()
	}

	owner := NewOwner(cfg.ownerCheck)
	scheduler := NewScheduler(h, owner, cfg.logger)

	return &Runtime{
		host:      h,
		owner:     owner,
		logger:    cfg.logger,
		scheduler: scheduler,
		sync:      NewSyncLane(scheduler, cfg.logger),
		batcher:   NewBatcher(),
	}, nil
}

func (r *Runtime) Host() Host            { return r.host }
func (r *Runtime) Owner() *Owner         { return r.owner }
func (r *Runtime) Logger() *Logger       { return r.logger }
func (r *Runtime) Scheduler() *Scheduler { return r.scheduler }
func (r *Runtime) SyncLane() *SyncLane   { return r.sync }
func (r *Runtime) Batcher() *Batcher     { return r.batcher }

func (r *Runtime) Schedule(level PriorityLevel, cont Continuation, opts ...ScheduleOption) *Task {
	return r.scheduler.Schedule(level, cont, opts...)
}

func (r *Runtime) Cancel(t *Task) {
	r.scheduler.Cancel(t)
}

func (r *Runtime) ScheduleSync(cont Continuation) {
	r.sync.Schedule(cont)
}

func (r *Runtime) FlushSync() error {
	return r.sync.Flush()
}

// Batch runs fn and flushes the sync lane once the outermost batch completes.
func (r *Runtime) Batch(fn func() error) error {
	r.owner.Check("batch")
	return r.batcher.Batch(fn, r.sync.Flush)
}

// Drain pumps the host until no work remains, for hosts that support it.
func (r *Runtime) Drain(ctx context.Context) error {
	d, ok := r.host.(Drainer)
	if !ok {
		return ErrNotDrainable
	}

	return d.Drain(ctx)
}

func (r *Runtime) Stats() Stats {
	stats := r.scheduler.Stats()
	stats.SyncFlushes = r.sync.flushes
	stats.SyncFailures = r.sync.failures
	return stats
}
