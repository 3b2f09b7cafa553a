package internal

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/AnatoleLucet/cadence/host"
	"github.com/joeycumines/logiface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubHost only satisfies Host, it cannot be drained.
type stubHost struct{ host.Virtual }

func (stubHost) Drain() {}

func TestRuntime(t *testing.T) {
	t.Run("defaults to a headless host", func(t *testing.T) {
		r, err := NewRuntime()
		require.NoError(t, err)

		_, ok := r.Host().(*host.Headless)
		assert.True(t, ok)
		assert.False(t, r.Owner().Enabled())
	})

	t.Run("batch flushes the sync lane once", func(t *testing.T) {
		log := []string{}
		v := host.NewVirtual()
		r, err := NewRuntime(WithHost(v))
		require.NoError(t, err)

		err = r.Batch(func() error {
			r.ScheduleSync(logTask(&log, "a"))

			err := r.Batch(func() error {
				r.ScheduleSync(logTask(&log, "b"))
				return nil
			})
			log = append(log, "inner done")
			return err
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"inner done", "a", "b"}, log)
		assert.Equal(t, uint64(1), r.Stats().SyncFlushes)
	})

	t.Run("drains through the host", func(t *testing.T) {
		log := []string{}
		v := host.NewVirtual()
		r, err := NewRuntime(WithHost(v))
		require.NoError(t, err)

		r.Schedule(LowPriority, logTask(&log, "low"))
		r.Schedule(NormalPriority, logTask(&log, "delayed"), WithDelay(time.Second))
		r.Schedule(ImmediatePriority, logTask(&log, "immediate"))

		require.NoError(t, r.Drain(context.Background()))
		assert.Equal(t, []string{"immediate", "low", "delayed"}, log)

		stats := r.Stats()
		assert.Equal(t, uint64(3), stats.Scheduled)
		assert.Equal(t, uint64(3), stats.Completed)
	})

	t.Run("drain needs a drainable host", func(t *testing.T) {
		r, err := NewRuntime(WithHost(&stubHost{}))
		require.NoError(t, err)

		assert.ErrorIs(t, r.Drain(context.Background()), ErrNotDrainable)
	})

	t.Run("headless drain resumes after a panicking task", func(t *testing.T) {
		log := []string{}
		h := host.NewHeadless()
		r, err := NewRuntime(WithHost(h))
		require.NoError(t, err)

		r.Schedule(NormalPriority, func(bool) (Result, error) { panic("boom") })
		r.Schedule(NormalPriority, logTask(&log, "b"))

		assert.Panics(t, func() { _ = r.Drain(context.Background()) })
		assert.False(t, h.Idle())

		require.NoError(t, r.Drain(context.Background()))
		assert.Equal(t, []string{"b"}, log)
		assert.True(t, h.Idle())
	})

	t.Run("headless drain resumes after a panicking sync entry", func(t *testing.T) {
		log := []string{}
		h := host.NewHeadless()
		r, err := NewRuntime(WithHost(h))
		require.NoError(t, err)

		r.ScheduleSync(func(bool) (Result, error) { panic("boom") })
		r.ScheduleSync(logTask(&log, "2"))

		assert.Panics(t, func() { _ = r.Drain(context.Background()) })

		require.NoError(t, r.Drain(context.Background()))
		assert.Equal(t, []string{"2"}, log)
		assert.Equal(t, 0, r.SyncLane().Len())
	})

	t.Run("owner check confines the runtime", func(t *testing.T) {
		r, err := NewRuntime(WithHost(host.NewVirtual()), WithOwnerCheck(true))
		require.NoError(t, err)

		r.Schedule(NormalPriority, logTask(new([]string), "x"))

		done := make(chan error)
		go func() {
			done <- catch(func() { r.Schedule(NormalPriority, logTask(new([]string), "y")) })
		}()

		assert.ErrorIs(t, <-done, ErrSchedulerMisuse)
	})

	t.Run("logs sync failures", func(t *testing.T) {
		var buf bytes.Buffer
		r, err := NewRuntime(
			WithHost(host.NewVirtual()),
			WithLogger(NewLogger(&buf, logiface.LevelDebug)),
		)
		require.NoError(t, err)

		r.ScheduleSync(func(bool) (Result, error) { return Done(), assert.AnError })
		assert.ErrorIs(t, r.FlushSync(), assert.AnError)

		assert.Contains(t, buf.String(), "sync callback failed")
		assert.Contains(t, buf.String(), "host callback requested")
	})
}

func TestGetRuntime(t *testing.T) {
	t.Run("one runtime per goroutine", func(t *testing.T) {
		r := GetRuntime()
		defer ReleaseRuntime()

		assert.Same(t, r, GetRuntime())
		assert.True(t, r.Owner().Enabled())

		other := make(chan *Runtime)
		go func() {
			defer ReleaseRuntime()
			other <- GetRuntime()
		}()

		assert.NotSame(t, r, <-other)
	})
}
