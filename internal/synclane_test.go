package internal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AnatoleLucet/cadence/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSyncLane() (*SyncLane, *Scheduler, *host.Virtual) {
	s, v := newTestScheduler()
	return NewSyncLane(s, nil), s, v
}

func TestSyncLane(t *testing.T) {
	t.Run("flushes at immediate priority", func(t *testing.T) {
		log := []string{}
		l, s, v := newTestSyncLane()

		s.Schedule(NormalPriority, logTask(&log, "normal"))
		for i := 1; i <= 3; i++ {
			l.Schedule(func(didTimeout bool) (Result, error) {
				log = append(log, fmt.Sprintf("sync %d %s", i, s.CurrentPriority()))
				return Done(), nil
			})
		}
		assert.Equal(t, 3, l.Len())

		require.NoError(t, v.RunUntilIdle())
		assert.Equal(t, []string{
			"sync 1 immediate",
			"sync 2 immediate",
			"sync 3 immediate",
			"normal",
		}, log)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("explicit flush cancels the scheduled one", func(t *testing.T) {
		log := []string{}
		l, s, v := newTestSyncLane()

		l.Schedule(logTask(&log, "a"))
		require.NoError(t, l.Flush())
		assert.Equal(t, []string{"a"}, log)

		require.NoError(t, v.RunUntilIdle())
		assert.Equal(t, []string{"a"}, log)
		assert.Equal(t, uint64(1), s.Stats().Cancelled)
	})

	t.Run("flushing an empty lane does nothing", func(t *testing.T) {
		l, _, _ := newTestSyncLane()
		assert.NoError(t, l.Flush())
		assert.Equal(t, uint64(0), l.flushes)
	})

	t.Run("runs continuations to completion", func(t *testing.T) {
		log := []string{}
		l, _, v := newTestSyncLane()
		v.SetShouldYield(func() bool { return true })

		steps := 0
		var cont Continuation
		cont = func(didTimeout bool) (Result, error) {
			steps++
			log = append(log, fmt.Sprintf("step %d timeout=%v", steps, didTimeout))
			if steps < 3 {
				return Yield(cont), nil
			}
			return Done(), nil
		}
		l.Schedule(cont)

		require.NoError(t, l.Flush())
		assert.Equal(t, []string{
			"step 1 timeout=true",
			"step 2 timeout=true",
			"step 3 timeout=true",
		}, log)
	})

	t.Run("picks up continuations scheduled during the flush", func(t *testing.T) {
		log := []string{}
		l, _, _ := newTestSyncLane()

		l.Schedule(func(bool) (Result, error) {
			log = append(log, "a")
			l.Schedule(logTask(&log, "c"))
			assert.NoError(t, l.Flush())
			return Done(), nil
		})
		l.Schedule(logTask(&log, "b"))

		require.NoError(t, l.Flush())
		assert.Equal(t, []string{"a", "b", "c"}, log)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("drops up to the failed continuation and keeps the rest", func(t *testing.T) {
		log := []string{}
		errBoom := errors.New("boom")
		l, _, v := newTestSyncLane()

		for i := 1; i <= 5; i++ {
			l.Schedule(func(bool) (Result, error) {
				log = append(log, fmt.Sprint(i))
				if i == 3 {
					return Done(), errBoom
				}
				return Done(), nil
			})
		}

		err := l.Flush()
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, []string{"1", "2", "3"}, log)
		assert.Equal(t, 2, l.Len())
		assert.False(t, l.Flushing())

		// a new flush was scheduled for the rest
		require.NoError(t, v.RunUntilIdle())
		assert.Equal(t, []string{"1", "2", "3", "4", "5"}, log)
		assert.Equal(t, 0, l.Len())
		assert.Equal(t, uint64(1), l.failures)
	})

	t.Run("failure in the scheduled flush surfaces from the host callback", func(t *testing.T) {
		log := []string{}
		errBoom := errors.New("boom")
		l, _, v := newTestSyncLane()

		l.Schedule(logTask(&log, "1"))
		l.Schedule(func(bool) (Result, error) {
			log = append(log, "2")
			return Done(), errBoom
		})
		l.Schedule(logTask(&log, "3"))

		_, err := v.RunCallback()
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, []string{"1", "2"}, log)

		require.NoError(t, v.RunUntilIdle())
		assert.Equal(t, []string{"1", "2", "3"}, log)
	})

	t.Run("failing last continuation leaves nothing scheduled", func(t *testing.T) {
		l, s, _ := newTestSyncLane()

		l.Schedule(func(bool) (Result, error) { return Done(), errors.New("boom") })
		assert.Error(t, l.Flush())

		assert.Equal(t, 0, l.Len())
		assert.Nil(t, l.node)
		// only the cancelled first flush task is left
		assert.Equal(t, 1, s.Pending())
	})

	t.Run("panic in the scheduled flush re-arms the rest", func(t *testing.T) {
		log := []string{}
		l, _, v := newTestSyncLane()

		l.Schedule(func(bool) (Result, error) { panic("boom") })
		l.Schedule(logTask(&log, "2"))

		assert.Panics(t, func() { _, _ = v.RunCallback() })
		assert.True(t, v.HasCallback())

		require.NoError(t, v.RunUntilIdle())
		assert.Equal(t, []string{"2"}, log)
		assert.Equal(t, 0, l.Len())
	})

	t.Run("panics keep the rest of the queue", func(t *testing.T) {
		log := []string{}
		l, s, _ := newTestSyncLane()

		l.Schedule(logTask(&log, "1"))
		l.Schedule(func(bool) (Result, error) { panic("boom") })
		l.Schedule(logTask(&log, "3"))

		assert.Panics(t, func() { _ = l.Flush() })
		assert.Equal(t, 1, l.Len())
		assert.False(t, l.Flushing())
		assert.Equal(t, NormalPriority, s.CurrentPriority())

		require.NoError(t, l.Flush())
		assert.Equal(t, []string{"1", "3"}, log)
	})
}
