package host

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadless(t *testing.T) {
	t.Run("run pending does not block", func(t *testing.T) {
		h := NewHeadless()

		ran, err := h.RunPending()
		require.NoError(t, err)
		assert.False(t, ran)

		calls := 0
		h.RequestCallback(func(bool, time.Duration) (bool, error) {
			calls++
			return false, nil
		})

		ran, err = h.RunPending()
		require.NoError(t, err)
		assert.True(t, ran)
		assert.Equal(t, 1, calls)
		assert.True(t, h.Idle())
	})

	t.Run("drain waits for timeouts", func(t *testing.T) {
		h := NewHeadless()
		log := []string{}

		start := h.Now()
		h.RequestTimeout(func(now time.Duration) {
			log = append(log, "timeout")
			assert.GreaterOrEqual(t, now-start, 20*time.Millisecond)

			h.RequestCallback(func(bool, time.Duration) (bool, error) {
				log = append(log, "callback")
				return false, nil
			})
		}, 20*time.Millisecond)

		ran, err := h.RunPending()
		require.NoError(t, err)
		assert.False(t, ran)

		require.NoError(t, h.Drain(context.Background()))
		assert.Equal(t, []string{"timeout", "callback"}, log)
		assert.True(t, h.Idle())
	})

	t.Run("drain stops at errors and resumes", func(t *testing.T) {
		h := NewHeadless()
		errBoom := errors.New("boom")
		calls := 0

		h.RequestCallback(func(bool, time.Duration) (bool, error) {
			calls++
			if calls == 1 {
				return true, errBoom
			}
			return false, nil
		})

		assert.ErrorIs(t, h.Drain(context.Background()), errBoom)
		require.NoError(t, h.Drain(context.Background()))
		assert.Equal(t, 2, calls)
	})

	t.Run("drain respects the context while waiting", func(t *testing.T) {
		h := NewHeadless()
		h.RequestTimeout(func(time.Duration) {}, time.Hour)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, h.Drain(ctx), context.DeadlineExceeded)
	})

	t.Run("yields after the max slice", func(t *testing.T) {
		h := NewHeadless()
		h.SetMaxSlice(5 * time.Millisecond)

		yields := []bool{}
		h.RequestCallback(func(bool, time.Duration) (bool, error) {
			yields = append(yields, h.ShouldYield())
			time.Sleep(10 * time.Millisecond)
			yields = append(yields, h.ShouldYield())
			return false, nil
		})

		require.NoError(t, h.Drain(context.Background()))
		assert.Equal(t, []bool{false, true}, yields)

		h.SetMaxSlice(0)
		assert.False(t, h.ShouldYield())
	})
}
