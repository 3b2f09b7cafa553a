package internal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func catch(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
			if err == nil {
				err = errors.New("non error panic")
			}
		}
	}()

	fn()
	return nil
}

func TestOwner(t *testing.T) {
	t.Run("disabled never panics", func(t *testing.T) {
		o := NewOwner(false)
		o.Check("test")

		done := make(chan error)
		go func() { done <- catch(func() { o.Check("test") }) }()

		assert.NoError(t, <-done)
	})

	t.Run("binds the first goroutine", func(t *testing.T) {
		o := NewOwner(true)
		o.Check("test")
		o.Check("test")

		done := make(chan error)
		go func() { done <- catch(func() { o.Check("other") }) }()

		err := <-done
		assert.ErrorIs(t, err, ErrSchedulerMisuse)

		var misuseErr *MisuseError
		assert.ErrorAs(t, err, &misuseErr)
		assert.Equal(t, "other", misuseErr.Op)
	})

	t.Run("release lets another goroutine bind", func(t *testing.T) {
		o := NewOwner(true)
		o.Bind()
		o.Release()

		done := make(chan error)
		go func() { done <- catch(func() { o.Check("test") }) }()
		assert.NoError(t, <-done)

		// now owned by the other goroutine
		assert.ErrorIs(t, catch(func() { o.Check("test") }), ErrSchedulerMisuse)
	})
}
