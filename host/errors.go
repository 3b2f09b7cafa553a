package host

import (
	"errors"
	"fmt"
	"runtime"
)

var (
	ErrExecutorStopped = errors.New("host: executor stopped")
	ErrExecutorRunning = errors.New("host: executor already running")
	ErrFrameRate       = errors.New("host: frame rate must be between 0 and 125")
)

// PanicError wraps a panic recovered from a host callback, with the stack
// trace captured at the point of recovery.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

// Unwrap returns the panic value if it is an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

func newPanicError(v any) *PanicError {
	// runtime.Stack truncates if the buffer is too small
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}
