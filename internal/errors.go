package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrSchedulerMisuse is wrapped by every MisuseError.
	ErrSchedulerMisuse = errors.New("cadence: scheduler misuse")

	// ErrNotDrainable is returned by Runtime.Drain when the host cannot be pumped.
	ErrNotDrainable = errors.New("cadence: host does not support draining")
)

// MisuseError describes a broken invariant of the scheduler, such as a
// re-entrant flush or an access from a goroutine that doesn't own the runtime.
// It is always raised with panic, never returned.
type MisuseError struct {
	Op     string
	Reason string
}

func (e *MisuseError) Error() string {
	return fmt.Sprintf("cadence: %s: %s", e.Op, e.Reason)
}

func (e *MisuseError) Unwrap() error { return ErrSchedulerMisuse }

func misuse(op, reason string) {
	panic(&MisuseError{Op: op, Reason: reason})
}
