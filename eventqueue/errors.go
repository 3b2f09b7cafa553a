package eventqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrNever is the panic value of a Never interpreter receiving input.
	ErrNever = errors.New("eventqueue: never interpreter received input")

	ErrUnknownTag = errors.New("eventqueue: unknown tag")
)

// UnknownTagError is the panic value of a Row interpreter receiving a tag it
// has no interpreter for.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("eventqueue: unknown tag %q", e.Tag)
}

func (e *UnknownTagError) Unwrap() error { return ErrUnknownTag }
