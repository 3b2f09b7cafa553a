package eventqueue

import "github.com/AnatoleLucet/cadence/internal"

// Trampoline owns a FIFO buffer of undelivered inputs and the current Loop.
// It is not safe for concurrent use.
type Trampoline[I any] struct {
	buffer   *internal.Queue[I]
	machine  Loop[I]
	draining bool
}

// New returns a trampoline driving machine.
func New[I any](machine Loop[I]) *Trampoline[I] {
	return &Trampoline[I]{
		buffer:  internal.NewQueue[I](16),
		machine: machine,
	}
}

// Fix ties an interpreter's outputs back to its own inputs.
func Fix[I any](proc EventQueue[I, I]) *Trampoline[I] {
	t := New[I](nil)
	t.machine = proc(t)
	return t
}

// Push buffers input, it never runs anything.
func (t *Trampoline[I]) Push(input I) {
	t.buffer.Push(input)
}

// Run delivers every buffered input, committing whenever the buffer empties,
// until a commit leaves it empty. A Run called while another Run of the same
// trampoline is on the stack returns immediately, the outer one delivers
// whatever was pushed.
//
// If Step or Commit panics, the last Loop they returned is kept and the
// remaining inputs stay buffered for the next Run.
func (t *Trampoline[I]) Run() {
	if t.draining || t.machine == nil {
		return
	}

	t.draining = true
	mc := t.machine
	defer func() {
		t.machine = mc
		t.draining = false
	}()

	for {
		if input, ok := t.buffer.Shift(); ok {
			mc = mc.Step(input)
			continue
		}

		mc = mc.Commit()
		if t.buffer.Len() == 0 {
			return
		}
	}
}

// Pending returns the number of buffered inputs.
func (t *Trampoline[I]) Pending() int {
	return t.buffer.Len()
}

func (t *Trampoline[I]) Draining() bool {
	return t.draining
}
