// Package eventqueue turns bursts of inputs into ordered, single threaded
// state transitions.
//
// A Loop is a state machine with two transitions: Step consumes one input and
// Commit runs whenever the inputs run out. A Trampoline buffers pushed inputs
// and, on Run, feeds them to its Loop one at a time, committing each time the
// buffer empties and continuing if the commit pushed more. Inputs pushed from
// inside Step or Commit are delivered by the same Run, without nesting calls.
package eventqueue

// Loop is one state of an input driven state machine.
type Loop[I any] interface {
	Step(input I) Loop[I]
	Commit() Loop[I]
}

// Instance is the side of a trampoline that producers see.
type Instance[O any] interface {
	Push(output O)
	Run()
}

// EventQueue builds the initial Loop of an interpreter whose outputs go to next.
type EventQueue[I, O any] func(next Instance[O]) Loop[I]

// StepFunc is a stateless Loop, Commit does nothing.
type StepFunc[I any] func(input I)

func (f StepFunc[I]) Step(input I) Loop[I] {
	f(input)
	return f
}

func (f StepFunc[I]) Commit() Loop[I] {
	return f
}

// Funcs is a Loop made of two functions.
type Funcs[I any] struct {
	OnStep   func(input I) Loop[I]
	OnCommit func() Loop[I]
}

func (f Funcs[I]) Step(input I) Loop[I] {
	if f.OnStep == nil {
		return f
	}
	return f.OnStep(input)
}

func (f Funcs[I]) Commit() Loop[I] {
	if f.OnCommit == nil {
		return f
	}
	return f.OnCommit()
}
