package eventqueue

// Stepper maps each input to exactly one output.
func Stepper[I, O any](k func(input I) O) EventQueue[I, O] {
	return func(next Instance[O]) Loop[I] {
		return StepFunc[I](func(input I) {
			next.Push(k(input))
			next.Run()
		})
	}
}

// WithCont hands each input to k together with the output instance, k may
// push any number of outputs. Nothing is run on k's behalf.
func WithCont[I, O any](k func(next Instance[O], input I)) EventQueue[I, O] {
	return func(next Instance[O]) Loop[I] {
		return StepFunc[I](func(input I) {
			k(next, input)
		})
	}
}

// Accum folds inputs into a state and hands it to Commit when the inputs run
// out. The state Commit returns is the start of the next fold.
type Accum[S, I any] struct {
	Init   S
	Update func(state S, input I) S
	Commit func(state S) S
}

// WithAccum builds an accumulating interpreter. build is called once, with the
// output instance, when the interpreter is built.
func WithAccum[S, I, O any](build func(next Instance[O]) Accum[S, I]) EventQueue[I, O] {
	return func(next Instance[O]) Loop[I] {
		a := build(next)
		return &accumLoop[S, I]{accum: a, state: a.Init}
	}
}

type accumLoop[S, I any] struct {
	accum Accum[S, I]
	state S
}

func (l *accumLoop[S, I]) Step(input I) Loop[I] {
	if l.accum.Update != nil {
		l.state = l.accum.Update(l.state, input)
	}
	return l
}

func (l *accumLoop[S, I]) Commit() Loop[I] {
	if l.accum.Commit != nil {
		l.state = l.accum.Commit(l.state)
	}
	return l
}

// WithAccumSlice collects the inputs of a burst and hands them to the function
// build returns, in arrival order, on every commit. The slice may be empty and
// is not reused afterwards.
func WithAccumSlice[I, O any](build func(next Instance[O]) func(inputs []I)) EventQueue[I, O] {
	return WithAccum(func(next Instance[O]) Accum[[]I, I] {
		commit := build(next)
		return Accum[[]I, I]{
			Update: func(inputs []I, input I) []I {
				return append(inputs, input)
			},
			Commit: func(inputs []I) []I {
				commit(inputs)
				return nil
			},
		}
	})
}

// Never is an interpreter for an input type that is never produced.
// It panics with ErrNever if it receives anything.
func Never[I, O any]() EventQueue[I, O] {
	return func(Instance[O]) Loop[I] {
		return StepFunc[I](func(I) {
			panic(ErrNever)
		})
	}
}

// LiftCont turns a callback style effect runner into an interpreter. Every
// value passed to the callback is pushed and run, whenever it is called.
func LiftCont[F, I any](k func(effect F, emit func(I))) EventQueue[F, I] {
	return WithCont(func(next Instance[I], effect F) {
		k(effect, func(input I) {
			next.Push(input)
			next.Run()
		})
	})
}

// LiftResult is LiftCont for effects that may fail. Successful results are
// pushed and run, errors go to onErr.
func LiftResult[F, I any](k func(effect F, done func(I, error)), onErr func(error)) EventQueue[F, I] {
	return LiftCont(func(effect F, emit func(I)) {
		k(effect, func(input I, err error) {
			if err != nil {
				if onErr != nil {
					onErr(err)
				}
				return
			}
			emit(input)
		})
	})
}
