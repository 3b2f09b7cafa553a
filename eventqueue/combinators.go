package eventqueue

import "sort"

// Either holds a value of one of two effect types.
type Either[L, R any] struct {
	Left    L
	Right   R
	IsRight bool
}

func Left[L, R any](v L) Either[L, R] {
	return Either[L, R]{Left: v}
}

func Right[L, R any](v R) Either[L, R] {
	return Either[L, R]{Right: v, IsRight: true}
}

// Merge runs two interpreters side by side. Each input goes to the side it
// belongs to, and a commit commits both, left first.
func Merge[F, G, I any](lhs EventQueue[F, I], rhs EventQueue[G, I]) EventQueue[Either[F, G], I] {
	return func(next Instance[I]) Loop[Either[F, G]] {
		return &mergeLoop[F, G]{left: lhs(next), right: rhs(next)}
	}
}

type mergeLoop[F, G any] struct {
	left  Loop[F]
	right Loop[G]
}

func (m *mergeLoop[F, G]) Step(input Either[F, G]) Loop[Either[F, G]] {
	if input.IsRight {
		m.right = m.right.Step(input.Right)
	} else {
		m.left = m.left.Step(input.Left)
	}
	return m
}

func (m *mergeLoop[F, G]) Commit() Loop[Either[F, G]] {
	m.left = m.left.Commit()
	m.right = m.right.Commit()
	return m
}

// Tagged is an input routed by tag.
type Tagged struct {
	Tag   string
	Value any
}

func Tag(tag string, value any) Tagged {
	return Tagged{Tag: tag, Value: value}
}

// Row runs one interpreter per tag. Each input goes to the interpreter of its
// tag, a commit commits all of them in tag order. An unknown tag panics with
// an *UnknownTagError.
func Row[I any](interpreters map[string]EventQueue[any, I]) EventQueue[Tagged, I] {
	tags := make([]string, 0, len(interpreters))
	for tag := range interpreters {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	return func(next Instance[I]) Loop[Tagged] {
		r := &rowLoop{
			index: make(map[string]int, len(tags)),
			loops: make([]Loop[any], len(tags)),
		}
		for i, tag := range tags {
			r.index[tag] = i
			r.loops[i] = interpreters[tag](next)
		}
		return r
	}
}

type rowLoop struct {
	index map[string]int
	loops []Loop[any]
}

func (r *rowLoop) Step(input Tagged) Loop[Tagged] {
	i, ok := r.index[input.Tag]
	if !ok {
		panic(&UnknownTagError{Tag: input.Tag})
	}

	r.loops[i] = r.loops[i].Step(input.Value)
	return r
}

func (r *rowLoop) Commit() Loop[Tagged] {
	for i, l := range r.loops {
		r.loops[i] = l.Commit()
	}
	return r
}

// Erase adapts a typed interpreter for use in a Row. A value of the wrong type
// panics.
func Erase[F, I any](q EventQueue[F, I]) EventQueue[any, I] {
	return func(next Instance[I]) Loop[any] {
		return &erasedLoop[F]{loop: q(next)}
	}
}

type erasedLoop[F any] struct {
	loop Loop[F]
}

func (e *erasedLoop[F]) Step(input any) Loop[any] {
	e.loop = e.loop.Step(input.(F))
	return e
}

func (e *erasedLoop[F]) Commit() Loop[any] {
	e.loop = e.loop.Commit()
	return e
}
