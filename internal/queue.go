package internal

// Queue is a growable FIFO ring buffer.
type Queue[T any] struct {
	buf  []T
	head int
	size int
}

func NewQueue[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 8
	}

	return &Queue[T]{
		buf: make([]T, capacity),
	}
}

func (q *Queue[T]) Len() int {
	return q.size
}

func (q *Queue[T]) Push(v T) {
	if q.size == len(q.buf) {
		q.grow()
	}

	q.buf[(q.head+q.size)%len(q.buf)] = v
	q.size++
}

// Shift removes and returns the oldest element.
func (q *Queue[T]) Shift() (T, bool) {
	var zero T
	if q.size == 0 {
		return zero, false
	}

	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	if q.size == 0 {
		q.head = 0
	}

	return v, true
}

func (q *Queue[T]) grow() {
	n := len(q.buf) * 2
	if n == 0 {
		n = 8
	}

	buf := make([]T, n)
	for i := 0; i < q.size; i++ {
		buf[i] = q.buf[(q.head+i)%len(q.buf)]
	}

	q.buf = buf
	q.head = 0
}
