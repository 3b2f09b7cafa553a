package internal

import "time"

// HeapItem is anything that can be ordered by a PriorityHeap.
type HeapItem interface {
	// the primary ordering key, smaller first
	SortIndex() time.Duration
	// tie-break, smaller first
	ID() uint64
}

// PriorityHeap is an array backed binary min-heap ordered by (SortIndex, ID).
// Items can only leave through Pop, removal of arbitrary items is not supported.
type PriorityHeap[T HeapItem] struct {
	items []T
}

func NewHeap[T HeapItem]() *PriorityHeap[T] {
	return &PriorityHeap[T]{
		items: make([]T, 0, 16),
	}
}

func (h *PriorityHeap[T]) Len() int {
	return len(h.items)
}

func (h *PriorityHeap[T]) Push(item T) {
	h.items = append(h.items, item)
	h.siftUp(item, len(h.items)-1)
}

// Peek returns the minimum item without removing it.
func (h *PriorityHeap[T]) Peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}

	return h.items[0], true
}

// Pop removes and returns the minimum item.
func (h *PriorityHeap[T]) Pop() (T, bool) {
	var zero T
	if len(h.items) == 0 {
		return zero, false
	}

	first := h.items[0]
	last := len(h.items) - 1

	if last > 0 {
		h.items[0] = h.items[last]
	}
	h.items[last] = zero // don't keep popped items reachable
	h.items = h.items[:last]

	if last > 0 {
		h.siftDown(h.items[0], 0)
	}

	return first, true
}

func (h *PriorityHeap[T]) siftUp(item T, i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if compare(h.items[parent], item) <= 0 {
			return
		}

		h.items[i] = h.items[parent]
		h.items[parent] = item
		i = parent
	}
}

func (h *PriorityHeap[T]) siftDown(item T, i int) {
	n := len(h.items)
	for {
		left := 2*i + 1
		right := left + 1
		smallest := i

		if left < n && compare(h.items[left], h.items[smallest]) < 0 {
			smallest = left
		}
		if right < n && compare(h.items[right], h.items[smallest]) < 0 {
			smallest = right
		}
		if smallest == i {
			return
		}

		h.items[i] = h.items[smallest]
		h.items[smallest] = item
		i = smallest
	}
}

func compare[T HeapItem](a, b T) int {
	switch as, bs := a.SortIndex(), b.SortIndex(); {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}

	switch ai, bi := a.ID(), b.ID(); {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}
