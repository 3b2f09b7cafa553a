package internal

import "errors"

// Batcher defers a completion until the outermost of nested batches returns.
type Batcher struct {
	// nesting level of the running batches
	depth int
}

func NewBatcher() *Batcher {
	return &Batcher{}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn, then onComplete once the outermost batch returns.
// onComplete is skipped if fn panics.
func (b *Batcher) Batch(fn, onComplete func() error) error {
	err := func() error {
		b.depth++
		defer func() { b.depth-- }()

		return fn()
	}()

	if b.depth == 0 && onComplete != nil {
		err = errors.Join(err, onComplete())
	}

	return err
}
