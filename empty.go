package transfer

import "iter"

// Empty returns a handler with no slots. Insert always returns 0, extraction
// always returns blank and state operations do nothing.
func Empty[T any](kind Kind[T]) Handler[T] {
	return emptyHandler[T]{kind: kind}
}

type emptyHandler[T any] struct {
	kind Kind[T]
}

func (e emptyHandler[T]) Insert(T, Action) int64 { return 0 }

func (e emptyHandler[T]) Extract(T, Action) T { return e.kind.Blank() }

func (e emptyHandler[T]) ExtractMatching(Predicate[T], int64, Action) T { return e.kind.Blank() }

func (e emptyHandler[T]) Amount(resource T) int64 { return e.kind.Amount(resource) }

func (e emptyHandler[T]) Blank() T { return e.kind.Blank() }

func (e emptyHandler[T]) CopyWithAmount(resource T, amount int64) T {
	return e.kind.CopyWithAmount(resource, amount)
}

func (e emptyHandler[T]) SaveState() State { return nil }

func (e emptyHandler[T]) LoadState(State) {}

func (e emptyHandler[T]) Size() int { return 0 }

func (e emptyHandler[T]) Get(index int) (ResourceView[T], error) {
	return nil, &IndexError{Index: index, Size: 0}
}

func (e emptyHandler[T]) Contents() iter.Seq[ResourceView[T]] {
	return func(func(ResourceView[T]) bool) {}
}
