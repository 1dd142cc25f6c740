package transfer

import "iter"

// Filtering decorators gate insert and extract with predicates. A rejected
// operation is indistinguishable from a full or empty container. Slot and
// handler gates test extraction against the held resource; a plain view has
// none and tests the requested one.

type filteringView[T any] struct {
	ForwardingView[T]
	insert  Predicate[T]
	extract Predicate[T]
}

func (f *filteringView[T]) Insert(resource T, action Action) int64 {
	if !f.insert.Test(resource) {
		return 0
	}
	return f.To.Insert(resource, action)
}

func (f *filteringView[T]) Extract(resource T, action Action) T {
	if !f.extract.Test(resource) {
		return f.To.Blank()
	}
	return f.To.Extract(resource, action)
}

func (f *filteringView[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return f.To.ExtractMatching(And(p, f.extract), maxAmount, action)
}

type filteringResourceView[T any] struct {
	ForwardingResourceView[T]
	insert  Predicate[T]
	extract Predicate[T]
}

func (f *filteringResourceView[T]) Insert(resource T, action Action) int64 {
	if !f.insert.Test(resource) {
		return 0
	}
	return f.To.Insert(resource, action)
}

func (f *filteringResourceView[T]) Extract(resource T, action Action) T {
	if !f.extract.Test(f.To.Resource()) {
		return f.To.Blank()
	}
	return f.To.Extract(resource, action)
}

func (f *filteringResourceView[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return ExtractMatchingResource[T](f, p, maxAmount, action)
}

type filteringHandler[T any] struct {
	ForwardingHandler[T]
	insert  Predicate[T]
	extract Predicate[T]
}

func (f *filteringHandler[T]) Insert(resource T, action Action) int64 {
	if !f.insert.Test(resource) {
		return 0
	}
	return f.To.Insert(resource, action)
}

// Extract goes through the gated slots so the extract gate sees each held
// resource, as it does for ExtractMatching.
func (f *filteringHandler[T]) Extract(resource T, action Action) T {
	return ExtractFirstFit[T](f, resource, action)
}

func (f *filteringHandler[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return f.To.ExtractMatching(And(p, f.extract), maxAmount, action)
}

func (f *filteringHandler[T]) Get(index int) (ResourceView[T], error) {
	view, err := f.To.Get(index)
	if err != nil {
		return nil, err
	}
	return f.wrap(view), nil
}

func (f *filteringHandler[T]) Contents() iter.Seq[ResourceView[T]] {
	return func(yield func(ResourceView[T]) bool) {
		for view := range f.To.Contents() {
			if !yield(f.wrap(view)) {
				return
			}
		}
	}
}

func (f *filteringHandler[T]) wrap(view ResourceView[T]) ResourceView[T] {
	return FilterResourceEach(view, f.insert, f.extract)
}
