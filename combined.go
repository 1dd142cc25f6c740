package transfer

import (
	"iter"
	"sort"
)

// Combine presents handlers as one Handler. Slots are numbered across the
// children in order; aggregate operations are first-fit over that flattened
// sequence.
func Combine[T any](kind Kind[T], handlers ...Handler[T]) Handler[T] {
	children := make([]Handler[T], 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			children = append(children, h)
		}
	}
	return &combined[T]{kind: kind, handlers: children}
}

type combined[T any] struct {
	kind     Kind[T]
	handlers []Handler[T]
}

type combinedState struct {
	states []State
}

func (c *combined[T]) Amount(resource T) int64 { return c.kind.Amount(resource) }

func (c *combined[T]) Blank() T { return c.kind.Blank() }

func (c *combined[T]) CopyWithAmount(resource T, amount int64) T {
	return c.kind.CopyWithAmount(resource, amount)
}

func (c *combined[T]) Insert(resource T, action Action) int64 {
	return InsertFirstFit[T](c, resource, action)
}

func (c *combined[T]) Extract(resource T, action Action) T {
	return ExtractFirstFit[T](c, resource, action)
}

func (c *combined[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return ExtractFirstMatching[T](c, p, maxAmount, action)
}

func (c *combined[T]) Size() int {
	total := 0
	for _, h := range c.handlers {
		total += h.Size()
	}
	return total
}

// Get resolves index to its owning child through the cumulative slot counts.
func (c *combined[T]) Get(index int) (ResourceView[T], error) {
	ends := make([]int, len(c.handlers))
	total := 0
	for i, h := range c.handlers {
		total += h.Size()
		ends[i] = total
	}
	if err := CheckIndex(index, total); err != nil {
		return nil, err
	}
	owner := sort.Search(len(ends), func(i int) bool { return ends[i] > index })
	start := ends[owner] - c.handlers[owner].Size()
	return c.handlers[owner].Get(index - start)
}

func (c *combined[T]) Contents() iter.Seq[ResourceView[T]] {
	return func(yield func(ResourceView[T]) bool) {
		for _, h := range c.handlers {
			for view := range h.Contents() {
				if !yield(view) {
					return
				}
			}
		}
	}
}

func (c *combined[T]) SaveState() State {
	states := make([]State, len(c.handlers))
	for i, h := range c.handlers {
		states[i] = h.SaveState()
	}
	return combinedState{states: states}
}

func (c *combined[T]) Enlist(tx *Transaction) {
	for _, h := range c.handlers {
		enlist(h, tx)
	}
}

func (c *combined[T]) Delist(tx *Transaction) {
	for _, h := range c.handlers {
		delist(h, tx)
	}
}

func (c *combined[T]) LoadState(state State) {
	saved, ok := state.(combinedState)
	if !ok || len(saved.states) != len(c.handlers) {
		return
	}
	for i, h := range c.handlers {
		h.LoadState(saved.states[i])
	}
}

// CombineSingles is Combine for children known to hold exactly one slot each.
// Index i addresses singles[i] directly.
func CombineSingles[T any](kind Kind[T], singles ...SingleHandler[T]) Handler[T] {
	contents := make([]SingleHandler[T], 0, len(singles))
	for _, s := range singles {
		if s != nil {
			contents = append(contents, s)
		}
	}
	return &combinedSingle[T]{kind: kind, contents: contents}
}

type combinedSingle[T any] struct {
	kind     Kind[T]
	contents []SingleHandler[T]
}

func (c *combinedSingle[T]) Amount(resource T) int64 { return c.kind.Amount(resource) }

func (c *combinedSingle[T]) Blank() T { return c.kind.Blank() }

func (c *combinedSingle[T]) CopyWithAmount(resource T, amount int64) T {
	return c.kind.CopyWithAmount(resource, amount)
}

func (c *combinedSingle[T]) Insert(resource T, action Action) int64 {
	if c.kind.Amount(resource) <= 0 {
		return 0
	}
	for _, s := range c.contents {
		if inserted := s.Insert(resource, action); inserted > 0 {
			return inserted
		}
	}
	return 0
}

func (c *combinedSingle[T]) Extract(resource T, action Action) T {
	if c.kind.Amount(resource) <= 0 {
		return c.kind.Blank()
	}
	for _, s := range c.contents {
		if extracted := s.Extract(resource, action); c.kind.Amount(extracted) > 0 {
			return extracted
		}
	}
	return c.kind.Blank()
}

func (c *combinedSingle[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	if maxAmount <= 0 {
		return c.kind.Blank()
	}
	for _, s := range c.contents {
		if extracted := s.ExtractMatching(p, maxAmount, action); c.kind.Amount(extracted) > 0 {
			return extracted
		}
	}
	return c.kind.Blank()
}

func (c *combinedSingle[T]) Size() int { return len(c.contents) }

func (c *combinedSingle[T]) Get(index int) (ResourceView[T], error) {
	if err := CheckIndex(index, len(c.contents)); err != nil {
		return nil, err
	}
	return c.contents[index], nil
}

func (c *combinedSingle[T]) Contents() iter.Seq[ResourceView[T]] {
	return func(yield func(ResourceView[T]) bool) {
		for _, s := range c.contents {
			if !yieldAndClose[T](s, yield) {
				return
			}
		}
	}
}

func (c *combinedSingle[T]) SaveState() State {
	states := make([]State, len(c.contents))
	for i, s := range c.contents {
		states[i] = s.SaveState()
	}
	return combinedState{states: states}
}

func (c *combinedSingle[T]) Enlist(tx *Transaction) {
	for _, s := range c.contents {
		enlist(s, tx)
	}
}

func (c *combinedSingle[T]) Delist(tx *Transaction) {
	for _, s := range c.contents {
		delist(s, tx)
	}
}

func (c *combinedSingle[T]) LoadState(state State) {
	saved, ok := state.(combinedState)
	if !ok || len(saved.states) != len(c.contents) {
		return
	}
	for i, s := range c.contents {
		s.LoadState(saved.states[i])
	}
}
