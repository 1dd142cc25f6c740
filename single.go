package transfer

import (
	"iter"

	"github.com/goliatone/go-transfer/internal/clone"
)

// Slot is the storage backing a SimpleSingle. The container owns it; the
// handler only loads and stores whole resource values.
type Slot[T any] interface {
	Load() T
	Store(resource T)
}

// ValueSlot keeps the resource in its own field.
type ValueSlot[T any] struct {
	value T
}

func (s *ValueSlot[T]) Load() T { return s.value }

func (s *ValueSlot[T]) Store(resource T) { s.value = resource }

// PointerSlot stores into a resource owned elsewhere, typically an element of
// a native container.
func PointerSlot[T any](target *T) Slot[T] {
	return pointerSlot[T]{target: target}
}

type pointerSlot[T any] struct {
	target *T
}

func (s pointerSlot[T]) Load() T { return *s.target }

func (s pointerSlot[T]) Store(resource T) { *s.target = resource }

// SingleOption configures a SimpleSingle.
type SingleOption[T any] func(*SimpleSingle[T])

// WithInitial seeds the slot with resource.
func WithInitial[T any](resource T) SingleOption[T] {
	return func(s *SimpleSingle[T]) {
		s.slot.Store(resource)
	}
}

// WithSlot backs the handler with slot instead of an internal field. Apply it
// before WithInitial.
func WithSlot[T any](slot Slot[T]) SingleOption[T] {
	return func(s *SimpleSingle[T]) {
		if slot != nil {
			s.slot = slot
		}
	}
}

// WithInsertPredicate restricts what the slot accepts.
func WithInsertPredicate[T any](p Predicate[T]) SingleOption[T] {
	return func(s *SimpleSingle[T]) {
		s.canInsert = p
	}
}

// WithCapacityFunc computes capacity per variant instead of using the
// constructor's constant.
func WithCapacityFunc[T any](fn func(resource T) int64) SingleOption[T] {
	return func(s *SimpleSingle[T]) {
		if fn != nil {
			s.capacity = fn
		}
	}
}

// SimpleSingle is the canonical one-slot stacking handler. It holds at most one
// variant, caps it at the per-variant capacity and snapshots the full resource
// value for rollback.
type SimpleSingle[T any] struct {
	kind      Kind[T]
	slot      Slot[T]
	capacity  func(resource T) int64
	canInsert Predicate[T]
}

var _ SingleHandler[int64] = (*SimpleSingle[int64])(nil)

// NewSimpleSingle constructs an empty single-slot handler holding up to
// capacity of any variant.
func NewSimpleSingle[T any](kind Kind[T], capacity int64, opts ...SingleOption[T]) *SimpleSingle[T] {
	s := &SimpleSingle[T]{
		kind:     kind,
		slot:     &ValueSlot[T]{value: kind.Blank()},
		capacity: func(T) int64 { return capacity },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Resource returns the held resource.
func (s *SimpleSingle[T]) Resource() T { return s.slot.Load() }

// SetResource replaces the held resource.
func (s *SimpleSingle[T]) SetResource(resource T) { s.slot.Store(resource) }

func (s *SimpleSingle[T]) Capacity(resource T) int64 { return s.capacity(resource) }

func (s *SimpleSingle[T]) Amount(resource T) int64 { return s.kind.Amount(resource) }

func (s *SimpleSingle[T]) Blank() T { return s.kind.Blank() }

func (s *SimpleSingle[T]) CopyWithAmount(resource T, amount int64) T {
	return s.kind.CopyWithAmount(resource, amount)
}

// Insert stacks toInsert onto the held resource. An empty slot accepts any
// variant the insert predicate allows; otherwise the variants must match.
func (s *SimpleSingle[T]) Insert(toInsert T, action Action) int64 {
	requested := s.kind.Amount(toInsert)
	if requested <= 0 {
		return 0
	}
	current := s.slot.Load()
	currentAmount := s.kind.Amount(current)
	isEmpty := currentAmount <= 0
	if !isEmpty && !s.kind.SameVariant(current, toInsert) {
		return 0
	}
	if !s.canInsert.Test(toInsert) {
		return 0
	}

	slotSpace := s.capacity(toInsert)
	if !isEmpty {
		slotSpace -= currentAmount
	}
	inserted := min(slotSpace, requested)
	if inserted <= 0 {
		return 0
	}

	if action == Act {
		if isEmpty {
			s.slot.Store(s.kind.CopyWithAmount(toInsert, inserted))
		} else {
			s.slot.Store(s.kind.CopyWithAmount(current, currentAmount+inserted))
		}
	}
	return inserted
}

// Extract removes up to the amount of toExtract when it matches the held
// variant. A slot drained to zero holds the blank resource.
func (s *SimpleSingle[T]) Extract(toExtract T, action Action) T {
	requested := s.kind.Amount(toExtract)
	if requested <= 0 {
		return s.kind.Blank()
	}
	current := s.slot.Load()
	currentAmount := s.kind.Amount(current)
	if currentAmount <= 0 || !s.kind.SameVariant(current, toExtract) {
		return s.kind.Blank()
	}

	extracted := min(requested, currentAmount)
	if action == Act {
		if remaining := currentAmount - extracted; remaining > 0 {
			s.slot.Store(s.kind.CopyWithAmount(current, remaining))
		} else {
			s.slot.Store(s.kind.Blank())
		}
	}
	return s.kind.CopyWithAmount(toExtract, extracted)
}

func (s *SimpleSingle[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return ExtractMatchingResource[T](s, p, maxAmount, action)
}

type singleState[T any] struct {
	resource T
}

// SaveState captures a detached copy of the held resource.
func (s *SimpleSingle[T]) SaveState() State {
	return singleState[T]{resource: clone.Value(s.slot.Load())}
}

// LoadState restores a value captured by SaveState. Foreign states are ignored.
func (s *SimpleSingle[T]) LoadState(state State) {
	saved, ok := state.(singleState[T])
	if !ok {
		return
	}
	s.slot.Store(clone.Value(saved.resource))
}

func (s *SimpleSingle[T]) Size() int { return 1 }

func (s *SimpleSingle[T]) Get(index int) (ResourceView[T], error) {
	if err := CheckIndex(index, 1); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SimpleSingle[T]) Contents() iter.Seq[ResourceView[T]] {
	return func(yield func(ResourceView[T]) bool) {
		yield(s)
	}
}

// Close is a no-op; the slot holds no external acquisition.
func (s *SimpleSingle[T]) Close() {}
