package transfer

// State is an opaque snapshot produced by SaveState. Only the instance that
// produced a State knows how to interpret it.
type State any

// Stateful exposes snapshot and restore of mutable content.
type Stateful interface {
	// SaveState captures the full mutable content.
	SaveState() State
	// LoadState restores content captured by SaveState on the same instance.
	LoadState(state State)
}

// View is the transactional insert/extract contract shared by slots and
// containers. Rejections are never errors: Insert returns 0 and the extract
// operations return the blank resource.
type View[T any] interface {
	Stateful

	// Insert adds up to the amount of resource and returns the amount that
	// was, or with Simulate would be, inserted.
	Insert(resource T, action Action) int64
	// Extract removes up to the amount of resource for that exact variant.
	Extract(resource T, action Action) T
	// ExtractMatching removes up to maxAmount of the first variant accepted
	// by p.
	ExtractMatching(p Predicate[T], maxAmount int64, action Action) T

	Amount(resource T) int64
	Blank() T
	CopyWithAmount(resource T, amount int64) T
}

// ExtractAny extracts up to maxAmount without a variant filter. Resource views
// extract their held variant directly.
func ExtractAny[T any](v View[T], maxAmount int64, action Action) T {
	if rv, ok := v.(ResourceView[T]); ok {
		return ExtractAnyResource(rv, maxAmount, action)
	}
	return v.ExtractMatching(AlwaysTrue[T](), maxAmount, action)
}

// Filter gates both insert and extract with p.
func Filter[T any](v View[T], p Predicate[T]) View[T] {
	return FilterEach(v, p, p)
}

// FilterEach gates insert and extract with independent predicates.
func FilterEach[T any](v View[T], insert, extract Predicate[T]) View[T] {
	return &filteringView[T]{
		ForwardingView: ForwardingView[T]{To: v},
		insert:         insert,
		extract:        extract,
	}
}

// Unmodifiable rejects both insert and extract.
func Unmodifiable[T any](v View[T]) View[T] {
	return FilterEach(v, AlwaysFalse[T](), AlwaysFalse[T]())
}

// OnlyInsert rejects extraction.
func OnlyInsert[T any](v View[T]) View[T] {
	return FilterEach(v, AlwaysTrue[T](), AlwaysFalse[T]())
}

// OnlyExtract rejects insertion.
func OnlyExtract[T any](v View[T]) View[T] {
	return FilterEach(v, AlwaysFalse[T](), AlwaysTrue[T]())
}
