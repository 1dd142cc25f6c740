package transfer

// ResourceView is a View over a single slot. Resource is safe for read-only
// consumers; the returned value is immutable.
//
// A ResourceView obtained from Handler.Get is a scoped acquisition and must be
// released with Close before issuing further operations against the same
// container. WithContent does this automatically.
type ResourceView[T any] interface {
	View[T]

	// Resource returns the current contents, possibly blank.
	Resource() T
	// Capacity returns the maximum amount the slot can hold for the variant
	// of resource.
	Capacity(resource T) int64
	// Close releases the view.
	Close()
}

// ResourceCapacity returns the capacity for the currently held variant.
func ResourceCapacity[T any](rv ResourceView[T]) int64 {
	return rv.Capacity(rv.Resource())
}

// ExtractMatchingResource is the single-slot rendition of ExtractMatching: it
// tests p against the held resource and, when accepted, extracts up to
// maxAmount of that exact variant.
func ExtractMatchingResource[T any](rv ResourceView[T], p Predicate[T], maxAmount int64, action Action) T {
	if maxAmount <= 0 {
		return rv.Blank()
	}
	held := rv.Resource()
	if rv.Amount(held) <= 0 || !p.Test(held) {
		return rv.Blank()
	}
	return rv.Extract(rv.CopyWithAmount(held, maxAmount), action)
}

// ExtractAnyResource extracts up to maxAmount of whatever rv holds.
func ExtractAnyResource[T any](rv ResourceView[T], maxAmount int64, action Action) T {
	if maxAmount <= 0 {
		return rv.Blank()
	}
	return rv.Extract(rv.CopyWithAmount(rv.Resource(), maxAmount), action)
}

// FilterResource gates both insert and extract on rv with p.
func FilterResource[T any](rv ResourceView[T], p Predicate[T]) ResourceView[T] {
	return FilterResourceEach(rv, p, p)
}

// FilterResourceEach gates insert and extract on rv with independent predicates.
func FilterResourceEach[T any](rv ResourceView[T], insert, extract Predicate[T]) ResourceView[T] {
	return &filteringResourceView[T]{
		ForwardingResourceView: ForwardingResourceView[T]{To: rv},
		insert:                 insert,
		extract:                extract,
	}
}

// UnmodifiableResource rejects both insert and extract on rv.
func UnmodifiableResource[T any](rv ResourceView[T]) ResourceView[T] {
	return FilterResourceEach(rv, AlwaysFalse[T](), AlwaysFalse[T]())
}

// OnlyInsertResource rejects extraction from rv.
func OnlyInsertResource[T any](rv ResourceView[T]) ResourceView[T] {
	return FilterResourceEach(rv, AlwaysTrue[T](), AlwaysFalse[T]())
}

// OnlyExtractResource rejects insertion into rv.
func OnlyExtractResource[T any](rv ResourceView[T]) ResourceView[T] {
	return FilterResourceEach(rv, AlwaysFalse[T](), AlwaysTrue[T]())
}
