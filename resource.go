package transfer

// Kind is the capability contract a resource type must satisfy. The protocol
// never inspects T beyond these operations.
type Kind[T any] interface {
	// Amount returns the quantity carried by resource.
	Amount(resource T) int64
	// SameVariant reports whether a and b share every non-amount attribute.
	SameVariant(a, b T) bool
	// Blank returns the canonical zero-amount resource.
	Blank() T
	// CopyWithAmount returns a resource of the same variant carrying amount.
	CopyWithAmount(resource T, amount int64) T
}

// Predicate tests a resource.
type Predicate[T any] func(resource T) bool

// AlwaysTrue accepts every resource.
func AlwaysTrue[T any]() Predicate[T] {
	return func(T) bool { return true }
}

// AlwaysFalse rejects every resource.
func AlwaysFalse[T any]() Predicate[T] {
	return func(T) bool { return false }
}

// Not negates p.
func Not[T any](p Predicate[T]) Predicate[T] {
	return func(resource T) bool {
		return !p.Test(resource)
	}
}

// And accepts a resource when every predicate accepts it.
func And[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(resource T) bool {
		for _, p := range predicates {
			if !p.Test(resource) {
				return false
			}
		}
		return true
	}
}

// Or accepts a resource when any predicate accepts it.
func Or[T any](predicates ...Predicate[T]) Predicate[T] {
	return func(resource T) bool {
		for _, p := range predicates {
			if p.Test(resource) {
				return true
			}
		}
		return false
	}
}

// VariantOf accepts resources sharing the variant of reference.
func VariantOf[T any](kind Kind[T], reference T) Predicate[T] {
	return func(resource T) bool {
		return kind.SameVariant(reference, resource)
	}
}

// Test evaluates p. A nil predicate accepts everything.
func (p Predicate[T]) Test(resource T) bool {
	if p == nil {
		return true
	}
	return p(resource)
}

// IsBlank reports whether resource carries no amount.
func IsBlank[T any](kind Kind[T], resource T) bool {
	return kind.Amount(resource) <= 0
}
