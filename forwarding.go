package transfer

import "iter"

// ForwardingView delegates every View operation to To. Embed it and override
// the operations that need different behaviour.
type ForwardingView[T any] struct {
	To View[T]
}

func (f ForwardingView[T]) Insert(resource T, action Action) int64 {
	return f.To.Insert(resource, action)
}

func (f ForwardingView[T]) Extract(resource T, action Action) T {
	return f.To.Extract(resource, action)
}

func (f ForwardingView[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return f.To.ExtractMatching(p, maxAmount, action)
}

func (f ForwardingView[T]) Amount(resource T) int64 { return f.To.Amount(resource) }

func (f ForwardingView[T]) Blank() T { return f.To.Blank() }

func (f ForwardingView[T]) CopyWithAmount(resource T, amount int64) T {
	return f.To.CopyWithAmount(resource, amount)
}

func (f ForwardingView[T]) SaveState() State { return f.To.SaveState() }

func (f ForwardingView[T]) LoadState(state State) { f.To.LoadState(state) }

func (f ForwardingView[T]) Enlist(tx *Transaction) { enlist(f.To, tx) }

func (f ForwardingView[T]) Delist(tx *Transaction) { delist(f.To, tx) }

// ForwardingResourceView delegates every ResourceView operation to To.
type ForwardingResourceView[T any] struct {
	To ResourceView[T]
}

func (f ForwardingResourceView[T]) Insert(resource T, action Action) int64 {
	return f.To.Insert(resource, action)
}

func (f ForwardingResourceView[T]) Extract(resource T, action Action) T {
	return f.To.Extract(resource, action)
}

func (f ForwardingResourceView[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return f.To.ExtractMatching(p, maxAmount, action)
}

func (f ForwardingResourceView[T]) Amount(resource T) int64 { return f.To.Amount(resource) }

func (f ForwardingResourceView[T]) Blank() T { return f.To.Blank() }

func (f ForwardingResourceView[T]) CopyWithAmount(resource T, amount int64) T {
	return f.To.CopyWithAmount(resource, amount)
}

func (f ForwardingResourceView[T]) SaveState() State { return f.To.SaveState() }

func (f ForwardingResourceView[T]) LoadState(state State) { f.To.LoadState(state) }

func (f ForwardingResourceView[T]) Enlist(tx *Transaction) { enlist(f.To, tx) }

func (f ForwardingResourceView[T]) Delist(tx *Transaction) { delist(f.To, tx) }

func (f ForwardingResourceView[T]) Resource() T { return f.To.Resource() }

func (f ForwardingResourceView[T]) Capacity(resource T) int64 { return f.To.Capacity(resource) }

func (f ForwardingResourceView[T]) Close() { f.To.Close() }

// ForwardingHandler delegates every Handler operation to To.
type ForwardingHandler[T any] struct {
	To Handler[T]
}

func (f ForwardingHandler[T]) Insert(resource T, action Action) int64 {
	return f.To.Insert(resource, action)
}

func (f ForwardingHandler[T]) Extract(resource T, action Action) T {
	return f.To.Extract(resource, action)
}

func (f ForwardingHandler[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return f.To.ExtractMatching(p, maxAmount, action)
}

func (f ForwardingHandler[T]) Amount(resource T) int64 { return f.To.Amount(resource) }

func (f ForwardingHandler[T]) Blank() T { return f.To.Blank() }

func (f ForwardingHandler[T]) CopyWithAmount(resource T, amount int64) T {
	return f.To.CopyWithAmount(resource, amount)
}

func (f ForwardingHandler[T]) SaveState() State { return f.To.SaveState() }

func (f ForwardingHandler[T]) LoadState(state State) { f.To.LoadState(state) }

func (f ForwardingHandler[T]) Enlist(tx *Transaction) { enlist(f.To, tx) }

func (f ForwardingHandler[T]) Delist(tx *Transaction) { delist(f.To, tx) }

func (f ForwardingHandler[T]) Size() int { return f.To.Size() }

func (f ForwardingHandler[T]) Get(index int) (ResourceView[T], error) { return f.To.Get(index) }

func (f ForwardingHandler[T]) Contents() iter.Seq[ResourceView[T]] { return f.To.Contents() }

// SingleHandler is a one-slot Handler that is also the ResourceView of its
// only slot.
type SingleHandler[T any] interface {
	Handler[T]
	Resource() T
	Capacity(resource T) int64
	Close()
}

// ForwardingSingle adapts a SingleHandler by delegation, exposing it both as a
// Handler and as a ResourceView over the forwarded slot.
type ForwardingSingle[T any] struct {
	ForwardingHandler[T]
	single SingleHandler[T]
}

// NewForwardingSingle wraps to.
func NewForwardingSingle[T any](to SingleHandler[T]) ForwardingSingle[T] {
	return ForwardingSingle[T]{
		ForwardingHandler: ForwardingHandler[T]{To: to},
		single:            to,
	}
}

// Unwrap returns the forwarded handler.
func (f ForwardingSingle[T]) Unwrap() SingleHandler[T] { return f.single }

func (f ForwardingSingle[T]) Resource() T { return f.single.Resource() }

func (f ForwardingSingle[T]) Capacity(resource T) int64 { return f.single.Capacity(resource) }

func (f ForwardingSingle[T]) Close() { f.single.Close() }
