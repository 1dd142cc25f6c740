package transfer

import "iter"

// Handler is a multi-slot container: an ordered, index-addressable sequence of
// ResourceViews plus aggregate insert/extract. Aggregate operations are
// first-fit by default: slots are tried in index order and the first slot to
// transfer a non-zero amount ends the operation.
type Handler[T any] interface {
	View[T]

	// Size returns the number of slots.
	Size() int
	// Get acquires the slot at index. Indexes outside [0, Size()) return an
	// *IndexError. The caller must Close the returned view.
	Get(index int) (ResourceView[T], error)
	// Contents iterates the slots in index order. Each view is released once
	// the consumer moves past it or the range loop ends, so views must not be
	// retained beyond the loop body.
	Contents() iter.Seq[ResourceView[T]]
}

// Indexed is the minimal surface IndexedContents needs.
type Indexed[T any] interface {
	Size() int
	Get(index int) (ResourceView[T], error)
}

// IndexedContents builds a Contents iterator from Size and Get, closing each
// view after the consumer has seen it.
func IndexedContents[T any](h Indexed[T]) iter.Seq[ResourceView[T]] {
	return func(yield func(ResourceView[T]) bool) {
		for i := 0; i < h.Size(); i++ {
			view, err := h.Get(i)
			if err != nil {
				return
			}
			if !yieldAndClose(view, yield) {
				return
			}
		}
	}
}

func yieldAndClose[T any](view ResourceView[T], yield func(ResourceView[T]) bool) bool {
	defer view.Close()
	return yield(view)
}

// Resources iterates the immutable resources held by h.
func Resources[T any](h Handler[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for view := range h.Contents() {
			if !yield(view.Resource()) {
				return
			}
		}
	}
}

// WithContents hands the contents of h to fn. Every acquired view is released
// before WithContents returns, whether fn returns normally, early or with an
// error.
func WithContents[T any](h Handler[T], fn func(iter.Seq[ResourceView[T]]) error) error {
	return fn(h.Contents())
}

// GetWithContents is WithContents for functions producing a value.
func GetWithContents[T, A any](h Handler[T], fn func(iter.Seq[ResourceView[T]]) (A, error)) (A, error) {
	return fn(h.Contents())
}

// ForEachContent calls fn for every slot of h.
func ForEachContent[T any](h Handler[T], fn func(ResourceView[T])) {
	for view := range h.Contents() {
		fn(view)
	}
}

// WithContent acquires the slot at index, hands it to fn and releases it.
func WithContent[T any](h Handler[T], index int, fn func(ResourceView[T]) error) error {
	view, err := h.Get(index)
	if err != nil {
		return err
	}
	defer view.Close()
	return fn(view)
}

// InsertAt inserts into the slot at index.
func InsertAt[T any](h Handler[T], index int, resource T, action Action) (int64, error) {
	var inserted int64
	err := WithContent(h, index, func(view ResourceView[T]) error {
		inserted = view.Insert(resource, action)
		return nil
	})
	return inserted, err
}

// ExtractAt extracts resource from the slot at index.
func ExtractAt[T any](h Handler[T], index int, resource T, action Action) (T, error) {
	extracted := h.Blank()
	err := WithContent(h, index, func(view ResourceView[T]) error {
		extracted = view.Extract(resource, action)
		return nil
	})
	return extracted, err
}

// ExtractMatchingAt extracts up to maxAmount from the slot at index when its
// resource matches p.
func ExtractMatchingAt[T any](h Handler[T], index int, p Predicate[T], maxAmount int64, action Action) (T, error) {
	extracted := h.Blank()
	err := WithContent(h, index, func(view ResourceView[T]) error {
		extracted = view.ExtractMatching(p, maxAmount, action)
		return nil
	})
	return extracted, err
}

// ExtractAnyAt extracts up to maxAmount of whatever the slot at index holds.
func ExtractAnyAt[T any](h Handler[T], index int, maxAmount int64, action Action) (T, error) {
	extracted := h.Blank()
	err := WithContent(h, index, func(view ResourceView[T]) error {
		extracted = ExtractAnyResource(view, maxAmount, action)
		return nil
	})
	return extracted, err
}

// InsertFirstFit offers resource to each slot in order and stops at the first
// slot that accepts a non-zero amount. It never splits across slots.
func InsertFirstFit[T any](h Handler[T], resource T, action Action) int64 {
	if h.Amount(resource) <= 0 {
		return 0
	}
	for view := range h.Contents() {
		if inserted := view.Insert(resource, action); inserted > 0 {
			return inserted
		}
	}
	return 0
}

// ExtractFirstFit extracts resource from the first slot yielding a non-zero
// amount of that variant.
func ExtractFirstFit[T any](h Handler[T], resource T, action Action) T {
	if h.Amount(resource) <= 0 {
		return h.Blank()
	}
	for view := range h.Contents() {
		if extracted := view.Extract(resource, action); h.Amount(extracted) > 0 {
			return extracted
		}
	}
	return h.Blank()
}

// ExtractFirstMatching extracts up to maxAmount from the first slot whose
// resource matches p. A slot that only partially satisfies maxAmount still
// ends the operation.
func ExtractFirstMatching[T any](h Handler[T], p Predicate[T], maxAmount int64, action Action) T {
	if maxAmount <= 0 {
		return h.Blank()
	}
	for view := range h.Contents() {
		if extracted := view.ExtractMatching(p, maxAmount, action); h.Amount(extracted) > 0 {
			return extracted
		}
	}
	return h.Blank()
}

// FilterHandler gates both insert and extract on h with p.
func FilterHandler[T any](h Handler[T], p Predicate[T]) Handler[T] {
	return FilterHandlerEach(h, p, p)
}

// FilterHandlerEach gates insert and extract on h with independent
// predicates. Slots reached through Get or Contents carry the same gates.
func FilterHandlerEach[T any](h Handler[T], insert, extract Predicate[T]) Handler[T] {
	return &filteringHandler[T]{
		ForwardingHandler: ForwardingHandler[T]{To: h},
		insert:            insert,
		extract:           extract,
	}
}

// UnmodifiableHandler rejects both insert and extract on h.
func UnmodifiableHandler[T any](h Handler[T]) Handler[T] {
	return FilterHandlerEach(h, AlwaysFalse[T](), AlwaysFalse[T]())
}

// OnlyInsertHandler rejects extraction from h.
func OnlyInsertHandler[T any](h Handler[T]) Handler[T] {
	return FilterHandlerEach(h, AlwaysTrue[T](), AlwaysFalse[T]())
}

// OnlyExtractHandler rejects insertion into h.
func OnlyExtractHandler[T any](h Handler[T]) Handler[T] {
	return FilterHandlerEach(h, AlwaysFalse[T](), AlwaysTrue[T]())
}
