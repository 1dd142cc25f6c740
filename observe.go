package transfer

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/goliatone/go-transfer/pkg/activity"
)

// Observed forwards to a handler while logging every operation and emitting
// activity events for committed transfers. Slots reached through Get or
// Contents are observed as well.
//
// While a transaction covers the handler, activity for Act operations is held
// until the outermost covering transaction commits and dropped if any of them
// rolls back. Operations inside a simulated transaction are logged with
// Simulate and never emit.
type Observed[T any] struct {
	ForwardingHandler[T]
	cfg     config
	emitter *activity.Emitter
	frames  []*txFrame[T]
}

type txFrame[T any] struct {
	tx      *Transaction
	pending []heldEmission[T]
}

type heldEmission[T any] struct {
	event    TransferLogEvent
	resource T
}

// Observe wraps h. Without options it only assigns a random name.
func Observe[T any](h Handler[T], opts ...Option) *Observed[T] {
	cfg := applyOptions(opts)
	return &Observed[T]{
		ForwardingHandler: ForwardingHandler[T]{To: h},
		cfg:               cfg,
		emitter: activity.NewEmitter(cfg.activityHooks,
			activity.WithChannel(cfg.channel),
			activity.WithActor(cfg.actorID),
		),
	}
}

// Name returns the label used in events.
func (o *Observed[T]) Name() string { return o.cfg.name }

// Unwrap returns the observed handler.
func (o *Observed[T]) Unwrap() Handler[T] { return o.To }

// Enlist implements Enlister.
func (o *Observed[T]) Enlist(tx *Transaction) {
	o.frames = append(o.frames, &txFrame[T]{tx: tx})
	enlist(o.To, tx)
}

// Delist implements Enlister. Held activity moves to the enclosing
// transaction on commit, is emitted when none is left, and is dropped on
// rollback.
func (o *Observed[T]) Delist(tx *Transaction) {
	delist(o.To, tx)
	index := -1
	for i := len(o.frames) - 1; i >= 0; i-- {
		if o.frames[i].tx == tx {
			index = i
			break
		}
	}
	if index < 0 {
		return
	}
	frame := o.frames[index]
	o.frames = append(o.frames[:index], o.frames[index+1:]...)
	if !tx.Committed() {
		return
	}
	if index > 0 {
		below := o.frames[index-1]
		below.pending = append(below.pending, frame.pending...)
		return
	}
	for _, held := range frame.pending {
		if err := o.emit(held.event.Operation, held.event.Slot, held.event.Moved, held.resource); err != nil {
			event := held.event
			event.Err = err
			o.cfg.logger.LogTransfer(event)
		}
	}
}

func (o *Observed[T]) simulated() bool {
	for _, frame := range o.frames {
		if frame.tx.Simulated() {
			return true
		}
	}
	return false
}

func (o *Observed[T]) Insert(resource T, action Action) int64 {
	start := time.Now()
	inserted := o.To.Insert(resource, action)
	o.record(OperationInsert, action, -1, o.To.Amount(resource), inserted, resource, time.Since(start))
	return inserted
}

func (o *Observed[T]) Extract(resource T, action Action) T {
	start := time.Now()
	extracted := o.To.Extract(resource, action)
	o.record(OperationExtract, action, -1, o.To.Amount(resource), o.To.Amount(extracted), extracted, time.Since(start))
	return extracted
}

func (o *Observed[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	start := time.Now()
	extracted := o.To.ExtractMatching(p, maxAmount, action)
	o.record(OperationExtractMatching, action, -1, maxAmount, o.To.Amount(extracted), extracted, time.Since(start))
	return extracted
}

func (o *Observed[T]) Get(index int) (ResourceView[T], error) {
	view, err := o.To.Get(index)
	if err != nil {
		return nil, err
	}
	return &observedSlot[T]{ForwardingResourceView: ForwardingResourceView[T]{To: view}, owner: o, index: index}, nil
}

func (o *Observed[T]) Contents() iter.Seq[ResourceView[T]] {
	return func(yield func(ResourceView[T]) bool) {
		index := 0
		for view := range o.To.Contents() {
			slot := &observedSlot[T]{ForwardingResourceView: ForwardingResourceView[T]{To: view}, owner: o, index: index}
			if !yield(slot) {
				return
			}
			index++
		}
	}
}

func (o *Observed[T]) record(op Operation, action Action, slot int, requested, moved int64, resource T, duration time.Duration) {
	event := TransferLogEvent{
		Handler:   o.cfg.name,
		Operation: op,
		Action:    action,
		Slot:      slot,
		Requested: requested,
		Moved:     moved,
		Resource:  resource,
		Duration:  duration,
	}
	if action == Act && o.simulated() {
		event.Action = Simulate
	}
	if event.Action == Act && moved > 0 {
		if n := len(o.frames); n > 0 {
			top := o.frames[n-1]
			top.pending = append(top.pending, heldEmission[T]{event: event, resource: resource})
		} else {
			event.Err = o.emit(op, slot, moved, resource)
		}
	}
	o.cfg.logger.LogTransfer(event)
}

func (o *Observed[T]) emit(op Operation, slot int, moved int64, resource T) error {
	if !o.emitter.Enabled() {
		return nil
	}
	return o.emitter.Emit(context.Background(), activity.Record{
		Handler:   o.cfg.name,
		Operation: string(op),
		Extract:   op != OperationInsert,
		Slot:      slot,
		Amount:    moved,
		Resource:  fmt.Sprint(o.To.CopyWithAmount(resource, moved)),
	})
}

type observedSlot[T any] struct {
	ForwardingResourceView[T]
	owner *Observed[T]
	index int
}

func (s *observedSlot[T]) Insert(resource T, action Action) int64 {
	start := time.Now()
	inserted := s.To.Insert(resource, action)
	s.owner.record(OperationInsert, action, s.index, s.To.Amount(resource), inserted, resource, time.Since(start))
	return inserted
}

func (s *observedSlot[T]) Extract(resource T, action Action) T {
	start := time.Now()
	extracted := s.To.Extract(resource, action)
	s.owner.record(OperationExtract, action, s.index, s.To.Amount(resource), s.To.Amount(extracted), extracted, time.Since(start))
	return extracted
}

func (s *observedSlot[T]) ExtractMatching(p Predicate[T], maxAmount int64, action Action) T {
	return ExtractMatchingResource[T](s, p, maxAmount, action)
}
