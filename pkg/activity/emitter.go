package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// DefaultChannel is applied to events emitted without a channel.
const DefaultChannel = "transfer"

// Record is a single committed movement reported by an observed handler.
type Record struct {
	Handler   string
	Operation string
	Extract   bool
	Slot      int
	Amount    int64
	Resource  string
}

// Emitter turns records into events and fans them out to hooks.
type Emitter struct {
	hooks   Hooks
	channel string
	actor   string
	now     func() time.Time
}

// EmitterOption customizes an Emitter.
type EmitterOption func(*Emitter)

// WithChannel overrides DefaultChannel.
func WithChannel(channel string) EmitterOption {
	return func(e *Emitter) {
		if channel = strings.TrimSpace(channel); channel != "" {
			e.channel = channel
		}
	}
}

// WithActor stamps every event with actor.
func WithActor(actor string) EmitterOption {
	return func(e *Emitter) { e.actor = strings.TrimSpace(actor) }
}

// WithClock replaces time.Now for OccurredAt.
func WithClock(now func() time.Time) EmitterOption {
	return func(e *Emitter) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEmitter drops nil hooks. An emitter without hooks is disabled.
func NewEmitter(hooks Hooks, opts ...EmitterOption) *Emitter {
	e := &Emitter{channel: DefaultChannel, now: time.Now}
	for _, hook := range hooks {
		if hook != nil {
			e.hooks = append(e.hooks, hook)
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Enabled reports whether any hook would be notified.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Event builds the event published for r.
func (e *Emitter) Event(r Record) Event {
	verb := VerbInsert
	if r.Extract {
		verb = VerbExtract
	}
	metadata := map[string]any{"slot": r.Slot}
	if r.Operation != "" {
		metadata["operation"] = r.Operation
	}
	return Event{
		Verb:       verb,
		ActorID:    e.actor,
		ObjectType: ObjectTypeHandler,
		ObjectID:   r.Handler,
		Channel:    e.channel,
		Amount:     r.Amount,
		Resource:   r.Resource,
		Metadata:   metadata,
		OccurredAt: e.now().UTC(),
	}
}

// Emit publishes a single record.
func (e *Emitter) Emit(ctx context.Context, r Record) error {
	if !e.Enabled() {
		return nil
	}
	return e.hooks.Notify(ctx, e.Event(r))
}

// EmitAll publishes records in order. Every record is attempted; failures
// are joined.
func (e *Emitter) EmitAll(ctx context.Context, records []Record) error {
	if !e.Enabled() {
		return nil
	}
	var errs []error
	for _, r := range records {
		if err := e.hooks.Notify(ctx, e.Event(r)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
