// Package lookup resolves handlers from host locators such as a world
// position or an entity reference.
package lookup

import (
	"context"
	"sync"

	transfer "github.com/goliatone/go-transfer"
	"github.com/goliatone/go-transfer/pkg/platform"
)

// Lookup finds the handler exposed at locator. found is false when nothing
// at locator exposes one; err is reserved for lookup failures.
type Lookup[T, L any] interface {
	Find(ctx context.Context, locator L) (handler transfer.Handler[T], found bool, err error)
}

// Func adapts a function to Lookup.
type Func[T, L any] func(ctx context.Context, locator L) (transfer.Handler[T], bool, error)

func (f Func[T, L]) Find(ctx context.Context, locator L) (transfer.Handler[T], bool, error) {
	return f(ctx, locator)
}

// FromRegistry builds a Lookup that resolves locator to a native object with
// resolve and wraps it through registry.
func FromRegistry[T, L any](registry *platform.Registry[T], resolve func(ctx context.Context, locator L) (any, bool, error)) Lookup[T, L] {
	return Func[T, L](func(ctx context.Context, locator L) (transfer.Handler[T], bool, error) {
		object, ok, err := resolve(ctx, locator)
		if err != nil || !ok {
			return nil, false, err
		}
		handler, err := registry.Wrap(object)
		if err != nil {
			return nil, false, err
		}
		return handler, handler != nil, nil
	})
}

// Access chains lookups; the first one that finds a handler wins.
type Access[T, L any] struct {
	mu      sync.RWMutex
	kind    transfer.Kind[T]
	lookups []Lookup[T, L]
}

// NewAccess returns an Access whose fallback handler is transfer.Empty(kind).
func NewAccess[T, L any](kind transfer.Kind[T], lookups ...Lookup[T, L]) *Access[T, L] {
	return &Access[T, L]{kind: kind, lookups: lookups}
}

// Register appends lookup to the chain.
func (a *Access[T, L]) Register(lookup Lookup[T, L]) {
	if lookup == nil {
		return
	}
	a.mu.Lock()
	a.lookups = append(a.lookups, lookup)
	a.mu.Unlock()
}

// Find consults each lookup in registration order.
func (a *Access[T, L]) Find(ctx context.Context, locator L) (transfer.Handler[T], bool, error) {
	a.mu.RLock()
	lookups := a.lookups
	a.mu.RUnlock()
	for _, lookup := range lookups {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}
		handler, found, err := lookup.Find(ctx, locator)
		if err != nil {
			return nil, false, err
		}
		if found && handler != nil {
			return handler, true, nil
		}
	}
	return nil, false, nil
}

// Handler is Find with an empty handler standing in for "not found".
func (a *Access[T, L]) Handler(ctx context.Context, locator L) (transfer.Handler[T], error) {
	handler, found, err := a.Find(ctx, locator)
	if err != nil {
		return nil, err
	}
	if !found {
		return transfer.Empty(a.kind), nil
	}
	return handler, nil
}
