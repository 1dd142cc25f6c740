// Package platform converts host-native objects to transfer handlers and back.
// Adapters are registered during startup; once the registry is sealed it is
// read-only and safe for concurrent lookups.
package platform

import (
	"errors"
	"fmt"
	"sync"

	transfer "github.com/goliatone/go-transfer"
)

var (
	// ErrUnsupported reports an object or handler no adapter understands.
	ErrUnsupported = errors.New("platform: unsupported object")
	// ErrSealed reports a registration attempted after Seal.
	ErrSealed = errors.New("platform: registry sealed")
	// ErrAdapterName reports an adapter without a name.
	ErrAdapterName = errors.New("platform: adapter name required")
	// ErrDuplicateAdapter reports a second adapter registered under one name.
	ErrDuplicateAdapter = errors.New("platform: adapter already registered")
)

// Adapter wraps one family of native objects. Wrap and Unwrap return
// ErrUnsupported for values outside that family so the registry can try the
// next adapter.
type Adapter[T any] interface {
	Name() string
	Wrap(object any) (transfer.Handler[T], error)
	Unwrap(handler transfer.Handler[T]) (any, error)
}

// AdapterFuncs builds an Adapter from plain functions. A nil UnwrapFunc makes
// the adapter wrap-only.
type AdapterFuncs[T any] struct {
	AdapterName string
	WrapFunc    func(object any) (transfer.Handler[T], error)
	UnwrapFunc  func(handler transfer.Handler[T]) (any, error)
}

func (a AdapterFuncs[T]) Name() string { return a.AdapterName }

func (a AdapterFuncs[T]) Wrap(object any) (transfer.Handler[T], error) {
	if a.WrapFunc == nil {
		return nil, ErrUnsupported
	}
	return a.WrapFunc(object)
}

func (a AdapterFuncs[T]) Unwrap(handler transfer.Handler[T]) (any, error) {
	if a.UnwrapFunc == nil {
		return nil, ErrUnsupported
	}
	return a.UnwrapFunc(handler)
}

// Registry resolves wrap/unwrap requests through adapters in registration
// order.
type Registry[T any] struct {
	mu       sync.RWMutex
	adapters []Adapter[T]
	sealed   bool
}

// NewRegistry returns an open registry seeded with adapters.
func NewRegistry[T any](adapters ...Adapter[T]) (*Registry[T], error) {
	r := &Registry[T]{}
	for _, adapter := range adapters {
		if err := r.Register(adapter); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register appends adapter. It fails once the registry is sealed.
func (r *Registry[T]) Register(adapter Adapter[T]) error {
	if adapter == nil || adapter.Name() == "" {
		return ErrAdapterName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrSealed, adapter.Name())
	}
	for _, existing := range r.adapters {
		if existing.Name() == adapter.Name() {
			return fmt.Errorf("%w: %q", ErrDuplicateAdapter, adapter.Name())
		}
	}
	r.adapters = append(r.adapters, adapter)
	return nil
}

// Seal ends the registration phase.
func (r *Registry[T]) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry[T]) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Names lists adapter names in registration order.
func (r *Registry[T]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.adapters))
	for _, adapter := range r.adapters {
		names = append(names, adapter.Name())
	}
	return names
}

// Wrap converts object into a handler. A nil object wraps to a nil handler.
func (r *Registry[T]) Wrap(object any) (transfer.Handler[T], error) {
	if object == nil {
		return nil, nil
	}
	for _, adapter := range r.snapshot() {
		handler, err := adapter.Wrap(object)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("platform: %s wrap: %w", adapter.Name(), err)
		}
		return handler, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrUnsupported, object)
}

// Unwrap converts handler back to its native object. A nil handler unwraps to
// nil.
func (r *Registry[T]) Unwrap(handler transfer.Handler[T]) (any, error) {
	if handler == nil {
		return nil, nil
	}
	for _, adapter := range r.snapshot() {
		object, err := adapter.Unwrap(handler)
		if errors.Is(err, ErrUnsupported) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("platform: %s unwrap: %w", adapter.Name(), err)
		}
		return object, nil
	}
	return nil, fmt.Errorf("%w: handler %T", ErrUnsupported, handler)
}

func (r *Registry[T]) snapshot() []Adapter[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.adapters
}
