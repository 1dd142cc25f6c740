package transfer

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrUnknownFunction reports a call to a name nothing was registered under.
	ErrUnknownFunction = errors.New("transfer: function not registered")
	// ErrDuplicateFunction reports a second registration of a name. Names are
	// compared case-insensitively.
	ErrDuplicateFunction = errors.New("transfer: function already registered")
)

// Function is a helper callable from predicate expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds the helpers exposed to every evaluator it is given
// to. Engines with native function support (expr, goja) see each helper under
// its registered name; all engines can reach them through call(name, ...).
type FunctionRegistry struct {
	mu      sync.RWMutex
	entries map[string]registeredFunction
}

type registeredFunction struct {
	name string
	fn   Function
}

// NewFunctionRegistry returns an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{entries: map[string]registeredFunction{}}
}

// StandardFunctions returns a registry preloaded with resource helpers:
//
//	hasTag(tags, key)         tags holds key
//	hasTag(tags, key, value)  tags maps key to value
//	oneOf(value, a, b, ...)   value equals one of the candidates
func StandardFunctions() *FunctionRegistry {
	r := NewFunctionRegistry()
	_ = r.Register("hasTag", hasTag)
	_ = r.Register("oneOf", oneOf)
	return r
}

// Register adds fn under name.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("transfer: function name must not be empty")
	}
	if fn == nil {
		return fmt.Errorf("transfer: function %q is nil", name)
	}
	key := strings.ToLower(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = map[string]registeredFunction{}
	}
	if existing, ok := r.entries[key]; ok {
		return fmt.Errorf("%w: %s (as %s)", ErrDuplicateFunction, name, existing.name)
	}
	r.entries[key] = registeredFunction{name: name, fn: fn}
	return nil
}

// Lookup returns the helper registered under name.
func (r *FunctionRegistry) Lookup(name string) (Function, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	entry, ok := r.entries[strings.ToLower(name)]
	r.mu.RUnlock()
	return entry.fn, ok
}

// Call runs the helper registered under name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	fn, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return fn(args...)
}

// Names returns the registered names, as registered, in sorted order.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.name)
	}
	slices.Sort(names)
	return names
}

// Clone returns an independent copy; nil stays nil.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{entries: maps.Clone(r.entries)}
}

func hasTag(args ...any) (any, error) {
	if len(args) != 2 && len(args) != 3 {
		return nil, fmt.Errorf("transfer: hasTag expects 2 or 3 arguments, got %d", len(args))
	}
	key := fmt.Sprint(args[1])
	var value any
	var found bool
	switch tags := args[0].(type) {
	case nil:
	case map[string]any:
		value, found = tags[key]
	case map[string]string:
		value, found = tags[key]
	case []any:
		found = slices.ContainsFunc(tags, func(tag any) bool { return fmt.Sprint(tag) == key })
		value = key
	case []string:
		found = slices.Contains(tags, key)
		value = key
	default:
		return nil, fmt.Errorf("transfer: hasTag: unsupported tags %T", args[0])
	}
	if !found || len(args) == 2 {
		return found, nil
	}
	return fmt.Sprint(value) == fmt.Sprint(args[2]), nil
}

func oneOf(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, errors.New("transfer: oneOf expects a value")
	}
	want := fmt.Sprint(args[0])
	for _, candidate := range args[1:] {
		if fmt.Sprint(candidate) == want {
			return true, nil
		}
	}
	return false, nil
}
