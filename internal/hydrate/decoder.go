package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNilPayload reports a missing payload.
	ErrNilPayload = errors.New("hydrate: nil payload")
	// ErrAliasConflict reports a payload that sets both an alias and its field.
	ErrAliasConflict = errors.New("hydrate: alias and field both set")
)

// Position locates a payload. Index is -1 for a payload outside a batch.
type Position struct {
	Source string
	Index  int
}

func (p Position) String() string {
	if p.Index < 0 {
		return p.Source
	}
	return fmt.Sprintf("%s[%d]", p.Source, p.Index)
}

// PayloadError wraps a failure with the payload position and the stage that
// rejected it.
type PayloadError struct {
	Position Position
	Stage    string
	Err      error
}

func (e *PayloadError) Error() string {
	return fmt.Sprintf("hydrate: %s %s: %v", e.Stage, e.Position, e.Err)
}

func (e *PayloadError) Unwrap() error { return e.Err }

// Rewrite reshapes a payload before it is decoded. Payloads reach rewrites
// already normalized to JSON types, so numbers are float64.
type Rewrite func(Position, map[string]any) (map[string]any, error)

// Check validates or canonicalizes a decoded value.
type Check[T any] func(Position, *T) error

// Option configures a Decoder.
type Option[T any] func(*Decoder[T])

type alias struct {
	from, to string
}

// Decoder hydrates loosely typed payloads into T. Stages run in order:
// aliases, rewrites, JSON decoding, checks.
type Decoder[T any] struct {
	aliases  []alias
	rewrites []Rewrite
	checks   []Check[T]
	strict   bool
}

// WithAlias accepts from as another name for field to.
func WithAlias[T any](from, to string) Option[T] {
	return func(d *Decoder[T]) {
		d.aliases = append(d.aliases, alias{from: from, to: to})
	}
}

// WithRewrite appends a rewrite stage.
func WithRewrite[T any](rewrite Rewrite) Option[T] {
	return func(d *Decoder[T]) {
		if rewrite != nil {
			d.rewrites = append(d.rewrites, rewrite)
		}
	}
}

// WithCheck appends a check stage.
func WithCheck[T any](check Check[T]) Option[T] {
	return func(d *Decoder[T]) {
		if check != nil {
			d.checks = append(d.checks, check)
		}
	}
}

// Strict rejects fields T does not declare.
func Strict[T any]() Option[T] {
	return func(d *Decoder[T]) { d.strict = true }
}

func NewDecoder[T any](opts ...Option[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode hydrates payload without modifying it.
func (d *Decoder[T]) Decode(pos Position, payload map[string]any) (T, error) {
	var zero T
	if payload == nil {
		return zero, &PayloadError{Position: pos, Stage: "read", Err: ErrNilPayload}
	}

	current, err := normalize(payload)
	if err != nil {
		return zero, &PayloadError{Position: pos, Stage: "read", Err: err}
	}
	for _, a := range d.aliases {
		value, ok := current[a.from]
		if !ok {
			continue
		}
		if _, exists := current[a.to]; exists {
			return zero, &PayloadError{Position: pos, Stage: "alias", Err: fmt.Errorf("%w: %q and %q", ErrAliasConflict, a.from, a.to)}
		}
		delete(current, a.from)
		current[a.to] = value
	}
	for _, rewrite := range d.rewrites {
		next, err := rewrite(pos, current)
		if err != nil {
			return zero, &PayloadError{Position: pos, Stage: "rewrite", Err: err}
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return zero, &PayloadError{Position: pos, Stage: "decode", Err: err}
	}
	dec := json.NewDecoder(bytes.NewReader(buffer))
	if d.strict {
		dec.DisallowUnknownFields()
	}
	var result T
	if err := dec.Decode(&result); err != nil {
		return zero, &PayloadError{Position: pos, Stage: "decode", Err: err}
	}

	for _, check := range d.checks {
		if err := check(pos, &result); err != nil {
			return zero, &PayloadError{Position: pos, Stage: "check", Err: err}
		}
	}
	return result, nil
}

// DecodeAll decodes every payload of a batch. All payloads are attempted and
// failures are joined; any failure discards the batch.
func (d *Decoder[T]) DecodeAll(source string, payloads []map[string]any) ([]T, error) {
	out := make([]T, 0, len(payloads))
	var errs []error
	for i, payload := range payloads {
		value, err := d.Decode(Position{Source: source, Index: i}, payload)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, value)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// normalize deep-copies payload through JSON so rewrites see uniform types
// and cannot reach the caller's maps.
func normalize(payload map[string]any) (map[string]any, error) {
	buffer, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(buffer, &out); err != nil {
		return nil, err
	}
	return out, nil
}
