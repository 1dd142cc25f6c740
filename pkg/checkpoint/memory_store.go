package checkpoint

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store keyed by Ref.Identifier.
type MemoryStore[S any] struct {
	mu      sync.RWMutex
	records map[string]memoryRecord[S]
}

type memoryRecord[S any] struct {
	snapshot S
	meta     Meta
}

func NewMemoryStore[S any]() *MemoryStore[S] {
	return &MemoryStore[S]{records: map[string]memoryRecord[S]{}}
}

func (s *MemoryStore[S]) Load(_ context.Context, ref Ref) (S, Meta, bool, error) {
	var zero S
	key, err := ref.Identifier()
	if err != nil {
		return zero, Meta{}, false, err
	}

	s.mu.RLock()
	record, ok := s.records[key]
	s.mu.RUnlock()
	if !ok {
		return zero, Meta{}, false, nil
	}
	return record.snapshot, cloneMeta(record.meta), true, nil
}

func (s *MemoryStore[S]) Save(_ context.Context, ref Ref, snapshot S, meta Meta) (Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return Meta{}, err
	}
	if meta.CreatedAt.IsZero() {
		meta.CreatedAt = time.Now()
	}

	s.mu.Lock()
	if s.records == nil {
		s.records = map[string]memoryRecord[S]{}
	}
	s.records[key] = memoryRecord[S]{snapshot: snapshot, meta: cloneMeta(meta)}
	s.mu.Unlock()
	return cloneMeta(meta), nil
}

func (s *MemoryStore[S]) Delete(_ context.Context, ref Ref) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored checkpoints.
func (s *MemoryStore[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneMeta(meta Meta) Meta {
	out := meta
	if meta.Extra == nil {
		return out
	}
	out.Extra = make(map[string]string, len(meta.Extra))
	for k, v := range meta.Extra {
		out.Extra[k] = v
	}
	return out
}
