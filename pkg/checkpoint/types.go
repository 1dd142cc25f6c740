package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrOwnerRequired indicates a Ref without an owner.
	ErrOwnerRequired = errors.New("checkpoint: owner is required")
	// ErrIDRequired indicates a Ref without a checkpoint ID.
	ErrIDRequired = errors.New("checkpoint: id is required")
)

// Ref identifies one checkpoint recorded by one owner.
type Ref struct {
	Owner string
	ID    string
}

// Identifier returns the deterministic storage key for r.
func (r Ref) Identifier() (string, error) {
	owner := strings.TrimSpace(r.Owner)
	if owner == "" {
		return "", ErrOwnerRequired
	}
	id := strings.TrimSpace(r.ID)
	if id == "" {
		return "", ErrIDRequired
	}
	return fmt.Sprintf("%s/%s", owner, id), nil
}

// Meta is store-owned metadata describing a checkpoint.
type Meta struct {
	Label     string            `json:"label,omitempty"`
	Sequence  int               `json:"sequence"`
	CreatedAt time.Time         `json:"created_at,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Store loads, saves and deletes checkpoint snapshots.
type Store[S any] interface {
	Load(ctx context.Context, ref Ref) (snapshot S, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot S, meta Meta) (Meta, error)
	Delete(ctx context.Context, ref Ref) error
}
