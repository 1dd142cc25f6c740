// Package resources provides two reference resource types, discrete item
// stacks and fluids measured in milli-units, along with the adapters that
// expose native containers of them as transfer handlers.
package resources

import (
	"fmt"
	"maps"
	"sort"
	"strings"

	transfer "github.com/goliatone/go-transfer"
)

// Item is a stack of identical items. Tags distinguish variants sharing an ID.
type Item struct {
	ID    string            `json:"id"`
	Count int64             `json:"count"`
	Tags  map[string]string `json:"tags,omitempty"`
}

// NewItem returns a stack of count items.
func NewItem(id string, count int64, tags map[string]string) Item {
	return Item{ID: id, Count: count, Tags: maps.Clone(tags)}
}

// IsEmpty reports whether the stack carries nothing.
func (i Item) IsEmpty() bool { return i.Count <= 0 }

func (i Item) String() string {
	if i.IsEmpty() {
		return "empty"
	}
	if len(i.Tags) == 0 {
		return fmt.Sprintf("%dx %s", i.Count, i.ID)
	}
	return fmt.Sprintf("%dx %s{%s}", i.Count, i.ID, formatTags(i.Tags))
}

// ItemKind implements transfer.Kind for Item.
type ItemKind struct{}

var _ transfer.Kind[Item] = ItemKind{}

func (ItemKind) Amount(resource Item) int64 { return resource.Count }

func (ItemKind) SameVariant(a, b Item) bool {
	return a.ID == b.ID && maps.Equal(a.Tags, b.Tags)
}

func (ItemKind) Blank() Item { return Item{} }

func (ItemKind) CopyWithAmount(resource Item, amount int64) Item {
	if amount <= 0 {
		return Item{}
	}
	return Item{ID: resource.ID, Count: amount, Tags: maps.Clone(resource.Tags)}
}

// ItemBinder exposes id, count and tags to expression predicates.
func ItemBinder(resource Item) map[string]any {
	tags := make(map[string]any, len(resource.Tags))
	for key, value := range resource.Tags {
		tags[key] = value
	}
	return map[string]any{
		"id":    resource.ID,
		"count": resource.Count,
		"tags":  tags,
	}
}

// ItemID accepts stacks with the given id regardless of tags.
func ItemID(id string) transfer.Predicate[Item] {
	return func(resource Item) bool { return resource.ID == id }
}

// HasTag accepts stacks carrying key with value.
func HasTag(key, value string) transfer.Predicate[Item] {
	return func(resource Item) bool {
		v, ok := resource.Tags[key]
		return ok && v == value
	}
}

func formatTags(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for key := range tags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+"="+tags[key])
	}
	return strings.Join(parts, ",")
}
