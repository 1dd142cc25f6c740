package clone

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stack struct {
	ID    string
	Count int64
	Tags  map[string]any
	Lore  []string
	Owner *string
}

func TestValueDetachesNestedData(t *testing.T) {
	owner := "steve"
	original := stack{
		ID:    "minecraft:sword",
		Count: 1,
		Tags:  map[string]any{"enchant": map[string]any{"sharpness": 5}},
		Lore:  []string{"forged"},
		Owner: &owner,
	}

	copied := Value(original)
	if diff := cmp.Diff(original, copied); diff != "" {
		t.Fatalf("clone differs from original (-want +got):\n%s", diff)
	}

	copied.Tags["enchant"].(map[string]any)["sharpness"] = 1
	copied.Lore[0] = "stolen"
	*copied.Owner = "alex"

	if original.Tags["enchant"].(map[string]any)["sharpness"] != 5 {
		t.Fatalf("nested map shared with clone")
	}
	if original.Lore[0] != "forged" {
		t.Fatalf("slice shared with clone")
	}
	if owner != "steve" {
		t.Fatalf("pointer target shared with clone")
	}
}

func TestValueKeepsNilCollections(t *testing.T) {
	copied := Value(stack{ID: "minecraft:air"})
	if copied.Tags != nil || copied.Lore != nil || copied.Owner != nil {
		t.Fatalf("expected nil collections to stay nil, got %+v", copied)
	}
}

func TestValueScalars(t *testing.T) {
	if got := Value(int64(42)); got != 42 {
		t.Fatalf("expected 42, got %d", got)
	}
	var nothing any
	if got := Value(nothing); got != nil {
		t.Fatalf("expected nil interface, got %v", got)
	}
}
