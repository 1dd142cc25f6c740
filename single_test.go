package transfer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSimpleSingleStacking(t *testing.T) {
	slot := newSingle(64)

	if got := slot.Insert(items("iron", 40), Act); got != 40 {
		t.Fatalf("expected 40 inserted into empty slot, got %d", got)
	}
	if got := slot.Insert(items("iron", 40), Simulate); got != 24 {
		t.Fatalf("expected simulate to report 24, got %d", got)
	}
	if got := slot.Resource().Count; got != 40 {
		t.Fatalf("simulate mutated slot: count %d", got)
	}
	if got := slot.Insert(items("iron", 40), Act); got != 24 {
		t.Fatalf("expected 24 inserted, got %d", got)
	}
	if got := slot.Resource().Count; got != 64 {
		t.Fatalf("expected full slot of 64, got %d", got)
	}
	if got := slot.Insert(items("iron", 1), Act); got != 0 {
		t.Fatalf("expected full slot to reject, got %d", got)
	}

	extracted := slot.Extract(items("iron", 100), Act)
	if extracted.Count != 64 || extracted.Variant != "iron" {
		t.Fatalf("expected 64 iron extracted, got %v", extracted)
	}
	if diff := cmp.Diff(stack{}, slot.Resource()); diff != "" {
		t.Fatalf("drained slot should hold blank (-want +got):\n%s", diff)
	}
}

func TestSimpleSingleVariantExclusivity(t *testing.T) {
	slot := newSingle(64, WithInitial(items("iron", 10)))

	if got := slot.Insert(items("gold", 5), Act); got != 0 {
		t.Fatalf("expected other variant rejected, got %d", got)
	}
	if got := slot.Insert(items("iron", 5, "rusty"), Act); got != 0 {
		t.Fatalf("expected tagged variant rejected, got %d", got)
	}
	if got := slot.Extract(items("gold", 5), Act); got.Count != 0 {
		t.Fatalf("expected no gold extracted, got %v", got)
	}
	if got := slot.Extract(items("iron", 4), Act); got.Count != 4 {
		t.Fatalf("expected 4 iron extracted, got %v", got)
	}
	if got := slot.Resource().Count; got != 6 {
		t.Fatalf("expected 6 left, got %d", got)
	}
}

func TestSimpleSingleRejectsNonPositive(t *testing.T) {
	slot := newSingle(64, WithInitial(items("iron", 10)))
	if got := slot.Insert(items("iron", 0), Act); got != 0 {
		t.Fatalf("expected zero insert to move nothing, got %d", got)
	}
	if got := slot.Insert(items("iron", -3), Act); got != 0 {
		t.Fatalf("expected negative insert to move nothing, got %d", got)
	}
	if got := slot.Extract(items("iron", 0), Act); got.Count != 0 {
		t.Fatalf("expected zero extract to move nothing, got %v", got)
	}
	if got := slot.Resource().Count; got != 10 {
		t.Fatalf("slot changed: %d", got)
	}
}

func TestSimpleSingleSimulateMatchesAct(t *testing.T) {
	requests := []stack{items("iron", 30), items("iron", 50), items("gold", 3), items("iron", 7)}
	for _, req := range requests {
		slot := newSingle(64, WithInitial(items("iron", 20)))
		simulated := slot.Insert(req, Simulate)
		before := slot.Resource()
		acted := slot.Insert(req, Act)
		if simulated != acted {
			t.Fatalf("insert %v: simulate %d != act %d", req, simulated, acted)
		}
		if acted == 0 && !cmp.Equal(before, slot.Resource()) {
			t.Fatalf("rejected insert mutated slot")
		}

		slot = newSingle(64, WithInitial(items("iron", 20)))
		simExtract := slot.Extract(req, Simulate)
		actExtract := slot.Extract(req, Act)
		if diff := cmp.Diff(simExtract, actExtract); diff != "" {
			t.Fatalf("extract %v: simulate differs from act (-sim +act):\n%s", req, diff)
		}
	}
}

func TestSimpleSingleInsertPredicateAndCapacity(t *testing.T) {
	slot := newSingle(64,
		WithInsertPredicate[stack](func(s stack) bool { return s.Variant != "lava" }),
		WithCapacityFunc(func(s stack) int64 {
			if s.Variant == "pearl" {
				return 16
			}
			return 64
		}),
	)
	if got := slot.Insert(items("lava", 1), Act); got != 0 {
		t.Fatalf("expected predicate to reject lava, got %d", got)
	}
	if got := slot.Insert(items("pearl", 20), Act); got != 16 {
		t.Fatalf("expected per-variant capacity 16, got %d", got)
	}
	if got := slot.Capacity(items("pearl", 1)); got != 16 {
		t.Fatalf("expected capacity 16, got %d", got)
	}
	if got := ResourceCapacity[stack](slot); got != 16 {
		t.Fatalf("expected resource capacity 16, got %d", got)
	}
}

func TestSimpleSingleSnapshotRoundTrip(t *testing.T) {
	slot := newSingle(64, WithInitial(items("iron", 10, "smelted")))
	saved := slot.SaveState()

	slot.Extract(items("iron", 10, "smelted"), Act)
	slot.Insert(items("gold", 3), Act)

	slot.LoadState(saved)
	if diff := cmp.Diff(items("iron", 10, "smelted"), slot.Resource()); diff != "" {
		t.Fatalf("restore mismatch (-want +got):\n%s", diff)
	}

	held := slot.Resource()
	held.Tags[0] = "mutated"
	slot.LoadState(saved)
	if slot.Resource().Tags[0] != "smelted" {
		t.Fatalf("snapshot shares memory with held resource")
	}

	slot.LoadState("foreign")
	if slot.Resource().Variant != "iron" {
		t.Fatalf("foreign state should be ignored")
	}
}

func TestSimpleSingleExternalSlot(t *testing.T) {
	backing := items("iron", 5)
	slot := newSingle(64, WithSlot[stack](PointerSlot(&backing)))

	slot.Insert(items("iron", 3), Act)
	if backing.Count != 8 {
		t.Fatalf("expected backing store updated to 8, got %d", backing.Count)
	}
	backing = items("gold", 2)
	if got := slot.Resource(); got.Variant != "gold" {
		t.Fatalf("expected slot to read backing store, got %v", got)
	}
}

func TestSimpleSingleIndexing(t *testing.T) {
	slot := newSingle(64, WithInitial(items("iron", 5)))
	if slot.Size() != 1 {
		t.Fatalf("expected size 1, got %d", slot.Size())
	}
	view, err := slot.Get(0)
	if err != nil {
		t.Fatalf("get 0: %v", err)
	}
	view.Close()

	for _, index := range []int{-1, 1} {
		_, err := slot.Get(index)
		var indexErr *IndexError
		if !errors.As(err, &indexErr) || !errors.Is(err, ErrIndexOutOfBounds) {
			t.Fatalf("index %d: expected IndexError, got %v", index, err)
		}
		if indexErr.Index != index || indexErr.Size != 1 {
			t.Fatalf("unexpected error fields %+v", indexErr)
		}
	}
}

func TestExtractMatchingOnSingle(t *testing.T) {
	slot := newSingle(64, WithInitial(items("iron", 10)))

	if got := slot.ExtractMatching(VariantOf[stack](stackKind{}, items("gold", 1)), 5, Act); got.Count != 0 {
		t.Fatalf("expected rejecting predicate to move nothing, got %v", got)
	}
	got := slot.ExtractMatching(nil, 4, Act)
	if got.Count != 4 || got.Variant != "iron" {
		t.Fatalf("expected 4 iron, got %v", got)
	}
	if got := ExtractAny[stack](slot, 100, Act); got.Count != 6 {
		t.Fatalf("expected remaining 6, got %v", got)
	}
	if got := slot.ExtractMatching(nil, 1, Act); got.Count != 0 {
		t.Fatalf("expected empty slot to yield blank, got %v", got)
	}
}
