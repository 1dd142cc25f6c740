package transfer

import (
	"testing"

	"github.com/goliatone/go-transfer/pkg/activity"
	"github.com/google/go-cmp/cmp"
)

func TestMoveNegotiatesAmount(t *testing.T) {
	source := newSingle(64, WithInitial(items("iron", 40)))
	target := newSingle(64, WithInitial(items("iron", 50)))

	preview := Move[stack](source, target, nil, 64, Simulate)
	if preview.Count != 14 {
		t.Fatalf("expected simulated move of 14, got %v", preview)
	}
	if source.Resource().Count != 40 || target.Resource().Count != 50 {
		t.Fatalf("simulate mutated participants")
	}

	moved := Move[stack](source, target, nil, 64, Act)
	if moved.Count != 14 {
		t.Fatalf("expected move of 14, got %v", moved)
	}
	if source.Resource().Count != 26 || target.Resource().Count != 64 {
		t.Fatalf("unexpected state %v / %v", source.Resource(), target.Resource())
	}
}

func TestMoveRespectsFilterAndVariant(t *testing.T) {
	source := CombineSingles[stack](stackKind{}, newSingle(64, WithInitial(items("gold", 5))), newSingle(64, WithInitial(items("iron", 5))))
	target := newSingle(64, WithInitial(items("coal", 1)))

	if got := Move[stack](source, target, nil, 10, Act); got.Count != 0 {
		t.Fatalf("expected incompatible target to reject, got %v", got)
	}
	emptyTarget := newSingle(64)
	got := Move[stack](source, emptyTarget, func(s stack) bool { return s.Variant == "iron" }, 3, Act)
	if got.Count != 3 || got.Variant != "iron" {
		t.Fatalf("expected 3 iron moved, got %v", got)
	}
	if slotsOf(source)[1].Count != 2 {
		t.Fatalf("expected iron slot at 2")
	}
}

// lossyView accepts during simulation but drops part of every committed insert.
type lossyView struct {
	*SimpleSingle[stack]
}

func (l lossyView) Insert(resource stack, action Action) int64 {
	if action == Act && resource.Count > 1 {
		resource.Count--
	}
	return l.SimpleSingle.Insert(resource, action)
}

func TestMoveRollsBackOnDisagreement(t *testing.T) {
	source := newSingle(64, WithInitial(items("iron", 10)))
	target := lossyView{newSingle(64)}

	if got := Move[stack](source, target, nil, 10, Act); got.Count != 0 {
		t.Fatalf("expected aborted move, got %v", got)
	}
	if source.Resource().Count != 10 || target.Resource().Count != 0 {
		t.Fatalf("aborted move left %v / %v", source.Resource(), target.Resource())
	}
}

func TestMoveAll(t *testing.T) {
	source := CombineSingles[stack](stackKind{},
		newSingle(10, WithInitial(items("iron", 10))),
		newSingle(10, WithInitial(items("iron", 10))),
		newSingle(10, WithInitial(items("gold", 3))),
	)
	target := CombineSingles[stack](stackKind{}, newSingle(16), newSingle(16))

	if got := MoveAll[stack](source, target, nil, 100, Simulate); got != 20 {
		t.Fatalf("expected simulated total 20, got %d", got)
	}
	if slotsOf(target)[0].Count != 0 {
		t.Fatalf("simulated MoveAll mutated target")
	}
	if got := MoveAll[stack](source, target, nil, 12, Act); got != 12 {
		t.Fatalf("expected capped total 12, got %d", got)
	}
	if got := MoveAll[stack](source, target, nil, 100, Act); got != 8 {
		t.Fatalf("expected remaining 8 iron moved, got %d", got)
	}
	if slotsOf(source)[2].Count != 3 {
		t.Fatalf("gold has nowhere to go and should stay put")
	}
}

func TestMoveCommitsTheSlotTheFilterChose(t *testing.T) {
	largeOnly, err := CompilePredicate[stack](nil, "amount > 10", stackKind{}, nil)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	filters := map[string]Predicate[stack]{
		"func":       func(s stack) bool { return s.Count > 10 },
		"expression": largeOnly,
	}
	for name, filter := range filters {
		t.Run(name, func(t *testing.T) {
			source := CombineSingles[stack](stackKind{},
				newSingle(64, WithInitial(items("iron", 5))),
				newSingle(64, WithInitial(items("iron", 20))),
			)
			target := newSingle(64)

			preview := Move[stack](source, target, filter, 64, Simulate)
			moved := Move[stack](source, target, filter, 64, Act)
			if diff := cmp.Diff(preview, moved); diff != "" {
				t.Fatalf("act differs from simulate (-simulate +act):\n%s", diff)
			}
			if moved.Count != 20 {
				t.Fatalf("expected 20 iron moved, got %v", moved)
			}
			slots := slotsOf(source)
			if slots[0].Count != 5 || slots[1].Count != 0 {
				t.Fatalf("filter-rejected slot was drained: %v", slots)
			}
			if target.Resource().Count != 20 {
				t.Fatalf("expected target to hold 20, got %v", target.Resource())
			}
		})
	}
}

func TestMoveAllSimulateLeavesNoActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	var logged []TransferLogEvent
	logger := TransferLoggerFunc(func(event TransferLogEvent) { logged = append(logged, event) })
	sourceSlot := newSingle(64, WithInitial(items("iron", 30)))
	source := Observe[stack](sourceSlot, WithName("source"), WithLogger(logger), WithActivityHooks(activity.Hooks{capture}))
	target := Observe[stack](newSingle(64), WithName("target"), WithLogger(logger), WithActivityHooks(activity.Hooks{capture}))

	if got := MoveAll[stack](source, target, nil, 100, Simulate); got != 30 {
		t.Fatalf("expected simulated total 30, got %d", got)
	}
	if sourceSlot.Resource().Count != 30 {
		t.Fatalf("simulated MoveAll mutated source: %v", sourceSlot.Resource())
	}
	if events := capture.Snapshot(); len(events) != 0 {
		t.Fatalf("simulated MoveAll emitted activity: %+v", events)
	}
	for _, event := range logged {
		if event.Action != Simulate {
			t.Fatalf("simulated MoveAll logged a committed operation: %+v", event)
		}
	}

	if got := MoveAll[stack](source, target, nil, 100, Act); got != 30 {
		t.Fatalf("expected total 30, got %d", got)
	}
	if got := capture.Total(activity.VerbExtract); got != 30 {
		t.Fatalf("expected 30 extracted in activity, got %d", got)
	}
	if got := capture.Total(activity.VerbInsert); got != 30 {
		t.Fatalf("expected 30 inserted in activity, got %d", got)
	}
}

func TestAbortedMoveLeavesNoActivity(t *testing.T) {
	capture := &activity.CaptureHook{}
	source := Observe[stack](newSingle(64, WithInitial(items("iron", 10))), WithActivityHooks(activity.Hooks{capture}))
	target := Observe[stack](lossyView{newSingle(64)}, WithActivityHooks(activity.Hooks{capture}))

	if got := Move[stack](source, target, nil, 10, Act); got.Count != 0 {
		t.Fatalf("expected aborted move, got %v", got)
	}
	if events := capture.Snapshot(); len(events) != 0 {
		t.Fatalf("aborted move emitted activity: %+v", events)
	}
}
