package lookup

import (
	"context"
	"errors"
	"testing"

	transfer "github.com/goliatone/go-transfer"
	"github.com/goliatone/go-transfer/pkg/platform"
)

type units struct{}

func (units) Amount(v int64) int64                 { return v }
func (units) SameVariant(int64, int64) bool         { return true }
func (units) Blank() int64                          { return 0 }
func (units) CopyWithAmount(_ int64, n int64) int64 { return max(n, 0) }

func fixed(handlers map[string]transfer.Handler[int64]) Lookup[int64, string] {
	return Func[int64, string](func(_ context.Context, name string) (transfer.Handler[int64], bool, error) {
		h, ok := handlers[name]
		return h, ok, nil
	})
}

func TestAccessFirstFoundWins(t *testing.T) {
	primary := transfer.NewSimpleSingle[int64](units{}, 10)
	secondary := transfer.NewSimpleSingle[int64](units{}, 20)
	access := NewAccess[int64, string](units{},
		fixed(map[string]transfer.Handler[int64]{"tank": primary}),
		fixed(map[string]transfer.Handler[int64]{"tank": secondary, "barrel": secondary}),
	)

	handler, found, err := access.Find(context.Background(), "tank")
	if err != nil || !found {
		t.Fatalf("find tank: %v, %v", found, err)
	}
	if handler != transfer.Handler[int64](primary) {
		t.Fatalf("expected first registered lookup to win")
	}
	handler, found, _ = access.Find(context.Background(), "barrel")
	if !found || handler != transfer.Handler[int64](secondary) {
		t.Fatalf("expected fallthrough to second lookup")
	}
}

func TestAccessHandlerFallsBackToEmpty(t *testing.T) {
	access := NewAccess[int64, string](units{})
	handler, err := access.Handler(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	if handler.Size() != 0 || handler.Insert(5, transfer.Act) != 0 {
		t.Fatalf("expected empty handler")
	}
	if _, found, _ := access.Find(context.Background(), "nothing"); found {
		t.Fatalf("expected not found")
	}
}

func TestAccessPropagatesErrors(t *testing.T) {
	boom := errors.New("chunk not loaded")
	access := NewAccess[int64, string](units{})
	access.Register(Func[int64, string](func(context.Context, string) (transfer.Handler[int64], bool, error) {
		return nil, false, boom
	}))
	access.Register(nil)
	if _, err := access.Handler(context.Background(), "tank"); !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := access.Find(ctx, "tank"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestFromRegistry(t *testing.T) {
	type crate struct{ content int64 }
	registry, err := platform.NewRegistry[int64](platform.AdapterFuncs[int64]{
		AdapterName: "crate",
		WrapFunc: func(object any) (transfer.Handler[int64], error) {
			c, ok := object.(*crate)
			if !ok {
				return nil, platform.ErrUnsupported
			}
			return transfer.NewSimpleSingle[int64](units{}, 64, transfer.WithSlot[int64](transfer.PointerSlot(&c.content))), nil
		},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	registry.Seal()

	world := map[string]any{"crate": &crate{content: 3}, "rock": "rock"}
	found := FromRegistry(registry, func(_ context.Context, name string) (any, bool, error) {
		object, ok := world[name]
		return object, ok, nil
	})

	handler, ok, err := found.Find(context.Background(), "crate")
	if err != nil || !ok {
		t.Fatalf("find crate: %v, %v", ok, err)
	}
	if handler.Insert(10, transfer.Act) != 10 || world["crate"].(*crate).content != 13 {
		t.Fatalf("expected writes through to the native crate")
	}
	if _, ok, err := found.Find(context.Background(), "air"); ok || err != nil {
		t.Fatalf("expected miss for unknown locator, got %v, %v", ok, err)
	}
	if _, _, err := found.Find(context.Background(), "rock"); !errors.Is(err, platform.ErrUnsupported) {
		t.Fatalf("expected unsupported object error, got %v", err)
	}
}
