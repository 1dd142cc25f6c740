package resources

import (
	"errors"

	transfer "github.com/goliatone/go-transfer"
	"github.com/goliatone/go-transfer/pkg/platform"
)

// Inventory is a native slotted item container. Handlers built from it write
// straight into Slots.
type Inventory struct {
	Name         string
	Slots        []Item
	SlotCapacity int64
	// StackLimits caps specific item ids below SlotCapacity.
	StackLimits map[string]int64
}

// NewInventory returns an inventory with size empty slots.
func NewInventory(name string, size int, slotCapacity int64) *Inventory {
	return &Inventory{
		Name:         name,
		Slots:        make([]Item, size),
		SlotCapacity: slotCapacity,
	}
}

func (inv *Inventory) capacity(item Item) int64 {
	if limit, ok := inv.StackLimits[item.ID]; ok && limit < inv.SlotCapacity {
		return limit
	}
	return inv.SlotCapacity
}

// Handler exposes the inventory as one slot handler per element of Slots.
func (inv *Inventory) Handler() transfer.Handler[Item] {
	singles := make([]transfer.SingleHandler[Item], len(inv.Slots))
	for i := range inv.Slots {
		singles[i] = transfer.NewSimpleSingle[Item](ItemKind{}, inv.SlotCapacity,
			transfer.WithSlot[Item](transfer.PointerSlot(&inv.Slots[i])),
			transfer.WithCapacityFunc(inv.capacity),
		)
	}
	return &inventoryHandler{
		ForwardingHandler: transfer.ForwardingHandler[Item]{To: transfer.CombineSingles[Item](ItemKind{}, singles...)},
		inventory:         inv,
	}
}

type inventoryHandler struct {
	transfer.ForwardingHandler[Item]
	inventory *Inventory
}

// Tank is a native single-fluid container.
type Tank struct {
	Name     string
	Fluid    Fluid
	Capacity int64
}

// Handler exposes the tank as a single slot.
func (t *Tank) Handler() transfer.SingleHandler[Fluid] {
	return &tankHandler{
		SimpleSingle: transfer.NewSimpleSingle[Fluid](FluidKind{}, t.Capacity,
			transfer.WithSlot[Fluid](transfer.PointerSlot(&t.Fluid)),
		),
		tank: t,
	}
}

type tankHandler struct {
	*transfer.SimpleSingle[Fluid]
	tank *Tank
}

// Unwrapper is implemented by decorators that expose the handler they wrap.
type Unwrapper[T any] interface {
	Unwrap() transfer.Handler[T]
}

// peel strips decorators until handler has type H.
func peel[T any, H any](handler transfer.Handler[T]) (H, bool) {
	for handler != nil {
		if target, ok := handler.(H); ok {
			return target, true
		}
		inner, ok := handler.(Unwrapper[T])
		if !ok {
			break
		}
		handler = inner.Unwrap()
	}
	var zero H
	return zero, false
}

// InventoryAdapter wraps *Inventory values.
func InventoryAdapter() platform.Adapter[Item] {
	return platform.AdapterFuncs[Item]{
		AdapterName: "inventory",
		WrapFunc: func(object any) (transfer.Handler[Item], error) {
			inv, ok := object.(*Inventory)
			if !ok {
				return nil, platform.ErrUnsupported
			}
			if inv == nil {
				return nil, errNilContainer
			}
			return inv.Handler(), nil
		},
		UnwrapFunc: func(handler transfer.Handler[Item]) (any, error) {
			h, ok := peel[Item, *inventoryHandler](handler)
			if !ok {
				return nil, platform.ErrUnsupported
			}
			return h.inventory, nil
		},
	}
}

// TankAdapter wraps *Tank values.
func TankAdapter() platform.Adapter[Fluid] {
	return platform.AdapterFuncs[Fluid]{
		AdapterName: "tank",
		WrapFunc: func(object any) (transfer.Handler[Fluid], error) {
			tank, ok := object.(*Tank)
			if !ok {
				return nil, platform.ErrUnsupported
			}
			if tank == nil {
				return nil, errNilContainer
			}
			return tank.Handler(), nil
		},
		UnwrapFunc: func(handler transfer.Handler[Fluid]) (any, error) {
			h, ok := peel[Fluid, *tankHandler](handler)
			if !ok {
				return nil, platform.ErrUnsupported
			}
			return h.tank, nil
		},
	}
}

var errNilContainer = errors.New("resources: nil container")

// RegisterItemAdapters installs the item adapters on registry.
func RegisterItemAdapters(registry *platform.Registry[Item]) error {
	return registry.Register(InventoryAdapter())
}

// RegisterFluidAdapters installs the fluid adapters on registry.
func RegisterFluidAdapters(registry *platform.Registry[Fluid]) error {
	return registry.Register(TankAdapter())
}
