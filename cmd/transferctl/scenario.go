package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/goliatone/go-transfer/pkg/resources"
	"gopkg.in/yaml.v3"
)

// Scenario is the on-disk description of a set of containers.
type Scenario struct {
	Inventories []InventorySpec `yaml:"inventories"`
	Tanks       []TankSpec      `yaml:"tanks"`
}

// InventorySpec describes a slotted item container. Items fill slots in order.
type InventorySpec struct {
	Name         string           `yaml:"name"`
	Slots        int              `yaml:"slots"`
	SlotCapacity int64            `yaml:"slot_capacity"`
	StackLimits  map[string]int64 `yaml:"stack_limits,omitempty"`
	Items        []map[string]any `yaml:"items,omitempty"`
}

// TankSpec describes a single-fluid container.
type TankSpec struct {
	Name     string         `yaml:"name"`
	Capacity int64          `yaml:"capacity"`
	Fluid    map[string]any `yaml:"fluid,omitempty"`
}

// World holds the native containers built from a scenario.
type World struct {
	Inventories map[string]*resources.Inventory
	Tanks       map[string]*resources.Tank
}

func loadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario: %w", err)
	}
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	return scenario, nil
}

func saveScenario(path string, scenario Scenario) error {
	data, err := yaml.Marshal(scenario)
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Build hydrates the scenario into native containers.
func (s Scenario) Build() (*World, error) {
	world := &World{
		Inventories: map[string]*resources.Inventory{},
		Tanks:       map[string]*resources.Tank{},
	}
	for _, spec := range s.Inventories {
		if spec.Name == "" {
			return nil, fmt.Errorf("inventory without name")
		}
		if _, exists := world.Inventories[spec.Name]; exists {
			return nil, fmt.Errorf("duplicate inventory %q", spec.Name)
		}
		items, err := resources.DecodeItems(spec.Name, spec.Items)
		if err != nil {
			return nil, err
		}
		if len(items) > spec.Slots {
			return nil, fmt.Errorf("inventory %q: %d items for %d slots", spec.Name, len(items), spec.Slots)
		}
		inv := resources.NewInventory(spec.Name, spec.Slots, spec.SlotCapacity)
		inv.StackLimits = spec.StackLimits
		copy(inv.Slots, items)
		world.Inventories[spec.Name] = inv
	}
	for _, spec := range s.Tanks {
		if spec.Name == "" {
			return nil, fmt.Errorf("tank without name")
		}
		tank := &resources.Tank{Name: spec.Name, Capacity: spec.Capacity}
		if spec.Fluid != nil {
			fluids, err := resources.DecodeFluids(spec.Name, []map[string]any{spec.Fluid})
			if err != nil {
				return nil, err
			}
			tank.Fluid = fluids[0]
		}
		world.Tanks[spec.Name] = tank
	}
	return world, nil
}

// Scenario captures the current contents of the world.
func (w *World) Scenario() Scenario {
	var out Scenario
	for _, name := range sortedKeys(w.Inventories) {
		inv := w.Inventories[name]
		spec := InventorySpec{
			Name:         inv.Name,
			Slots:        len(inv.Slots),
			SlotCapacity: inv.SlotCapacity,
			StackLimits:  inv.StackLimits,
		}
		for _, item := range inv.Slots {
			spec.Items = append(spec.Items, itemPayload(item))
		}
		out.Inventories = append(out.Inventories, spec)
	}
	for _, name := range sortedKeys(w.Tanks) {
		tank := w.Tanks[name]
		spec := TankSpec{Name: tank.Name, Capacity: tank.Capacity}
		if !tank.Fluid.IsEmpty() {
			spec.Fluid = map[string]any{"id": tank.Fluid.ID, "amount": tank.Fluid.Amount}
			if len(tank.Fluid.Tags) > 0 {
				spec.Fluid["tags"] = tank.Fluid.Tags
			}
		}
		out.Tanks = append(out.Tanks, spec)
	}
	return out
}

func itemPayload(item resources.Item) map[string]any {
	if item.IsEmpty() {
		return map[string]any{"count": 0}
	}
	payload := map[string]any{"id": item.ID, "count": item.Count}
	if len(item.Tags) > 0 {
		payload["tags"] = item.Tags
	}
	return payload
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
