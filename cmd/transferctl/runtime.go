package main

import (
	"context"
	"fmt"

	transfer "github.com/goliatone/go-transfer"
	"github.com/goliatone/go-transfer/pkg/activity"
	"github.com/goliatone/go-transfer/pkg/activity/sqlitesink"
	"github.com/goliatone/go-transfer/pkg/lookup"
	"github.com/goliatone/go-transfer/pkg/platform"
	"github.com/goliatone/go-transfer/pkg/resources"
	"github.com/goliatone/go-transfer/pkg/transferotel"
	"github.com/goliatone/go-transfer/pkg/transferzap"
	"go.uber.org/zap"
)

// Runtime wires a world to handler lookups, logging and activity sinks.
type Runtime struct {
	World  *World
	Items  *lookup.Access[resources.Item, string]
	Fluids *lookup.Access[resources.Fluid, string]

	itemRegistry  *platform.Registry[resources.Item]
	fluidRegistry *platform.Registry[resources.Fluid]
	options       []transfer.Option
	ledger        *sqlitesink.Store
	shutdown      func(context.Context) error
}

func newRuntime(ctx context.Context, world *World, cfg Config, log *zap.Logger) (*Runtime, error) {
	items, err := platform.NewRegistry[resources.Item]()
	if err != nil {
		return nil, err
	}
	if err := resources.RegisterItemAdapters(items); err != nil {
		return nil, err
	}
	items.Seal()
	fluids, err := platform.NewRegistry[resources.Fluid]()
	if err != nil {
		return nil, err
	}
	if err := resources.RegisterFluidAdapters(fluids); err != nil {
		return nil, err
	}
	fluids.Seal()

	rt := &Runtime{
		World:         world,
		itemRegistry:  items,
		fluidRegistry: fluids,
		shutdown:      func(context.Context) error { return nil },
	}
	rt.Items = lookup.NewAccess[resources.Item, string](resources.ItemKind{},
		lookup.FromRegistry(items, func(_ context.Context, name string) (any, bool, error) {
			inv, ok := world.Inventories[name]
			return inv, ok, nil
		}),
	)
	rt.Fluids = lookup.NewAccess[resources.Fluid, string](resources.FluidKind{},
		lookup.FromRegistry(fluids, func(_ context.Context, name string) (any, bool, error) {
			tank, ok := world.Tanks[name]
			return tank, ok, nil
		}),
	)

	loggers := multiLogger{transferzap.New(log)}
	if cfg.OTelEndpoint != "" {
		shutdown, err := transferotel.Setup(ctx, "transferctl", cfg.OTelEndpoint)
		if err != nil {
			return nil, fmt.Errorf("otel setup: %w", err)
		}
		rt.shutdown = shutdown
		loggers = append(loggers, transferotel.New(ctx, nil))
	}

	var hooks activity.Hooks
	if cfg.ActivityDB != "" {
		ledger, err := sqlitesink.Open(cfg.ActivityDB)
		if err != nil {
			return nil, err
		}
		rt.ledger = ledger
		hooks = append(hooks, ledger)
	}

	rt.options = []transfer.Option{
		transfer.WithLogger(loggers),
		transfer.WithActor(cfg.Actor),
		transfer.WithActivityHooks(hooks),
	}
	return rt, nil
}

// ItemHandler resolves name to an observed item handler.
func (rt *Runtime) ItemHandler(ctx context.Context, name string) (transfer.Handler[resources.Item], bool, error) {
	handler, found, err := rt.Items.Find(ctx, name)
	if err != nil || !found {
		return nil, found, err
	}
	return transfer.Observe(handler, append(rt.options, transfer.WithName(name))...), true, nil
}

// FluidHandler resolves name to an observed fluid handler.
func (rt *Runtime) FluidHandler(ctx context.Context, name string) (transfer.Handler[resources.Fluid], bool, error) {
	handler, found, err := rt.Fluids.Find(ctx, name)
	if err != nil || !found {
		return nil, found, err
	}
	return transfer.Observe(handler, append(rt.options, transfer.WithName(name))...), true, nil
}

// Ledger returns the activity store, nil when none is configured.
func (rt *Runtime) Ledger() *sqlitesink.Store { return rt.ledger }

// Close flushes traces and closes the activity store.
func (rt *Runtime) Close(ctx context.Context) error {
	var firstErr error
	if err := rt.shutdown(ctx); err != nil {
		firstErr = err
	}
	if rt.ledger != nil {
		if err := rt.ledger.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type multiLogger []transfer.TransferLogger

func (m multiLogger) LogTransfer(event transfer.TransferLogEvent) {
	for _, logger := range m {
		logger.LogTransfer(event)
	}
}
