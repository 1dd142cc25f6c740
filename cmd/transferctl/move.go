package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	transfer "github.com/goliatone/go-transfer"
	"github.com/goliatone/go-transfer/pkg/resources"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errUnknownContainer = errors.New("transferctl: unknown container")

type moveFlags struct {
	from   string
	to     string
	filter string
	engine string
	max    int64
	action string
	all    bool
	write  bool
}

var moveOpts moveFlags

var moveCmd = &cobra.Command{
	Use:   "move",
	Short: "Move resources from one container to another",
	Long: `Move resources between two containers of the scenario.

Both containers must hold the same kind of resource: inventories exchange
items, tanks exchange fluids. --filter takes an expression evaluated against
each candidate (id, amount, tags) with the selected engine.`,
	Example: `  transferctl move --from chest --to hopper --filter 'id == "iron"' --max 16
  transferctl move --from boiler --to sink --action act --write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine := moveOpts.engine
		if !cmd.Flags().Changed("engine") {
			engine = cfg.Engine
		}
		out, err := runMove(cmd.Context(), scenario, moveOpts, engine)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	moveCmd.Flags().StringVar(&moveOpts.from, "from", "", "Source container")
	moveCmd.Flags().StringVar(&moveOpts.to, "to", "", "Destination container")
	moveCmd.Flags().StringVar(&moveOpts.filter, "filter", "", "Predicate expression selecting what to move")
	moveCmd.Flags().StringVar(&moveOpts.engine, "engine", "expr", "Expression engine (expr, cel, js)")
	moveCmd.Flags().Int64Var(&moveOpts.max, "max", 64, "Maximum amount to move")
	moveCmd.Flags().StringVar(&moveOpts.action, "action", "simulate", "simulate or act")
	moveCmd.Flags().BoolVar(&moveOpts.all, "all", false, "Keep moving until nothing more fits")
	moveCmd.Flags().BoolVar(&moveOpts.write, "write", false, "Write the resulting state back to the scenario file")
	_ = moveCmd.MarkFlagRequired("from")
	_ = moveCmd.MarkFlagRequired("to")
}

func runMove(ctx context.Context, path string, opts moveFlags, engine string) (string, error) {
	action, err := transfer.ParseAction(opts.action)
	if err != nil {
		return "", err
	}
	evaluator, err := newEvaluator(engine)
	if err != nil {
		return "", err
	}
	loaded, err := loadScenario(path)
	if err != nil {
		return "", err
	}
	world, err := loaded.Build()
	if err != nil {
		return "", err
	}
	rt, err := newRuntime(ctx, world, cfg, logger)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := rt.Close(context.Background()); cerr != nil {
			logger.Warn("runtime close failed", zap.Error(cerr))
		}
	}()

	var out string
	switch {
	case world.Inventories[opts.from] != nil:
		out, err = moveBetween[resources.Item](ctx, rt.ItemHandler, opts, action, evaluator, resources.ItemKind{}, resources.ItemBinder)
	case world.Tanks[opts.from] != nil:
		out, err = moveBetween[resources.Fluid](ctx, rt.FluidHandler, opts, action, evaluator, resources.FluidKind{}, resources.FluidBinder)
	default:
		err = fmt.Errorf("%w: %q", errUnknownContainer, opts.from)
	}
	if err != nil {
		return "", err
	}

	if opts.write && action == transfer.Act {
		if err := saveScenario(path, world.Scenario()); err != nil {
			return "", err
		}
	}
	return out, nil
}

type resolver[T any] func(ctx context.Context, name string) (transfer.Handler[T], bool, error)

func moveBetween[T any](ctx context.Context, resolve resolver[T], opts moveFlags, action transfer.Action, evaluator transfer.Evaluator, kind transfer.Kind[T], bind transfer.Binder[T]) (string, error) {
	from, found, err := resolve(ctx, opts.from)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %q", errUnknownContainer, opts.from)
	}
	to, found, err := resolve(ctx, opts.to)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%w: %q holds a different resource kind or does not exist", errUnknownContainer, opts.to)
	}

	filter := transfer.AlwaysTrue[T]()
	if strings.TrimSpace(opts.filter) != "" {
		filter, err = transfer.CompilePredicate(evaluator, opts.filter, kind, bind,
			transfer.WithPredicateErrorHandler(func(expression string, err error) {
				logger.Warn("filter evaluation failed", zap.String("expression", expression), zap.Error(err))
			}),
		)
		if err != nil {
			return "", fmt.Errorf("compile filter: %w", err)
		}
	}

	verb := "moved"
	if action.IsSimulate() {
		verb = "would move"
	}
	if opts.all {
		total := transfer.MoveAll[T](from, to, filter, opts.max, action)
		return fmt.Sprintf("%s %d from %s to %s", verb, total, opts.from, opts.to), nil
	}
	moved := transfer.Move[T](from, to, filter, opts.max, action)
	if kind.Amount(moved) <= 0 {
		return fmt.Sprintf("nothing to move from %s to %s", opts.from, opts.to), nil
	}
	return fmt.Sprintf("%s %v from %s to %s", verb, moved, opts.from, opts.to), nil
}

func newEvaluator(engine string) (transfer.Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", "expr":
		return transfer.NewExprEvaluator(), nil
	case "cel":
		return transfer.NewCELEvaluator(), nil
	case "js":
		if evaluator := transfer.NewJSEvaluator(); evaluator != nil {
			return evaluator, nil
		}
		return nil, fmt.Errorf("transferctl: js engine requires the js_eval build tag")
	default:
		return nil, fmt.Errorf("transferctl: unknown engine %q", engine)
	}
}
