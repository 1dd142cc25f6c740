package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	transfer "github.com/goliatone/go-transfer"
	"github.com/goliatone/go-transfer/pkg/resources"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [container...]",
	Short: "List the slots of scenario containers",
	RunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadScenario(scenario)
		if err != nil {
			return err
		}
		world, err := loaded.Build()
		if err != nil {
			return err
		}
		return inspect(cmd.Context(), cmd.OutOrStdout(), world, args)
	},
}

func inspect(ctx context.Context, w io.Writer, world *World, names []string) error {
	if len(names) == 0 {
		names = append(sortedKeys(world.Inventories), sortedKeys(world.Tanks)...)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTAINER\tSLOT\tCONTENT\tCAPACITY")
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case world.Inventories[name] != nil:
			writeSlots[resources.Item](tw, name, world.Inventories[name].Handler())
		case world.Tanks[name] != nil:
			writeSlots[resources.Fluid](tw, name, world.Tanks[name].Handler())
		default:
			return fmt.Errorf("%w: %q", errUnknownContainer, name)
		}
	}
	return tw.Flush()
}

func writeSlots[T any](w io.Writer, name string, handler transfer.Handler[T]) {
	index := 0
	for slot := range handler.Contents() {
		held := slot.Resource()
		content := "-"
		if slot.Amount(held) > 0 {
			content = fmt.Sprint(held)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\n", name, index, content, slot.Capacity(held))
		index++
	}
}
