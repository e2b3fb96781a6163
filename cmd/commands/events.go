package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/container"
)

// NewEventsCommand returns the events subcommand.
func NewEventsCommand() *cli.Command {
	return &cli.Command{
		Name:   "events",
		Usage:  "List the event names translated to Meta standard events",
		Action: runEvents,
	}
}

func runEvents(_ context.Context, cmd *cli.Command) error {
	tw := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tSTANDARD NAME\tSERVER LOOKUP")
	for i, e := range container.StandardEvents {
		lookup := "no"
		if i < container.EventNameLookupSize {
			lookup = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Event, e.StandardName, lookup)
	}
	fmt.Fprintln(tw, "(other)\tunchanged\tunchanged")
	return tw.Flush()
}
