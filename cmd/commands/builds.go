package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/urfave/cli/v3"
)

// NewBuildsCommand returns the builds subcommand.
func NewBuildsCommand() *cli.Command {
	return &cli.Command{
		Name:  "builds",
		Usage: "Inspect recorded builds",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recorded builds, newest first",
				Action: runBuildsList,
			},
			{
				Name:      "show",
				Usage:     "Show a build and its event mapping",
				ArgsUsage: "<build_id>",
				Action:    runBuildsShow,
			},
			{
				Name:      "rm",
				Usage:     "Delete a build",
				ArgsUsage: "<build_id>",
				Action:    runBuildsRemove,
			},
		},
		DefaultCommand: "list",
	}
}

func runBuildsList(_ context.Context, cmd *cli.Command) error {
	list, err := newBuildStore().List()
	if err != nil {
		return fmt.Errorf("list builds: %w", err)
	}

	w := out(cmd)
	if len(list) == 0 {
		fmt.Fprintln(w, "No builds found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tPIXEL\tEVENTS\tWEB TAGS\tSOURCE")
	for _, b := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			b.ID,
			b.CreatedAt.Local().Format("2006-01-02 15:04"),
			b.Config.PixelID,
			len(b.Config.Events),
			b.Web.Tags,
			b.Source,
		)
	}
	return tw.Flush()
}

func runBuildsShow(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: capigen builds show <build_id>")
	}

	b, err := newBuildStore().Get(id)
	if err != nil {
		return err
	}

	w := out(cmd)
	fmt.Fprintf(w, "Build:   %s\n", b.ID)
	fmt.Fprintf(w, "Created: %s\n", b.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Source:  %s\n", b.Source)
	fmt.Fprintf(w, "Pixel:   %s (token %s)\n", b.Config.PixelID, b.Config.AccessToken)
	fmt.Fprintf(w, "Web:     %d tags, %d triggers, %d variables\n", b.Web.Tags, b.Web.Triggers, b.Web.Variables)
	fmt.Fprintf(w, "Server:  %d tags, %d triggers, %d variables, %d clients\n\n",
		b.Server.Tags, b.Server.Triggers, b.Server.Variables, b.Server.Clients)
	return printMapping(w, b.Mapping)
}

func runBuildsRemove(_ context.Context, cmd *cli.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("usage: capigen builds rm <build_id>")
	}
	if err := newBuildStore().Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Deleted build %s\n", id)
	return nil
}
