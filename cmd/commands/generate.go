package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/container"
)

// NewGenerateCommand returns the generate subcommand.
func NewGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Build the web and server GTM containers from the config",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory receiving web-gtm-container.json and server-gtm-container.json",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "stdout",
				Usage: "Print a single document (web or server) instead of writing files",
			},
			&cli.BoolFlag{
				Name:  "no-validate",
				Usage: "Skip config validation",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Keep the build in the build history",
			},
		},
		Action: runGenerate,
	}
}

func runGenerate(_ context.Context, cmd *cli.Command) error {
	w := out(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := buildResult(cfg, cmd.Bool("no-validate"))
	if err != nil {
		return err
	}

	if k := cmd.String("stdout"); k != "" {
		kind, err := container.ParseKind(k)
		if err != nil {
			return err
		}
		data, err := res.Document(kind).MarshalIndent()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}

	paths, err := writeDocuments(res, cmd.String("out"))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(w, "Wrote %s\n", p)
	}

	if cmd.Bool("record") {
		b, err := newBuildStore().Record(res, cfg, cmd.String("config"))
		if err != nil {
			return fmt.Errorf("record build: %w", err)
		}
		fmt.Fprintf(w, "Recorded build %s\n", b.ID)
	}

	fmt.Fprintln(w)
	return printMapping(w, res.Mapping)
}
