package commands

import (
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
)

// NewRootCommand returns the top-level CLI command.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "capigen",
		Usage: "Generate Google Tag Manager containers for a Conversions API setup",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the integration config (JSONC or YAML)",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			NewInitCommand(),
			NewGenerateCommand(),
			NewBatchCommand(),
			NewValidateCommand(),
			NewConfigCommand(),
			NewEventsCommand(),
			NewSecretCommand(),
			NewBuildsCommand(),
			NewServeCommand(),
			NewStatusCommand(),
		},
	}
}
