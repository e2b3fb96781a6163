package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
)

// NewValidateCommand returns the validate subcommand.
func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check a config file against the builder's input contract",
		ArgsUsage: "[file]",
		Action:    runValidate,
	}
}

func runValidate(_ context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		path = cmd.String("config")
	}
	cfg, err := loadConfigFile(path)
	if err != nil {
		return err
	}

	w := out(cmd)
	problems := config.Problems(cfg)
	if len(problems) == 0 {
		fmt.Fprintf(w, "%s is valid (%d events)\n", path, len(cfg.Events))
		return nil
	}
	for _, p := range problems {
		fmt.Fprintf(w, "  - %s\n", p)
	}
	return fmt.Errorf("%s: %w (%d problems)", path, config.ErrInvalid, len(problems))
}
