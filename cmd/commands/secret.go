package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/secrets"
)

// NewSecretCommand returns the secret subcommand.
func NewSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Encrypt access tokens with the capigen age key",
		Commands: []*cli.Command{
			{
				Name:      "encrypt",
				Usage:     "Print an ENC[age:...] blob usable as accessToken (- reads stdin)",
				ArgsUsage: "<value|->",
				Action:    runSecretEncrypt,
			},
			{
				Name:      "set",
				Usage:     "Write KEY=VALUE into the capigen .env file",
				ArgsUsage: "<KEY> <value|->",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "encrypt",
						Usage: "Store the value as an ENC[age:...] blob",
					},
				},
				Action: runSecretSet,
			},
		},
	}
}

// secretValue reads the value argument; "-" means stdin.
func secretValue(cmd *cli.Command, arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	r := cmd.Root().Reader
	if r == nil {
		r = os.Stdin
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func runSecretEncrypt(_ context.Context, cmd *cli.Command) error {
	arg := cmd.Args().First()
	if arg == "" {
		return fmt.Errorf("usage: capigen secret encrypt <value|->")
	}
	value, err := secretValue(cmd, arg)
	if err != nil {
		return err
	}

	kr, err := secrets.OpenKeyring(secrets.KeyPath())
	if err != nil {
		return err
	}
	blob, err := kr.Seal(value)
	if err != nil {
		return err
	}
	fmt.Fprintln(out(cmd), blob)
	return nil
}

func runSecretSet(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: capigen secret set <KEY> <value|->")
	}
	key := cmd.Args().Get(0)
	value, err := secretValue(cmd, cmd.Args().Get(1))
	if err != nil {
		return err
	}

	if cmd.Bool("encrypt") {
		kr, err := secrets.OpenKeyring(secrets.KeyPath())
		if err != nil {
			return err
		}
		if value, err = kr.Seal(value); err != nil {
			return err
		}
	}

	path := config.DotenvPath()
	if err := secrets.SetEntry(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Set %s in %s\n", key, path)
	return nil
}
