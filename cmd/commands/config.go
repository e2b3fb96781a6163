package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/secrets"
)

// NewConfigCommand returns the config subcommand.
func NewConfigCommand() *cli.Command {
	formatFlag := &cli.StringFlag{
		Name:  "format",
		Usage: "Output format: json or yaml",
		Value: "json",
	}
	return &cli.Command{
		Name:  "config",
		Usage: "Preview, export and import the integration config",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Print the active config with the access token masked",
				Flags:  []cli.Flag{formatFlag},
				Action: runConfigShow,
			},
			{
				Name:      "export",
				Usage:     "Write the active config to a file",
				ArgsUsage: "[file]",
				Flags: []cli.Flag{
					formatFlag,
					&cli.BoolFlag{
						Name:  "encrypt",
						Usage: "Store the access token as an ENC[age:...] blob",
					},
				},
				Action: runConfigExport,
			},
			{
				Name:      "import",
				Usage:     "Validate a config file and make it the active config",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Import even when validation fails",
					},
				},
				Action: runConfigImport,
			},
		},
		DefaultCommand: "show",
	}
}

func parseFormat(s string) (config.Format, error) {
	switch strings.ToLower(s) {
	case "json", "jsonc":
		return config.FormatJSON, nil
	case "yaml", "yml":
		return config.FormatYAML, nil
	}
	return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
}

func runConfigShow(_ context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	masked := cfg.Masked()
	data, err := config.Marshal(&masked, format)
	if err != nil {
		return err
	}
	_, err = out(cmd).Write(data)
	return err
}

func runConfigExport(_ context.Context, cmd *cli.Command) error {
	format, err := parseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	path := cmd.Args().First()
	if path == "" {
		path = "capi-config." + string(format)
	} else if !cmd.IsSet("format") {
		format, _ = parseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
		if format == "" {
			format = config.FormatJSON
		}
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	exported := *cfg
	if cmd.Bool("encrypt") {
		kr, err := secrets.OpenKeyring(secrets.KeyPath())
		if err != nil {
			return err
		}
		if exported, err = secrets.SealConfig(exported, kr); err != nil {
			return err
		}
	}

	data, err := config.Marshal(&exported, format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out(cmd), "Exported config to %s\n", path)
	return nil
}

func runConfigImport(_ context.Context, cmd *cli.Command) error {
	src := cmd.Args().First()
	if src == "" {
		return fmt.Errorf("usage: capigen config import <file>")
	}

	cfg, err := config.Load(src)
	if err != nil {
		return err
	}

	// Validate the decrypted copy; the imported file keeps its encrypted token.
	check := *cfg
	if err := secrets.ResolveConfig(&check, secrets.KeyPath()); err != nil {
		return err
	}
	if err := config.Validate(&check); err != nil && !cmd.Bool("force") {
		return fmt.Errorf("%s: %w", src, err)
	}

	dst := cmd.String("config")
	if err := config.Save(dst, cfg); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Imported %s into %s\n", src, dst)
	return nil
}
