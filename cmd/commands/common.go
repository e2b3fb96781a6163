package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/builds"
	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/container"
	"github.com/dohr-michael/capigen/internal/secrets"
)

// out is where a command prints its results.
func out(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.Bool("debug") {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
	return ctx, nil
}

// loadConfig reads the --config file and decrypts its access token.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	return loadConfigFile(cmd.String("config"))
}

func loadConfigFile(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := secrets.ResolveConfig(cfg, secrets.KeyPath()); err != nil {
		return nil, err
	}
	slog.Debug("config loaded", "path", path, "events", len(cfg.Events))
	return cfg, nil
}

func newBuildStore() *builds.Store {
	return builds.NewStore(config.BuildsPath())
}

// buildResult assembles both documents, validating cfg first unless skip is set.
func buildResult(cfg *config.Config, skipValidation bool) (*container.Result, error) {
	if !skipValidation {
		if err := config.Validate(cfg); err != nil {
			return nil, err
		}
	}
	res := container.Build(cfg, container.Options{})
	if err := res.Resolve(); err != nil {
		return nil, err
	}
	return res, nil
}

// writeDocuments writes both documents of res into dir under their export names.
func writeDocuments(res *container.Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	var paths []string
	for _, k := range container.Kinds {
		data, err := res.Document(k).MarshalIndent()
		if err != nil {
			return nil, fmt.Errorf("encode %s document: %w", k, err)
		}
		path := filepath.Join(dir, k.FileName())
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func printMapping(w io.Writer, mapping []container.StandardEvent) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tSTANDARD NAME")
	for _, m := range mapping {
		fmt.Fprintf(tw, "%s\t%s\n", m.Event, m.StandardName)
	}
	return tw.Flush()
}
