package commands

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v3"
)

// NewBatchCommand returns the batch subcommand.
func NewBatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Generate containers for every config matching a glob (** supported)",
		ArgsUsage: "<glob>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output root; each config gets a sub-directory named after its file",
				Value:   "dist",
			},
			&cli.BoolFlag{
				Name:  "no-validate",
				Usage: "Skip config validation",
			},
			&cli.BoolFlag{
				Name:  "record",
				Usage: "Keep every build in the build history",
			},
		},
		Action: runBatch,
	}
}

func runBatch(_ context.Context, cmd *cli.Command) error {
	pattern := cmd.Args().First()
	if pattern == "" {
		return fmt.Errorf("usage: capigen batch <glob>")
	}

	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return fmt.Errorf("glob %q: %w", pattern, err)
	}
	if len(matches) == 0 {
		return fmt.Errorf("no config matches %q", pattern)
	}

	dirs, err := batchDirs(cmd.String("out"), matches)
	if err != nil {
		return err
	}

	w := out(cmd)
	failed := 0
	for i, path := range matches {
		dir := dirs[i]
		if err := batchOne(cmd, path, dir); err != nil {
			slog.Error("batch config failed", "path", path, "error", err)
			fmt.Fprintf(w, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(w, "ok   %s -> %s\n", path, dir)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d configs failed", failed, len(matches))
	}
	return nil
}

// batchDirs names one output directory per config by file stem. Two configs
// sharing a stem are rejected since the second would overwrite the first.
func batchDirs(root string, matches []string) ([]string, error) {
	dirs := make([]string, len(matches))
	owner := make(map[string]string, len(matches))
	for i, path := range matches {
		name := stem(path)
		if prev, ok := owner[name]; ok {
			return nil, fmt.Errorf("configs %s and %s both write to %s", prev, path, filepath.Join(root, name))
		}
		owner[name] = path
		dirs[i] = filepath.Join(root, name)
	}
	return dirs, nil
}

func batchOne(cmd *cli.Command, path, dir string) error {
	cfg, err := loadConfigFile(path)
	if err != nil {
		return err
	}
	res, err := buildResult(cfg, cmd.Bool("no-validate"))
	if err != nil {
		return err
	}
	if _, err := writeDocuments(res, dir); err != nil {
		return err
	}
	if cmd.Bool("record") {
		if _, err := newBuildStore().Record(res, cfg, path); err != nil {
			return fmt.Errorf("record build: %w", err)
		}
	}
	return nil
}

// stem is the file name without directory and extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
