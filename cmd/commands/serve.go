package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/gateway"
	"github.com/dohr-michael/capigen/internal/heartbeat"
	"github.com/dohr-michael/capigen/internal/secrets"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the capigen HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
				Value: "127.0.0.1",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
				Value: 18420,
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Warn("config not found, using defaults", "path", configPath, "error", err)
		def := config.Default()
		cfg = &def
	}

	reloader := config.NewReloader(configPath, config.DotenvPath(), cfg)
	server := gateway.NewServer(reloader, newBuildStore(), secrets.KeyPath(), cmd.String("host"), cmd.Int("port"))

	ctx, stop := context.WithCancel(ctx)
	defer stop()

	hb := heartbeat.NewWriter(config.HeartbeatPath(), server.Addr(), configPath, func() []string {
		return reloader.Current().Events
	})
	reloader.OnReload(func(_, _ *config.Config) { hb.Beat() })
	hbDone := make(chan struct{})
	go func() {
		hb.Run(ctx)
		close(hbDone)
	}()
	defer func() {
		stop()
		<-hbDone
	}()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
