package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/capigen/internal/config"
	"github.com/dohr-michael/capigen/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether the capigen API is running",
		Action: func(_ context.Context, cmd *cli.Command) error {
			status, hb, err := heartbeat.Check(config.HeartbeatPath(), 2*heartbeat.DefaultInterval)
			if err != nil {
				return fmt.Errorf("check heartbeat: %w", err)
			}

			w := out(cmd)
			switch status {
			case heartbeat.StatusAlive:
				fmt.Fprintf(w, "API: ALIVE (PID %d, %s, uptime %s)\n", hb.PID, hb.Addr, hb.Uptime)
				fmt.Fprintf(w, "Config: %s\n", hb.Config)
				if len(hb.Events) > 0 {
					fmt.Fprintf(w, "Events: %s\n", strings.Join(hb.Events, ", "))
				}
			case heartbeat.StatusStale:
				fmt.Fprintf(w, "API: STALE (PID %d, last heartbeat %s ago)\n",
					hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
			case heartbeat.StatusDead:
				fmt.Fprintln(w, "API: NOT RUNNING")
			}
			return nil
		},
	}
}
