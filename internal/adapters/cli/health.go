package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
)

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the daemon is up and the engine is healthy",
		Long: `Ping the daemon, then summarize the engine: running state, speed, phase
and the last tick failure if the engine stopped itself.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := NewDaemonClient(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(commandContext(cmd), timeout)
			defer cancel()

			health, err := client.Health(ctx)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "✓ Daemon is healthy")
			fmt.Fprintf(out, "  Status:   %s\n", health.Status)
			fmt.Fprintf(out, "  Uptime:   %s\n", (time.Duration(health.UptimeSeconds) * time.Second).String())
			if verbose {
				fmt.Fprintf(out, "  Commands: %s\n", strings.Join(health.Commands, ", "))
			}

			var stats controlQuery.GetStatisticsResponse
			if err := client.Execute(ctx, daemongrpc.CommandStats, nil, &stats); err != nil {
				fmt.Fprintf(out, "  Engine:   unavailable (%v)\n", err)
				return nil
			}
			printEngineHealth(out, stats)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "How long to wait for the daemon")
	return cmd
}

func printEngineHealth(out io.Writer, stats controlQuery.GetStatisticsResponse) {
	s := stats.Statistics
	state := "stopped"
	if s.Running {
		state = "running"
	}
	fmt.Fprintf(out, "  Engine:   %s at %.1fx, %s phase, day %d\n", state, s.Speed, s.Phase, s.World.Day)
	if s.LastError != "" {
		fmt.Fprintf(out, "  ✗ Last tick failed: %s\n", s.LastError)
	}
}
