package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	controlCmd "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
)

// NewControlCommand creates the control command with engine lifecycle subcommands
func NewControlCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "control",
		Short: "Start, stop, pace and step the simulation",
		Long: `Control the simulation engine running inside the daemon.

Speed is a multiplier between 0.1 and 16; out-of-range values are clamped.

Examples:
  headquartz control start
  headquartz control stop
  headquartz control speed 4
  headquartz control step --days 7
  headquartz control reset`,
	}

	cmd.AddCommand(newStateCommand("start", "Start the simulation clock", daemongrpc.CommandStart))
	cmd.AddCommand(newStateCommand("stop", "Stop the simulation clock", daemongrpc.CommandStop))
	cmd.AddCommand(newStateCommand("reset", "Stop and rewind the calendar to the epoch", daemongrpc.CommandReset))
	cmd.AddCommand(newSpeedCommand())
	cmd.AddCommand(newStepCommand())

	return cmd
}

func newStateCommand(use, short, command string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var state controlCmd.SimulationStateResponse
			if err := execute(command, nil, &state); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), &state)
			return nil
		},
	}
}

func newSpeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "speed <multiplier>",
		Short: "Set the speed multiplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			speed, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid speed %q: %w", args[0], err)
			}
			var state controlCmd.SimulationStateResponse
			if err := execute(daemongrpc.CommandSpeed, map[string]interface{}{"speed": speed}, &state); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), &state)
			return nil
		},
	}
}

func newStepCommand() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "step",
		Short: "Advance the simulation synchronously",
		Long: `Run one or more ticks immediately, whether or not the clock is running.

Example:
  headquartz control step --days 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var state controlCmd.SimulationStateResponse
			if err := execute(daemongrpc.CommandStep, map[string]interface{}{"days": days}, &state); err != nil {
				return err
			}
			printState(cmd.OutOrStdout(), &state)
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 1, "Number of days to simulate")
	return cmd
}

func printState(out io.Writer, state *controlCmd.SimulationStateResponse) {
	running := "stopped"
	if state.Running {
		running = "running"
	}
	fmt.Fprintf(out, "✓ Simulation %s\n", running)
	fmt.Fprintf(out, "  Day:    %d\n", state.Day)
	fmt.Fprintf(out, "  Phase:  %s\n", state.Phase)
	fmt.Fprintf(out, "  Speed:  %.1fx\n", state.Speed)
	fmt.Fprintf(out, "  Ticks:  %d\n", state.Ticks)
}
