package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	controlCmd "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/infrastructure/config"
)

// resolveSlot returns the slot argument, falling back to the user's default slot
func resolveSlot(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		if !config.ValidSlot(args[0]) {
			return "", fmt.Errorf("invalid slot name %q: use lowercase letters, digits, '-' and '_'", args[0])
		}
		return args[0], nil
	}
	if handler, err := config.NewUserConfigHandler(); err == nil {
		if userCfg, err := handler.Load(); err == nil && userCfg.DefaultSlot != "" {
			return userCfg.DefaultSlot, nil
		}
	}
	return "", fmt.Errorf("no slot given and no default slot configured (use 'headquartz config set-slot')")
}

// NewSaveCommand creates the save command
func NewSaveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "save [slot]",
		Short: "Save the world into a snapshot slot",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := resolveSlot(args)
			if err != nil {
				return err
			}
			var resp controlCmd.SnapshotResponse
			if err := execute(daemongrpc.CommandSave, map[string]interface{}{"slot": slot}, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved day %d to slot %s\n", resp.Day, resp.Slot)
			return nil
		},
	}
}

// NewLoadCommand creates the load command
func NewLoadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "load [slot]",
		Short: "Replace the world with a saved snapshot",
		Long: `Load a snapshot slot. The engine is stopped first and stays stopped.

Example:
  headquartz load quicksave`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slot, err := resolveSlot(args)
			if err != nil {
				return err
			}
			var resp controlCmd.SnapshotResponse
			if err := execute(daemongrpc.CommandLoad, map[string]interface{}{"slot": slot}, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Loaded slot %s at day %d\n", resp.Slot, resp.Day)
			return nil
		},
	}
}

// NewSnapshotsCommand creates the snapshots command group
func NewSnapshotsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List and delete saved snapshots",
	}
	cmd.AddCommand(newSnapshotsListCommand())
	cmd.AddCommand(newSnapshotsDeleteCommand())
	return cmd
}

func newSnapshotsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp controlQuery.ListSnapshotsResponse
			if err := execute(daemongrpc.CommandSnapshots, nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Snapshots) == 0 {
				fmt.Fprintln(out, "No snapshots saved")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SLOT\tDAY\tCASH\tSAVED AT")
			for _, s := range resp.Snapshots {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", s.Slot, s.Day, ledger.FormatMoney(s.Balance), s.SavedAt.Local().Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newSnapshotsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <slot>",
		Short: "Delete a snapshot slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := execute(daemongrpc.CommandDeleteSnapshot, map[string]interface{}{"slot": args[0]}, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted slot %s\n", args[0])
			return nil
		},
	}
}
