package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/headquartz-go/internal/infrastructure/config"
)

// NewConfigCommand creates the config command group for CLI user preferences
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI preferences",
		Long: `Manage preferences stored in the user config file.

Examples:
  headquartz config show
  headquartz config set-socket /var/run/headquartz.sock
  headquartz config set-slot quicksave`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetSocketCommand())
	cmd.AddCommand(newConfigSetSlotCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create config handler: %w", err)
			}
			userCfg, err := handler.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file:    %s\n", handler.GetConfigPath())
			fmt.Fprintf(out, "Default socket: %s\n", orNotSet(userCfg.DefaultSocket))
			fmt.Fprintf(out, "Default slot:   %s\n", orNotSet(userCfg.DefaultSlot))
			fmt.Fprintf(out, "Active socket:  %s\n", socketPath)
			return nil
		},
	}
}

func newConfigSetSocketCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-socket <path>",
		Short: "Set the default daemon socket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create config handler: %w", err)
			}
			if err := handler.SetDefaultSocket(args[0]); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default socket set to %s\n", args[0])
			return nil
		},
	}
}

func newConfigSetSlotCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-slot <slot>",
		Short: "Set the default snapshot slot for save and load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, err := config.NewUserConfigHandler()
			if err != nil {
				return fmt.Errorf("failed to create config handler: %w", err)
			}
			if err := handler.SetDefaultSlot(args[0]); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Default slot set to %s\n", args[0])
			return nil
		},
	}
}

func orNotSet(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
