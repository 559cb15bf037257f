package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/headquartz-go/internal/infrastructure/config"
)

var (
	// Global flags
	socketPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "headquartz",
		Short: "Headquartz CLI - control the company simulation daemon",
		Long: `Headquartz CLI drives a running simulation daemon over its Unix socket
and can run headless simulations locally.

Examples:
  headquartz control start
  headquartz control speed 4
  headquartz control step --days 30
  headquartz stats
  headquartz orders create --customer CUST-001 --line P-001:50:120
  headquartz save quicksave
  headquartz events watch --severity HIGH
  headquartz simulate --days 360 --seed 7`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", getDefaultSocketPath(),
		"Path to daemon Unix socket")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose output")

	// Add command groups
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewHealthCommand())
	rootCmd.AddCommand(NewControlCommand())
	rootCmd.AddCommand(NewStatsCommand())
	rootCmd.AddCommand(NewReportCommand())
	rootCmd.AddCommand(NewSaveCommand())
	rootCmd.AddCommand(NewLoadCommand())
	rootCmd.AddCommand(NewSnapshotsCommand())
	rootCmd.AddCommand(NewOrdersCommand())
	rootCmd.AddCommand(NewWorkCommand())
	rootCmd.AddCommand(NewHireCommand())
	rootCmd.AddCommand(NewTransactionCommand())
	rootCmd.AddCommand(NewTriggerCommand())
	rootCmd.AddCommand(NewEventsCommand())
	rootCmd.AddCommand(NewLogsCommand())
	rootCmd.AddCommand(NewSimulateCommand())

	return rootCmd
}

// getDefaultSocketPath resolves the socket from HQ_SOCKET, then the user config, then the built-in default
func getDefaultSocketPath() string {
	if path := os.Getenv("HQ_SOCKET"); path != "" {
		return path
	}
	if handler, err := config.NewUserConfigHandler(); err == nil {
		if userCfg, err := handler.Load(); err == nil && userCfg.DefaultSocket != "" {
			return userCfg.DefaultSocket
		}
	}
	return "/tmp/headquartz-daemon.sock"
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
