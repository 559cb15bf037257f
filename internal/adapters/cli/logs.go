package cli

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
)

// NewLogsCommand creates the logs command
func NewLogsCommand() *cobra.Command {
	var (
		component string
		level     string
		within    time.Duration
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show persisted daemon logs",
		Long: `Show engine, processor and daemon logs stored in the database.
The daemon must run with logging.persist enabled.

Examples:
  headquartz logs --component finance
  headquartz logs --level warning --within 1h`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]interface{}{
				"component": component,
				"level":     level,
				"limit":     limit,
			}
			if within > 0 {
				req["within"] = within.String()
			}

			var resp controlQuery.ListLogsResponse
			if err := execute(daemongrpc.CommandLogs, req, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Logs) == 0 {
				fmt.Fprintln(out, "No logs")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tLEVEL\tCOMPONENT\tMESSAGE")
			for _, entry := range resp.Logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s%s\n",
					entry.Timestamp.Local().Format("15:04:05"), entry.Level, entry.Component, entry.Message, formatLogMetadata(entry.Metadata))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&component, "component", "", "Filter by component (engine, tick, finance, ...)")
	cmd.Flags().StringVar(&level, "level", "", "Filter by level (debug, info, warning, error)")
	cmd.Flags().DurationVar(&within, "within", 0, "Only logs newer than this, e.g. 30m")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of lines")
	return cmd
}

func formatLogMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, metadata[k])
	}
	return " (" + strings.Join(parts, " ") + ")"
}
