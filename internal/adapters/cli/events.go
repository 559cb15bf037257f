package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// NewEventsCommand creates the events command group
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the business event feed",
	}
	cmd.AddCommand(newEventsListCommand())
	cmd.AddCommand(newEventsWatchCommand())
	return cmd
}

func newEventsListCommand() *cobra.Command {
	var (
		kind        string
		severity    string
		sinceDay    int
		limit       int
		fromJournal bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent events",
		Long: `List events from the in-memory history, or from the durable journal with --journal.

Examples:
  headquartz events list --severity HIGH
  headquartz events list --kind ORDER_SHIPPED --since 30 --limit 20
  headquartz events list --journal`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp controlQuery.ListEventsResponse
			err := execute(daemongrpc.CommandEvents, map[string]interface{}{
				"kind":         strings.ToUpper(kind),
				"severity":     strings.ToUpper(severity),
				"since_day":    sinceDay,
				"limit":        limit,
				"from_journal": fromJournal,
			}, &resp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(resp.Events) == 0 {
				fmt.Fprintln(out, "No events")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DAY\tSEVERITY\tKIND\tMESSAGE")
			for _, e := range resp.Events {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Day, e.Severity, e.Kind, e.Message)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Filter by event kind")
	cmd.Flags().StringVar(&severity, "severity", "", "Filter by severity (INFO, MEDIUM, HIGH)")
	cmd.Flags().IntVar(&sinceDay, "since", 0, "Only events on or after this day")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events (0 = all)")
	cmd.Flags().BoolVar(&fromJournal, "journal", false, "Read from the durable event journal")
	return cmd
}

func newEventsWatchCommand() *cobra.Command {
	var (
		kind     string
		severity string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream events as they happen (Ctrl+C to stop)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := NewDaemonClient(socketPath)
			if err != nil {
				return fmt.Errorf("failed to connect to daemon: %w", err)
			}
			defer client.Close()

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			filter := daemongrpc.WatchFilter{Kind: strings.ToUpper(kind), Severity: strings.ToUpper(severity)}
			return client.WatchEvents(ctx, filter, func(r events.Record) error {
				printRecord(out, r)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only stream this event kind")
	cmd.Flags().StringVar(&severity, "severity", "", "Only stream this severity")
	return cmd
}

func printRecord(out io.Writer, r events.Record) {
	marker := "·"
	switch events.Severity(r.Severity) {
	case events.SeverityHigh:
		marker = "!"
	case events.SeverityMedium:
		marker = "~"
	}
	fmt.Fprintf(out, "%s day %-4d %-20s %s\n", marker, r.Day, r.Kind, r.Message)
}

// commandContext returns cmd's context, or Background when run outside Execute
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
