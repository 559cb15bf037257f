package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
)

// NewStatsCommand creates the stats command
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show engine and company statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp controlQuery.GetStatisticsResponse
			if err := execute(daemongrpc.CommandStats, nil, &resp); err != nil {
				return err
			}
			printStatistics(cmd.OutOrStdout(), &resp.Statistics)
			return nil
		},
	}
}

func printStatistics(out io.Writer, s *simulation.Statistics) {
	w := s.World
	fmt.Fprintln(out, "Headquartz Statistics")
	fmt.Fprintln(out, "=====================")
	fmt.Fprintf(out, "  Date:          %s (day %d, week %d, month %d, Q%d, year %d)\n",
		w.Date.Format("2006-01-02"), w.Day, w.Week, w.Month, w.Quarter, w.Year)
	fmt.Fprintf(out, "  Engine:        running=%t speed=%.1fx phase=%s ticks=%d dropped=%d\n",
		s.Running, s.Speed, s.Phase, s.TicksProcessed, s.DroppedTicks)
	if s.LastError != "" {
		fmt.Fprintf(out, "  Last error:    %s\n", s.LastError)
	}

	fmt.Fprintln(out, "\nFinance:")
	fmt.Fprintf(out, "  Cash:          %s\n", ledger.FormatMoney(w.CashBalance))
	fmt.Fprintf(out, "  Revenue (MTD): %s\n", ledger.FormatMoney(w.MonthlyRevenue))
	fmt.Fprintf(out, "  Expenses(MTD): %s\n", ledger.FormatMoney(w.MonthlyExpenses))
	fmt.Fprintf(out, "  Company value: %s\n", ledger.FormatMoney(w.CompanyValue))

	fmt.Fprintln(out, "\nOperations:")
	fmt.Fprintf(out, "  Inventory:     %d items, %d units\n", w.InventoryItems, w.InventoryUnits)
	fmt.Fprintf(out, "  Sales orders:  %d active\n", w.ActiveSalesOrders)
	fmt.Fprintf(out, "  Work orders:   %d active\n", w.ActiveWorkOrders)
	fmt.Fprintf(out, "  Employees:     %d (satisfaction %.1f)\n", w.Employees, w.EmployeeSatisfaction)

	fmt.Fprintln(out, "\nIndicators:")
	fmt.Fprintf(out, "  Customer satisfaction: %d\n", w.CustomerSatisfaction)
	fmt.Fprintf(out, "  Market share:          %.1f%%\n", w.MarketShare)
	fmt.Fprintf(out, "  Production efficiency: %.1f%%\n", w.ProductionEfficiency)
	fmt.Fprintf(out, "  Quality score:         %.1f\n", w.QualityScore)
	fmt.Fprintf(out, "  Demand multiplier:     %.2f\n", w.DemandMultiplier)
}

// NewReportCommand creates the report command
func NewReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show processor performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp controlQuery.GetPerformanceReportResponse
			if err := execute(daemongrpc.CommandReport, nil, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := resp.Report
			fmt.Fprintf(out, "Day passes: %d (avg %s, last %s)\n\n", r.DayPasses, r.AverageDayPass, r.LastDayPass)

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROCESSOR\tINVOCATIONS\tFAILURES\tFAILURE RATE\tLAST ERROR")
			for _, p := range r.Processors {
				fmt.Fprintf(w, "%s\t%d\t%d\t%.2f%%\t%s\n", p.Name, p.Invocations, p.Failures, p.FailureRate*100, p.LastError)
			}
			return w.Flush()
		},
	}
}
