package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	companyCmd "github.com/andrescamacho/headquartz-go/internal/application/company/commands"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
)

// NewHireCommand creates the hire command
func NewHireCommand() *cobra.Command {
	var (
		department   string
		salary       string
		performance  int
		satisfaction int
	)

	cmd := &cobra.Command{
		Use:   "hire <name>",
		Short: "Hire an employee",
		Long: `Hire an employee into a department.

Departments: PRODUCTION, SALES, FINANCE, HR, LOGISTICS, MANAGEMENT

Example:
  headquartz hire "Ada Park" --department PRODUCTION --salary 6500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := decimal.NewFromString(salary); err != nil {
				return fmt.Errorf("invalid salary %q: %w", salary, err)
			}

			var resp companyCmd.HireEmployeeResponse
			err := execute(daemongrpc.CommandHire, map[string]interface{}{
				"name":           args[0],
				"department":     strings.ToUpper(department),
				"monthly_salary": salary,
				"performance":    performance,
				"satisfaction":   satisfaction,
			}, &resp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Hired %s (%s), headcount %d\n", args[0], resp.EmployeeID, resp.Headcount)
			return nil
		},
	}

	cmd.Flags().StringVar(&department, "department", "", "Department (required)")
	cmd.Flags().StringVar(&salary, "salary", "", "Monthly salary (required)")
	cmd.Flags().IntVar(&performance, "performance", 75, "Performance rating 0-100")
	cmd.Flags().IntVar(&satisfaction, "satisfaction", 75, "Satisfaction 0-100")
	cmd.MarkFlagRequired("department")
	cmd.MarkFlagRequired("salary")
	return cmd
}

// NewTransactionCommand creates the transaction command
func NewTransactionCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "transaction <REVENUE|EXPENSE> <category> <amount>",
		Short: "Record a manual ledger transaction",
		Long: `Record a revenue or expense. Expenses larger than the cash balance are declined.

Example:
  headquartz transaction EXPENSE OPERATIONS 12000 --description "Trade fair"`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := decimal.NewFromString(args[2]); err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			var resp companyCmd.RecordTransactionResponse
			err := execute(daemongrpc.CommandTransaction, map[string]interface{}{
				"type":        strings.ToUpper(args[0]),
				"category":    strings.ToUpper(args[1]),
				"amount":      args[2],
				"description": description,
			}, &resp)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !resp.Approved {
				fmt.Fprintf(out, "✗ Declined: %s\n", resp.DeclineReason)
				return nil
			}
			fmt.Fprintf(out, "✓ Transaction %s recorded\n", resp.TransactionID)
			fmt.Fprintf(out, "  Balance: %s → %s\n", ledger.FormatMoney(resp.BalanceBefore), ledger.FormatMoney(resp.BalanceAfter))
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Free-text description")
	return cmd
}

// NewTriggerCommand creates the trigger command
func NewTriggerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger <event-kind>",
		Short: "Force a random business event",
		Long: `Apply one of the random business events immediately.

Kinds: MACHINE_BREAKDOWN, MAJOR_ORDER, SUPPLIER_DELAY, QUALITY_ISSUE, MARKET_OPPORTUNITY`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp companyCmd.TriggerRandomEventResponse
			if err := execute(daemongrpc.CommandTriggerEvent, map[string]interface{}{"kind": strings.ToUpper(args[0])}, &resp); err != nil {
				return err
			}
			if !resp.Applied {
				fmt.Fprintf(cmd.OutOrStdout(), "✗ %s is not a random event\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Triggered %s\n", strings.ToUpper(args[0]))
			return nil
		},
	}
}
