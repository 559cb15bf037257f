package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	companyCmd "github.com/andrescamacho/headquartz-go/internal/application/company/commands"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
)

// NewOrdersCommand creates the orders command group
func NewOrdersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "List, create and cancel sales orders",
	}
	cmd.AddCommand(newOrdersListCommand())
	cmd.AddCommand(newOrdersCreateCommand())
	cmd.AddCommand(newOrdersCancelCommand())
	return cmd
}

func newOrdersListCommand() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sales and work orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp controlQuery.ListOrdersResponse
			if err := execute(daemongrpc.CommandOrders, map[string]interface{}{"active_only": activeOnly}, &resp); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sales orders (%d)\n", len(resp.SalesOrders))
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCUSTOMER\tSTATUS\tUNITS\tTOTAL\tORDERED")
			for _, o := range resp.SalesOrders {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", o.ID, o.CustomerID, o.Status, o.Units, ledger.FormatMoney(o.Total), o.OrderedDay)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(out, "\nWork orders (%d)\n", len(resp.WorkOrders))
			w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPRODUCT\tQUANTITY\tSTATUS\tPROGRESS")
			for _, o := range resp.WorkOrders {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d%%\n", o.ID, o.ProductID, o.Quantity, o.Status, o.Progress)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Only show orders that are still in progress")
	return cmd
}

// parseOrderLine parses PRODUCT:QUANTITY:UNIT_PRICE
func parseOrderLine(raw string) (map[string]interface{}, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid line %q: expected PRODUCT:QUANTITY:UNIT_PRICE", raw)
	}
	qty, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity in line %q: %w", raw, err)
	}
	price, err := decimal.NewFromString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("invalid unit price in line %q: %w", raw, err)
	}
	return map[string]interface{}{
		"product_id": parts[0],
		"quantity":   qty,
		"unit_price": price.String(),
	}, nil
}

func newOrdersCreateCommand() *cobra.Command {
	var (
		customer string
		rawLines []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Place a sales order",
		Long: `Place a sales order for a customer. Repeat --line for multiple products.

Example:
  headquartz orders create --customer CUST-001 --line P-001:50:120 --line P-002:10:340`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines := make([]interface{}, 0, len(rawLines))
			for _, raw := range rawLines {
				line, err := parseOrderLine(raw)
				if err != nil {
					return err
				}
				lines = append(lines, line)
			}

			var resp companyCmd.OrderResponse
			err := execute(daemongrpc.CommandCreateSalesOrder, map[string]interface{}{
				"customer_id": customer,
				"lines":       lines,
			}, &resp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Order %s %s (%s)\n", resp.OrderID, resp.Status, ledger.FormatMoney(resp.Total))
			return nil
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "Customer ID (required)")
	cmd.Flags().StringArrayVar(&rawLines, "line", nil, "Order line as PRODUCT:QUANTITY:UNIT_PRICE (required, repeatable)")
	cmd.MarkFlagRequired("customer")
	cmd.MarkFlagRequired("line")
	return cmd
}

func newOrdersCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Cancel a pending or processing sales order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp companyCmd.OrderResponse
			if err := execute(daemongrpc.CommandCancelSalesOrder, map[string]interface{}{"order_id": args[0]}, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Order %s %s\n", resp.OrderID, resp.Status)
			return nil
		},
	}
}

// NewWorkCommand creates the work order command group
func NewWorkCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Create and cancel production work orders",
	}
	cmd.AddCommand(newWorkCreateCommand())
	cmd.AddCommand(newWorkCancelCommand())
	return cmd
}

func newWorkCreateCommand() *cobra.Command {
	var (
		product  string
		quantity int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a work order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp companyCmd.OrderResponse
			err := execute(daemongrpc.CommandCreateWorkOrder, map[string]interface{}{
				"product_id": product,
				"quantity":   quantity,
			}, &resp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Work order %s %s\n", resp.OrderID, resp.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&product, "product", "", "Product ID (required)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "Units to produce (required)")
	cmd.MarkFlagRequired("product")
	cmd.MarkFlagRequired("quantity")
	return cmd
}

func newWorkCancelCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <work-order-id>",
		Short: "Cancel a work order that has not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp companyCmd.OrderResponse
			if err := execute(daemongrpc.CommandCancelWorkOrder, map[string]interface{}{"work_order_id": args[0]}, &resp); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Work order %s %s\n", resp.OrderID, resp.Status)
			return nil
		},
	}
}
