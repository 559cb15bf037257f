package grpc

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	companyCmd "github.com/andrescamacho/headquartz-go/internal/application/company/commands"
	controlCmd "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
)

// Command names accepted by Execute
const (
	CommandStart            = "start"
	CommandStop             = "stop"
	CommandSpeed            = "speed"
	CommandReset            = "reset"
	CommandStep             = "step"
	CommandSave             = "save"
	CommandLoad             = "load"
	CommandDeleteSnapshot   = "delete_snapshot"
	CommandStats            = "stats"
	CommandEvents           = "events"
	CommandOrders           = "orders"
	CommandReport           = "report"
	CommandSnapshots        = "snapshots"
	CommandLogs             = "logs"
	CommandCreateSalesOrder = "create_sales_order"
	CommandCancelSalesOrder = "cancel_sales_order"
	CommandCreateWorkOrder  = "create_work_order"
	CommandCancelWorkOrder  = "cancel_work_order"
	CommandHire             = "hire"
	CommandTransaction      = "transaction"
	CommandTriggerEvent     = "trigger_event"
)

// CommandFactory builds a mediator request from decoded arguments
type CommandFactory func(args map[string]interface{}) (mediator.Request, error)

// commandFactories maps wire command names to request builders.
// Adding a command only requires a factory here and a handler in the registry.
var commandFactories = map[string]CommandFactory{
	CommandStart: func(map[string]interface{}) (mediator.Request, error) {
		return &controlCmd.StartSimulationCommand{}, nil
	},
	CommandStop: func(map[string]interface{}) (mediator.Request, error) {
		return &controlCmd.StopSimulationCommand{}, nil
	},
	CommandReset: func(map[string]interface{}) (mediator.Request, error) {
		return &controlCmd.ResetSimulationCommand{}, nil
	},
	CommandSpeed: func(args map[string]interface{}) (mediator.Request, error) {
		speed, ok := args["speed"].(float64)
		if !ok {
			return nil, fmt.Errorf("missing or invalid speed")
		}
		return &controlCmd.SetSpeedCommand{Speed: speed}, nil
	},
	CommandStep: func(args map[string]interface{}) (mediator.Request, error) {
		days, err := optionalInt(args, "days")
		if err != nil {
			return nil, err
		}
		return &controlCmd.StepSimulationCommand{Days: days}, nil
	},
	CommandSave: func(args map[string]interface{}) (mediator.Request, error) {
		slot, err := requiredString(args, "slot")
		if err != nil {
			return nil, err
		}
		return &controlCmd.SaveSnapshotCommand{Slot: slot}, nil
	},
	CommandLoad: func(args map[string]interface{}) (mediator.Request, error) {
		slot, err := requiredString(args, "slot")
		if err != nil {
			return nil, err
		}
		return &controlCmd.LoadSnapshotCommand{Slot: slot}, nil
	},
	CommandDeleteSnapshot: func(args map[string]interface{}) (mediator.Request, error) {
		slot, err := requiredString(args, "slot")
		if err != nil {
			return nil, err
		}
		return &controlCmd.DeleteSnapshotCommand{Slot: slot}, nil
	},
	CommandStats: func(map[string]interface{}) (mediator.Request, error) {
		return &controlQuery.GetStatisticsQuery{}, nil
	},
	CommandReport: func(map[string]interface{}) (mediator.Request, error) {
		return &controlQuery.GetPerformanceReportQuery{}, nil
	},
	CommandSnapshots: func(map[string]interface{}) (mediator.Request, error) {
		return &controlQuery.ListSnapshotsQuery{}, nil
	},
	CommandLogs: func(args map[string]interface{}) (mediator.Request, error) {
		limit, err := optionalInt(args, "limit")
		if err != nil {
			return nil, err
		}
		var within time.Duration
		if raw, ok := args["within"].(string); ok && raw != "" {
			if within, err = time.ParseDuration(raw); err != nil {
				return nil, fmt.Errorf("invalid within: %w", err)
			}
		}
		component, _ := args["component"].(string)
		level, _ := args["level"].(string)
		return &controlQuery.ListLogsQuery{Component: component, Level: level, Within: within, Limit: limit}, nil
	},
	CommandOrders: func(args map[string]interface{}) (mediator.Request, error) {
		active, _ := args["active_only"].(bool)
		return &controlQuery.ListOrdersQuery{ActiveOnly: active}, nil
	},
	CommandEvents: func(args map[string]interface{}) (mediator.Request, error) {
		sinceDay, err := optionalInt(args, "since_day")
		if err != nil {
			return nil, err
		}
		limit, err := optionalInt(args, "limit")
		if err != nil {
			return nil, err
		}
		kind, _ := args["kind"].(string)
		severity, _ := args["severity"].(string)
		fromJournal, _ := args["from_journal"].(bool)
		return &controlQuery.ListEventsQuery{
			Kind:        kind,
			Severity:    severity,
			SinceDay:    sinceDay,
			Limit:       limit,
			FromJournal: fromJournal,
		}, nil
	},
	CommandCreateSalesOrder: func(args map[string]interface{}) (mediator.Request, error) {
		customer, err := requiredString(args, "customer_id")
		if err != nil {
			return nil, err
		}
		linesRaw, ok := args["lines"].([]interface{})
		if !ok || len(linesRaw) == 0 {
			return nil, fmt.Errorf("missing or invalid lines")
		}
		lines := make([]companyCmd.OrderLineInput, 0, len(linesRaw))
		for i, raw := range linesRaw {
			line, ok := raw.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("invalid line at index %d", i)
			}
			product, err := requiredString(line, "product_id")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
			qty, err := optionalInt(line, "quantity")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
			price, err := requiredDecimal(line, "unit_price")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i, err)
			}
			lines = append(lines, companyCmd.OrderLineInput{ProductID: product, Quantity: qty, UnitPrice: price})
		}
		return &companyCmd.CreateSalesOrderCommand{CustomerID: customer, Lines: lines}, nil
	},
	CommandCancelSalesOrder: func(args map[string]interface{}) (mediator.Request, error) {
		id, err := requiredString(args, "order_id")
		if err != nil {
			return nil, err
		}
		return &companyCmd.CancelSalesOrderCommand{OrderID: id}, nil
	},
	CommandCreateWorkOrder: func(args map[string]interface{}) (mediator.Request, error) {
		product, err := requiredString(args, "product_id")
		if err != nil {
			return nil, err
		}
		qty, err := optionalInt(args, "quantity")
		if err != nil {
			return nil, err
		}
		return &companyCmd.CreateWorkOrderCommand{ProductID: product, Quantity: qty}, nil
	},
	CommandCancelWorkOrder: func(args map[string]interface{}) (mediator.Request, error) {
		id, err := requiredString(args, "work_order_id")
		if err != nil {
			return nil, err
		}
		return &companyCmd.CancelWorkOrderCommand{WorkOrderID: id}, nil
	},
	CommandHire: func(args map[string]interface{}) (mediator.Request, error) {
		name, err := requiredString(args, "name")
		if err != nil {
			return nil, err
		}
		dept, err := requiredString(args, "department")
		if err != nil {
			return nil, err
		}
		salary, err := requiredDecimal(args, "monthly_salary")
		if err != nil {
			return nil, err
		}
		performance, err := optionalInt(args, "performance")
		if err != nil {
			return nil, err
		}
		satisfaction, err := optionalInt(args, "satisfaction")
		if err != nil {
			return nil, err
		}
		return &companyCmd.HireEmployeeCommand{
			Name:          name,
			Department:    dept,
			MonthlySalary: salary,
			Performance:   performance,
			Satisfaction:  satisfaction,
		}, nil
	},
	CommandTransaction: func(args map[string]interface{}) (mediator.Request, error) {
		txType, err := requiredString(args, "type")
		if err != nil {
			return nil, err
		}
		category, err := requiredString(args, "category")
		if err != nil {
			return nil, err
		}
		amount, err := requiredDecimal(args, "amount")
		if err != nil {
			return nil, err
		}
		description, _ := args["description"].(string)
		return &companyCmd.RecordTransactionCommand{
			Type:        txType,
			Category:    category,
			Amount:      amount,
			Description: description,
		}, nil
	},
	CommandTriggerEvent: func(args map[string]interface{}) (mediator.Request, error) {
		kind, err := requiredString(args, "kind")
		if err != nil {
			return nil, err
		}
		return &companyCmd.TriggerRandomEventCommand{Kind: kind}, nil
	},
}

// CommandNames lists every command Execute accepts, sorted
func CommandNames() []string {
	names := make([]string, 0, len(commandFactories))
	for name := range commandFactories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildRequest turns a wire command into a mediator request
func BuildRequest(command string, args map[string]interface{}) (mediator.Request, error) {
	factory, ok := commandFactories[command]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", command)
	}
	if args == nil {
		args = map[string]interface{}{}
	}
	return factory(args)
}

func requiredString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing or invalid %s", key)
	}
	return v, nil
}

// optionalInt accepts JSON numbers; absent keys yield zero
func optionalInt(args map[string]interface{}, key string) (int, error) {
	raw, present := args[key]
	if !present || raw == nil {
		return 0, nil
	}
	f, ok := raw.(float64)
	if !ok || f != float64(int(f)) {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return int(f), nil
}

// requiredDecimal accepts a decimal string or a JSON number
func requiredDecimal(args map[string]interface{}, key string) (decimal.Decimal, error) {
	switch v := args[key].(type) {
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
		}
		return d, nil
	case float64:
		return decimal.RequireFromString(strconv.FormatFloat(v, 'f', -1, 64)), nil
	default:
		return decimal.Zero, fmt.Errorf("missing or invalid %s", key)
	}
}
