package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/adapters/cli"
	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	"github.com/andrescamacho/headquartz-go/internal/application/common"
	companyCmd "github.com/andrescamacho/headquartz-go/internal/application/company/commands"
	controlCmd "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	controlQuery "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

type call struct {
	command string
	args    map[string]interface{}
}

type fakeClient struct {
	responses map[string]interface{}
	errs      map[string]error
	records   []events.Record
	calls     []call
	filter    daemongrpc.WatchFilter
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]interface{}{}, errs: map[string]error{}}
}

func (f *fakeClient) Execute(ctx context.Context, command string, args map[string]interface{}, out interface{}) error {
	f.calls = append(f.calls, call{command: command, args: args})
	if err := f.errs[command]; err != nil {
		return err
	}
	resp, ok := f.responses[command]
	if !ok || out == nil {
		return nil
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeClient) Health(ctx context.Context) (*daemongrpc.HealthStatus, error) {
	return &daemongrpc.HealthStatus{Status: "ok", UptimeSeconds: 90, Commands: []string{"start", "stop"}}, nil
}

func (f *fakeClient) WatchEvents(ctx context.Context, filter daemongrpc.WatchFilter, fn func(events.Record) error) error {
	f.filter = filter
	for _, r := range f.records {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeClient) Close() error { return nil }

func run(t *testing.T, client *fakeClient, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HQ_SOCKET", "/tmp/headquartz-test.sock")
	restore := cli.SetClientFactory(func(string) (cli.DaemonClient, error) { return client, nil })
	t.Cleanup(restore)

	root := cli.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestHealthCommand(t *testing.T) {
	// Arrange
	client := newFakeClient()

	// Act
	out, err := run(t, client, "health")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is healthy")
	assert.Contains(t, out, "1m30s")
	assert.Contains(t, out, "Engine:   stopped")
}

func TestHealthCommandReportsEngineFailure(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandStats] = controlQuery.GetStatisticsResponse{Statistics: simulation.Statistics{
		Running:   false,
		Speed:     2,
		Phase:     simulation.PhaseReview,
		LastError: "tick panicked: boom",
	}}

	// Act
	out, err := run(t, client, "health")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "REVIEW phase")
	assert.Contains(t, out, "Last tick failed: tick panicked: boom")
}

func TestControlStepSendsDays(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandStep] = controlCmd.SimulationStateResponse{Day: 7, Phase: "PLANNING", Speed: 1, Ticks: 7}

	// Act
	out, err := run(t, client, "control", "step", "--days", "7")

	// Assert
	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	assert.Equal(t, daemongrpc.CommandStep, client.calls[0].command)
	assert.Equal(t, 7, client.calls[0].args["days"])
	assert.Contains(t, out, "Day:    7")
	assert.Contains(t, out, "PLANNING")
}

func TestControlSpeedRejectsNonNumber(t *testing.T) {
	// Arrange
	client := newFakeClient()

	// Act
	_, err := run(t, client, "control", "speed", "fast")

	// Assert
	require.Error(t, err)
	assert.Empty(t, client.calls)
}

func TestStatsFormatsMoney(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandStats] = controlQuery.GetStatisticsResponse{
		Statistics: simulation.Statistics{
			Phase: simulation.PhaseExecution,
			World: world.Statistics{
				Day:         15,
				CashBalance: decimal.NewFromInt(1234567),
			},
		},
	}

	// Act
	out, err := run(t, client, "stats")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "$1,234,567.00")
	assert.Contains(t, out, "EXECUTION")
}

func TestOrdersCreateParsesLines(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandCreateSalesOrder] = companyCmd.OrderResponse{OrderID: "so-1", Status: "PENDING", Total: decimal.NewFromInt(9400)}

	// Act
	out, err := run(t, client, "orders", "create", "--customer", "CUST-001", "--line", "P-001:50:120", "--line", "P-002:10:340")

	// Assert
	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	args := client.calls[0].args
	assert.Equal(t, "CUST-001", args["customer_id"])
	lines := args["lines"].([]interface{})
	require.Len(t, lines, 2)
	first := lines[0].(map[string]interface{})
	assert.Equal(t, "P-001", first["product_id"])
	assert.Equal(t, 50, first["quantity"])
	assert.Equal(t, "120", first["unit_price"])
	assert.Contains(t, out, "$9,400.00")
}

func TestOrdersCreateRejectsMalformedLine(t *testing.T) {
	// Arrange
	client := newFakeClient()

	// Act
	_, err := run(t, client, "orders", "create", "--customer", "CUST-001", "--line", "P-001:fifty:120")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid quantity")
	assert.Empty(t, client.calls)
}

func TestTransactionShowsDecline(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandTransaction] = companyCmd.RecordTransactionResponse{Approved: false, DeclineReason: "insufficient funds"}

	// Act
	out, err := run(t, client, "transaction", "expense", "operations", "5000000")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "EXPENSE", client.calls[0].args["type"])
	assert.Equal(t, "OPERATIONS", client.calls[0].args["category"])
	assert.Contains(t, out, "Declined: insufficient funds")
}

func TestSaveUsesSlotArgument(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandSave] = controlCmd.SnapshotResponse{Slot: "quicksave", Day: 12}

	// Act
	out, err := run(t, client, "save", "quicksave")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "quicksave", client.calls[0].args["slot"])
	assert.Contains(t, out, "Saved day 12 to slot quicksave")
}

func TestDaemonErrorIsReturned(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.errs[daemongrpc.CommandLoad] = fmt.Errorf("snapshot not found")

	// Act
	_, err := run(t, client, "load", "missing")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot not found")
}

func TestEventsWatchPrintsRecords(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.records = []events.Record{
		{Kind: string(events.KindMachineBreakdown), Severity: string(events.SeverityHigh), Message: "Line 2 is down", Day: 40},
	}

	// Act
	out, err := run(t, client, "events", "watch", "--severity", "high")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "HIGH", client.filter.Severity)
	assert.Contains(t, out, "Line 2 is down")
	assert.Contains(t, out, "day 40")
}

func TestSimulateRunsLocally(t *testing.T) {
	// Arrange
	client := newFakeClient()

	// Act
	out, err := run(t, client, "simulate", "--days", "35", "--seed", "3", "--event-chance", "0")

	// Assert
	require.NoError(t, err)
	assert.Empty(t, client.calls)
	assert.Contains(t, out, "day 35")
}

func TestLogsCommandPassesFilters(t *testing.T) {
	// Arrange
	client := newFakeClient()
	client.responses[daemongrpc.CommandLogs] = controlQuery.ListLogsResponse{Logs: []common.LogEntry{
		{Component: "finance", Level: "WARNING", Message: "Runway below two weeks", Metadata: map[string]interface{}{"weeks": 1.5}},
	}}

	// Act
	out, err := run(t, client, "logs", "--component", "finance", "--within", "1h")

	// Assert
	require.NoError(t, err)
	require.Len(t, client.calls, 1)
	assert.Equal(t, "finance", client.calls[0].args["component"])
	assert.Equal(t, "1h0m0s", client.calls[0].args["within"])
	assert.Contains(t, out, "Runway below two weeks (weeks=1.5)")
}
