package grpc_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	"github.com/andrescamacho/headquartz-go/internal/adapters/persistence"
	companyCommands "github.com/andrescamacho/headquartz-go/internal/application/company/commands"
	controlCommands "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	controlQueries "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/setup"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
	"github.com/andrescamacho/headquartz-go/test/helpers"
)

type daemonHarness struct {
	client *daemongrpc.DaemonClientGRPC
	server *daemongrpc.DaemonServer
	world  *world.World
}

func newDaemonHarness(t *testing.T) *daemonHarness {
	t.Helper()

	cfg := world.DefaultConfig()
	cfg.RandomEventProbability = 0
	cfg.BaseOrderProbability = 0
	w := world.New(cfg)
	require.NoError(t, w.SeedDefaults())

	manager := tick.NewManager(nil, nil)
	for _, p := range tick.DefaultProcessors(nil) {
		manager.Register(p)
	}
	engine := simulation.NewEngine(w, manager, shared.NewMockClock(time.Now()), nil, simulation.DefaultConfig())

	db := helpers.NewTestDB(t)
	catalog := persistence.NewGormSnapshotRepository(db, nil)
	journal := persistence.NewGormEventJournalRepository(db, nil)

	m := mediator.NewMediator()
	require.NoError(t, setup.NewHandlerRegistry(engine, manager, catalog, journal).RegisterAll(m))

	listener := bufconn.Listen(1 << 20)
	server := daemongrpc.NewDaemonServerWithListener(m, w.Events(), nil, listener)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = server.Start()
	}()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	client := daemongrpc.NewDaemonClientFromConn(conn)

	t.Cleanup(func() {
		client.Close()
		server.Shutdown()
		wg.Wait()
	})

	return &daemonHarness{client: client, server: server, world: w}
}

func TestDaemon_HealthListsCommands(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)

	// Act
	health, err := h.client.Health(context.Background())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Contains(t, health.Commands, daemongrpc.CommandStep)
	assert.Len(t, health.Commands, len(daemongrpc.CommandNames()))
}

func TestDaemon_StepAndStats(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)
	ctx := context.Background()

	// Act
	var state controlCommands.SimulationStateResponse
	err := h.client.Execute(ctx, daemongrpc.CommandStep, map[string]interface{}{"days": 4}, &state)
	require.NoError(t, err)

	var stats controlQueries.GetStatisticsResponse
	err = h.client.Execute(ctx, daemongrpc.CommandStats, nil, &stats)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, state.Day)
	assert.Equal(t, uint64(4), state.Ticks)
	assert.Equal(t, 4, stats.Statistics.World.Day)
	assert.True(t, stats.Statistics.World.CashBalance.IsPositive())
}

func TestDaemon_SpeedIsClamped(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)

	// Act
	var state controlCommands.SimulationStateResponse
	err := h.client.Execute(context.Background(), daemongrpc.CommandSpeed, map[string]interface{}{"speed": 99.0}, &state)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, simulation.MaxSpeed, state.Speed)
}

func TestDaemon_UnknownCommandIsInvalidArgument(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)

	// Act
	err := h.client.Execute(context.Background(), "warp", nil, nil)

	// Assert
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDaemon_LoadMissingSlotIsNotFound(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)

	// Act
	err := h.client.Execute(context.Background(), daemongrpc.CommandLoad, map[string]interface{}{"slot": "nope"}, nil)

	// Assert
	require.Error(t, err)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestDaemon_SaveStepLoad(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)
	ctx := context.Background()
	require.NoError(t, h.client.Execute(ctx, daemongrpc.CommandStep, map[string]interface{}{"days": 3}, nil))

	var saved controlCommands.SnapshotResponse
	require.NoError(t, h.client.Execute(ctx, daemongrpc.CommandSave, map[string]interface{}{"slot": "quicksave"}, &saved))
	require.NoError(t, h.client.Execute(ctx, daemongrpc.CommandStep, map[string]interface{}{"days": 5}, nil))

	// Act
	var loaded controlCommands.SnapshotResponse
	err := h.client.Execute(ctx, daemongrpc.CommandLoad, map[string]interface{}{"slot": "quicksave"}, &loaded)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, saved.Day)
	assert.Equal(t, 3, loaded.Day)

	var listed controlQueries.ListSnapshotsResponse
	require.NoError(t, h.client.Execute(ctx, daemongrpc.CommandSnapshots, nil, &listed))
	require.Len(t, listed.Snapshots, 1)
	assert.Equal(t, "quicksave", listed.Snapshots[0].Slot)
}

func TestDaemon_CreateSalesOrder(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)
	args := map[string]interface{}{
		"customer_id": "CUST-042",
		"lines": []interface{}{
			map[string]interface{}{"product_id": "P-001", "quantity": 5, "unit_price": "120"},
		},
	}

	// Act
	var order companyCommands.OrderResponse
	err := h.client.Execute(context.Background(), daemongrpc.CommandCreateSalesOrder, args, &order)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, "600", order.Total.String())
}

func TestDaemon_WatchEventsStreamsMatchingKinds(t *testing.T) {
	// Arrange
	h := newDaemonHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	subscribers := h.world.Events().SubscriberCount()

	received := make(chan events.Record, 4)
	done := make(chan error, 1)
	go func() {
		done <- h.client.WatchEvents(ctx, daemongrpc.WatchFilter{Kind: string(events.KindEmployeeHired)}, func(r events.Record) error {
			received <- r
			return nil
		})
	}()
	require.Eventually(t, func() bool {
		return h.world.Events().SubscriberCount() == subscribers+1
	}, 2*time.Second, 10*time.Millisecond)

	// Act
	require.NoError(t, h.client.Execute(ctx, daemongrpc.CommandCreateWorkOrder, map[string]interface{}{
		"product_id": "P-001",
		"quantity":   2,
	}, nil))
	require.NoError(t, h.client.Execute(ctx, daemongrpc.CommandHire, map[string]interface{}{
		"name":           "Ada Park",
		"department":     "PRODUCTION",
		"monthly_salary": "6500",
		"performance":    80,
		"satisfaction":   70,
	}, nil))

	// Assert
	select {
	case r := <-received:
		assert.Equal(t, string(events.KindEmployeeHired), r.Kind)
		assert.Contains(t, r.Message, "Ada Park")
	case <-time.After(2 * time.Second):
		t.Fatal("no event streamed")
	}
	cancel()
	assert.NoError(t, <-done)
}
