package world_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/ledger"
	"github.com/andrescamacho/headquartz-go/internal/domain/production"
	"github.com/andrescamacho/headquartz-go/internal/domain/sales"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// quietConfig disables the random order and event rolls so scenarios are exact
func quietConfig(opening int64) world.Config {
	cfg := world.DefaultConfig()
	cfg.OpeningBalance = decimal.NewFromInt(opening)
	cfg.RandomEventProbability = 0
	cfg.BaseOrderProbability = 0
	return cfg
}

// recorder collects every event published on a world's bus
type recorder struct {
	events []events.GameEvent
}

func record(w *world.World) *recorder {
	r := &recorder{}
	w.Events().Subscribe(func(e events.GameEvent) {
		r.events = append(r.events, e)
	})
	return r
}

func (r *recorder) ofKind(kind events.Kind) []events.GameEvent {
	var out []events.GameEvent
	for _, e := range r.events {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	return out
}

func advance(w *world.World, days int) {
	for i := 0; i < days; i++ {
		w.AdvanceGameTime()
	}
}

func expense(t *testing.T, w *world.World, amount int64) ledger.TransactionResult {
	t.Helper()
	tx, err := ledger.NewExpense(ledger.CategoryOperations, decimal.NewFromInt(amount), "test expense", w.Now())
	require.NoError(t, err)
	result, err := w.ProcessTransaction(tx)
	require.NoError(t, err)
	return result
}

func TestAdvanceGameTime_ThirtyDaysClosesFirstMonth(t *testing.T) {
	// Arrange
	w := world.New(world.DefaultConfig())
	require.NoError(t, w.SeedDefaults())

	// Act
	advance(w, 30)

	// Assert
	assert.Equal(t, 30, w.Calendar().Day())
	assert.Equal(t, 2, w.Calendar().Month())
	assert.Equal(t, 5, w.Calendar().Week())
	assert.True(t, w.Ledger().Monthly().Revenue.IsZero())
	assert.True(t, w.Ledger().Monthly().Expenses.IsZero())
	assert.True(t, w.LastClosedMonth().Expenses.IsPositive(), "payroll should be in the closed month")
}

func TestAdvanceGameTime_Day360RunsEveryPeriodPipeline(t *testing.T) {
	// Arrange
	w := world.New(world.DefaultConfig())
	require.NoError(t, w.SeedDefaults())
	advance(w, 359)
	rec := record(w)

	// Act
	crossed := w.AdvanceGameTime()

	// Assert
	assert.Equal(t, calendar.Boundaries{Week: true, Month: true, Quarter: true, Year: true}, crossed)
	assert.Equal(t, 2, w.Calendar().Year())
	assert.NotEmpty(t, rec.ofKind(events.KindPayrollProcessed), "month pipeline should run payroll")
	assert.Len(t, rec.ofKind(events.KindFinancialReport), 2, "month and year reports")
	assert.True(t, w.Ledger().Yearly().Expenses.IsZero())
	assert.True(t, w.Ledger().Quarterly().Expenses.IsZero())
	assert.True(t, w.LastClosedYear().Expenses.IsPositive())
	assert.True(t, w.LastClosedYear().Expenses.Equal(w.Ledger().Lifetime().Expenses))
}

func TestProcessTransaction_DeclinesExpenseAboveBalance(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000))
	rec := record(w)

	// Act
	result := expense(t, w, 5_000)

	// Assert
	assert.False(t, result.Approved)
	assert.True(t, w.CashBalance().Equal(decimal.NewFromInt(1_000)))
	assert.True(t, w.Ledger().Monthly().Expenses.IsZero())
	assert.Len(t, rec.ofKind(events.KindInsufficientFunds), 1)
}

func TestProcessTransaction_ApprovedExpenseUpdatesAccumulators(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000_000))

	// Act
	result := expense(t, w, 1_000_000)

	// Assert
	assert.True(t, result.Approved)
	assert.True(t, w.CashBalance().IsZero())
	assert.True(t, w.Ledger().Monthly().Expenses.Equal(decimal.NewFromInt(1_000_000)))
}

func TestProcessTransaction_CashAlerts(t *testing.T) {
	t.Run("caution threshold", func(t *testing.T) {
		w := world.New(quietConfig(300_000))
		rec := record(w)

		expense(t, w, 60_000)

		alerts := rec.ofKind(events.KindLowCashFlow)
		require.Len(t, alerts, 1)
		assert.Equal(t, events.SeverityMedium, alerts[0].Severity())
	})

	t.Run("critical wins when both are crossed", func(t *testing.T) {
		w := world.New(quietConfig(300_000))
		rec := record(w)

		expense(t, w, 250_000)

		alerts := rec.ofKind(events.KindLowCashFlow)
		require.Len(t, alerts, 1)
		assert.Equal(t, events.SeverityHigh, alerts[0].Severity())
	})

	t.Run("no repeat while already below", func(t *testing.T) {
		w := world.New(quietConfig(200_000))
		rec := record(w)

		expense(t, w, 10_000)
		expense(t, w, 10_000)

		assert.Empty(t, rec.ofKind(events.KindLowCashFlow))
	})
}

func TestCreateWorkOrder_WithoutMaterialsWaits(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000_000))
	rec := record(w)

	// Act
	wo, err := w.CreateWorkOrder("P-001", 10)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, production.StatusWaitingMaterials, wo.Status())
	assert.Len(t, rec.ofKind(events.KindMaterialShortage), 1)
}

func TestProduction_CompletesOnceAndCreditsOnce(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000_000))
	require.NoError(t, w.SeedInventory("P-001", 100, decimal.NewFromInt(40), 1.0))
	require.NoError(t, w.SeedRawMaterial(production.MaterialFrame, "Steel Frame", 1_000, decimal.NewFromInt(5)))
	require.NoError(t, w.SeedRawMaterial(production.MaterialCircuit, "Circuit Board", 1_000, decimal.NewFromInt(12)))
	rec := record(w)

	wo, err := w.CreateWorkOrder("P-001", 5)
	require.NoError(t, err)
	require.Equal(t, production.StatusScheduled, wo.Status())

	// Act
	advance(w, 20)

	// Assert
	assert.Equal(t, production.StatusCompleted, wo.Status())
	assert.Equal(t, 100, wo.Progress())
	assert.Equal(t, 105, w.Inventory().Quantity("P-001"))
	assert.Len(t, rec.ofKind(events.KindProductionStarted), 1)
	assert.Len(t, rec.ofKind(events.KindProductionCompleted), 1)

	frame, ok := w.Inventory().Material(production.MaterialFrame)
	require.True(t, ok)
	assert.Equal(t, 990, frame.Quantity())
}

func TestShipments_NeverPartial(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000_000))
	require.NoError(t, w.SeedInventory("P-001", 10, decimal.NewFromInt(40), 1.0))
	order, err := w.CreateSalesOrder("CUST-1", []sales.OrderLine{
		{ProductID: "P-001", Quantity: 50, UnitPrice: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)

	// Act
	advance(w, 5)

	// Assert
	assert.Equal(t, sales.StatusInProduction, order.Status())
	assert.Equal(t, 10, w.Inventory().Quantity("P-001"))
	assert.True(t, w.CashBalance().Equal(decimal.NewFromInt(1_000_000)))
	require.Len(t, w.WorkOrders(), 1)
	assert.Equal(t, 40, w.WorkOrders()[0].Quantity())
}

func TestShipments_ShipInFullThenDeliver(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000_000))
	require.NoError(t, w.SeedInventory("P-001", 100, decimal.NewFromInt(40), 1.0))
	order, err := w.CreateSalesOrder("CUST-1", []sales.OrderLine{
		{ProductID: "P-001", Quantity: 30, UnitPrice: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	rec := record(w)

	// Act / Assert
	advance(w, 1)
	assert.Equal(t, sales.StatusConfirmed, order.Status())

	advance(w, 1)
	assert.Equal(t, sales.StatusReadyToShip, order.Status())

	advance(w, 1)
	assert.Equal(t, sales.StatusShipped, order.Status())
	assert.Equal(t, 70, w.Inventory().Quantity("P-001"))
	assert.True(t, w.CashBalance().Equal(decimal.NewFromInt(1_003_000)))
	assert.True(t, w.Ledger().Monthly().Revenue.Equal(decimal.NewFromInt(3_000)))
	assert.Len(t, rec.ofKind(events.KindOrderShipped), 1)

	advance(w, 2)
	assert.Equal(t, sales.StatusDelivered, order.Status())
	assert.Len(t, rec.ofKind(events.KindOrderDelivered), 1)
}

func TestCancelSalesOrder_UnknownID(t *testing.T) {
	w := world.New(quietConfig(1_000))

	err := w.CancelSalesOrder([16]byte{1})

	var notFound *world.ErrOrderNotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestTriggerRandomEvent(t *testing.T) {
	t.Run("machine breakdown cuts efficiency", func(t *testing.T) {
		w := world.New(quietConfig(1_000_000))

		ok := w.TriggerRandomEvent(events.KindMachineBreakdown)

		assert.True(t, ok)
		assert.InDelta(t, 80.0, w.Metrics().ProductionEfficiency, 0.001)
	})

	t.Run("quality issue lowers quality", func(t *testing.T) {
		w := world.New(quietConfig(1_000_000))

		w.TriggerRandomEvent(events.KindQualityIssue)

		assert.InDelta(t, 90.0, w.Metrics().QualityScore, 0.001)
	})

	t.Run("market opportunity raises demand", func(t *testing.T) {
		w := world.New(quietConfig(1_000_000))
		before := w.Market().Demand()

		w.TriggerRandomEvent(events.KindMarketOpportunity)

		assert.Greater(t, w.Market().Demand(), before)
	})

	t.Run("major order creates a sales order", func(t *testing.T) {
		w := world.New(quietConfig(1_000_000))
		require.NoError(t, w.SeedDefaults())

		w.TriggerRandomEvent(events.KindMajorOrder)

		assert.Len(t, w.SalesOrders(), 1)
	})

	t.Run("non random kind is rejected", func(t *testing.T) {
		w := world.New(quietConfig(1_000_000))

		assert.False(t, w.TriggerRandomEvent(events.KindPayrollProcessed))
	})
}

func TestAdvanceGameTime_DeterministicForSeed(t *testing.T) {
	// Arrange
	cfg := world.DefaultConfig()
	cfg.Seed = 42
	a := world.New(cfg)
	b := world.New(cfg)
	require.NoError(t, a.SeedDefaults())
	require.NoError(t, b.SeedDefaults())

	// Act
	advance(a, 120)
	advance(b, 120)

	// Assert
	sa, sb := a.Statistics(), b.Statistics()
	assert.Equal(t, sa.CashBalance.String(), sb.CashBalance.String())
	assert.Equal(t, sa.InventoryUnits, sb.InventoryUnits)
	assert.Equal(t, sa.ActiveSalesOrders, sb.ActiveSalesOrders)
	assert.Equal(t, sa.CustomerSatisfaction, sb.CustomerSatisfaction)
	assert.Equal(t, sa.QualityScore, sb.QualityScore)
	assert.Equal(t, sa.DemandMultiplier, sb.DemandMultiplier)
}

func TestSnapshot_RoundTripThroughJSON(t *testing.T) {
	// Arrange
	w := world.New(world.DefaultConfig())
	require.NoError(t, w.SeedDefaults())
	advance(w, 45)
	want := w.Statistics()

	data, err := json.Marshal(w.Snapshot())
	require.NoError(t, err)

	var snap world.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))

	restored := world.New(world.DefaultConfig())

	// Act
	err = restored.Restore(&snap)

	// Assert
	require.NoError(t, err)
	got := restored.Statistics()
	assert.Equal(t, want.Day, got.Day)
	assert.Equal(t, want.Month, got.Month)
	assert.Equal(t, want.CashBalance.String(), got.CashBalance.String())
	assert.Equal(t, want.InventoryUnits, got.InventoryUnits)
	assert.Equal(t, want.ActiveSalesOrders, got.ActiveSalesOrders)
	assert.Equal(t, want.ActiveWorkOrders, got.ActiveWorkOrders)
	assert.Equal(t, want.Employees, got.Employees)
	assert.Equal(t, want.CustomerSatisfaction, got.CustomerSatisfaction)
	assert.Len(t, restored.RecentEvents(1000), len(w.RecentEvents(1000)))
	assert.Len(t, restored.SalesOrders(), len(w.SalesOrders()))
}

func TestRestore_InvalidSnapshotLeavesWorldUnchanged(t *testing.T) {
	// Arrange
	w := world.New(world.DefaultConfig())
	require.NoError(t, w.SeedDefaults())
	advance(w, 10)
	before := w.Statistics()

	snap := w.Snapshot()
	snap.Employees[0].Department = "ASTRONAUTS"
	snap.Calendar.Day = 99

	// Act
	err := w.Restore(snap)

	// Assert
	var invalid *world.ErrInvalidSnapshot
	require.ErrorAs(t, err, &invalid)
	after := w.Statistics()
	assert.Equal(t, before.Day, after.Day)
	assert.Equal(t, before.Employees, after.Employees)
	assert.Equal(t, before.CashBalance.String(), after.CashBalance.String())
}

func TestRestore_RejectsNilAndUnknownVersion(t *testing.T) {
	w := world.New(world.DefaultConfig())

	assert.Error(t, w.Restore(nil))
	assert.Error(t, w.Restore(&world.Snapshot{Version: 99}))
}

func TestRunwayWeeks(t *testing.T) {
	w := world.New(quietConfig(100_000))

	weeks, ok := w.RunwayWeeks(decimal.NewFromInt(10_000))
	assert.True(t, ok)
	assert.True(t, weeks.Equal(decimal.NewFromInt(10)))

	_, ok = w.RunwayWeeks(decimal.Zero)
	assert.False(t, ok)
}

func TestRestore_ReplacesClosedPeriodFigures(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(2_000_000))
	expense(t, w, 600_000)
	advance(w, 30)
	require.True(t, w.LastClosedMonth().Expenses.GreaterThanOrEqual(decimal.NewFromInt(600_000)))

	fresh := world.New(quietConfig(2_000_000)).Snapshot()

	// Act
	require.NoError(t, w.Restore(fresh))

	// Assert
	assert.True(t, w.LastClosedMonth().Expenses.IsZero())
	assert.True(t, w.LastClosedQuarter().Expenses.IsZero())
	assert.True(t, w.LastClosedYear().Expenses.IsZero())
	assert.Zero(t, w.LastWeekActivity().OrdersShipped)
	assert.True(t, w.LastMonthActivity().ShippedRevenue.IsZero())
}

func TestRestore_CarriesClosedPeriodFiguresAcrossJSON(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(2_000_000))
	require.NoError(t, w.SeedDefaults())
	_, err := w.CreateSalesOrder("CUST-9", []sales.OrderLine{
		{ProductID: "P-001", Quantity: 5, UnitPrice: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	expense(t, w, 600_000)
	advance(w, 33)

	data, err := json.Marshal(w.Snapshot())
	require.NoError(t, err)
	var snap world.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	restored := world.New(world.DefaultConfig())

	// Act
	err = restored.Restore(&snap)

	// Assert
	require.NoError(t, err)
	assert.True(t, w.LastClosedMonth().Expenses.Equal(restored.LastClosedMonth().Expenses))
	assert.True(t, w.LastClosedMonth().Revenue.Equal(restored.LastClosedMonth().Revenue))
	assert.Equal(t, w.LastWeekActivity().OrdersShipped, restored.LastWeekActivity().OrdersShipped)
	assert.Equal(t, w.LastMonthActivity().OrdersCreated, restored.LastMonthActivity().OrdersCreated)
	assert.Equal(t, 1, restored.LastMonthActivity().OrdersCreated)
	assert.True(t, w.LastMonthActivity().ShippedRevenue.Equal(restored.LastMonthActivity().ShippedRevenue))
}

func TestRestore_RejectsWorkOrderOutsideInvariants(t *testing.T) {
	w := world.New(world.DefaultConfig())
	require.NoError(t, w.SeedDefaults())
	_, err := w.CreateWorkOrder("P-002", 10)
	require.NoError(t, err)

	cases := map[string]func(s *world.WorkOrderState){
		"progress above 100": func(s *world.WorkOrderState) { s.Progress = 150 },
		"negative progress":  func(s *world.WorkOrderState) { s.Progress = -1 },
		"zero quantity":      func(s *world.WorkOrderState) { s.Quantity = 0 },
	}
	for name, corrupt := range cases {
		t.Run(name, func(t *testing.T) {
			snap := w.Snapshot()
			require.NotEmpty(t, snap.WorkOrders)
			corrupt(&snap.WorkOrders[len(snap.WorkOrders)-1])

			var invalid *world.ErrInvalidSnapshot
			assert.ErrorAs(t, w.Restore(snap), &invalid)
		})
	}
}

func TestBehindSchedule_FlagsOnlyStalledInProgressOrders(t *testing.T) {
	// Arrange
	w := world.New(quietConfig(1_000_000))
	advance(w, 10)
	started := w.Now().AddDate(0, 0, -10)
	recent := w.Now().AddDate(0, 0, -2)
	materials := map[string]int{"RM-001": 10, "RM-002": 5}
	stalled := world.WorkOrderState{
		ID: uuid.NewString(), ProductID: "P-001", Quantity: 5, Status: string(production.StatusInProgress),
		Progress: 10, RequiredMaterials: materials, CreatedAt: started, StartedAt: &started,
	}
	onPace := world.WorkOrderState{
		ID: uuid.NewString(), ProductID: "P-002", Quantity: 5, Status: string(production.StatusInProgress),
		Progress: 20, RequiredMaterials: materials, CreatedAt: recent, StartedAt: &recent,
	}
	scheduled := world.WorkOrderState{
		ID: uuid.NewString(), ProductID: "P-002", Quantity: 5, Status: string(production.StatusScheduled),
		RequiredMaterials: materials, CreatedAt: started,
	}
	snap := w.Snapshot()
	snap.WorkOrders = append(snap.WorkOrders, stalled, onPace, scheduled)
	require.NoError(t, w.Restore(snap))

	// Act
	late := w.BehindSchedule()

	// Assert
	require.Len(t, late, 1)
	assert.Equal(t, stalled.ID, late[0].ID().String())
}
