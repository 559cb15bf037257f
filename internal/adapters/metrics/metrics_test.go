package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/adapters/metrics"
	controlCommands "github.com/andrescamacho/headquartz-go/internal/application/control/commands"
	controlQueries "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
	"github.com/andrescamacho/headquartz-go/test/helpers"
)

func TestSimulationMetricsCollector_RecordTick(t *testing.T) {
	// Arrange
	c := metrics.NewSimulationMetricsCollector()
	metrics.InitRegistry()
	require.NoError(t, c.Register())

	// Act
	c.RecordTick(2*time.Millisecond, 7, calendar.Boundaries{Week: true})
	c.RecordTick(time.Millisecond, 30, calendar.Boundaries{Week: true, Month: true})
	c.RecordDroppedTick()
	c.RecordSpeed(4, true)

	// Assert
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				key := f.GetName()
				for _, l := range m.GetLabel() {
					key += "/" + l.GetValue()
				}
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[f.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	assert.Equal(t, 2.0, values["headquartz_engine_ticks_total"])
	assert.Equal(t, 1.0, values["headquartz_engine_dropped_ticks_total"])
	assert.Equal(t, 2.0, values["headquartz_engine_period_boundaries_total/week"])
	assert.Equal(t, 1.0, values["headquartz_engine_period_boundaries_total/month"])
	assert.Equal(t, 30.0, values["headquartz_engine_day"])
	assert.Equal(t, 4.0, values["headquartz_engine_speed"])
	assert.Equal(t, 1.0, values["headquartz_engine_running"])
}

func TestSimulationMetricsCollector_RecordSpeedStopped(t *testing.T) {
	// Arrange
	c := metrics.NewSimulationMetricsCollector()
	metrics.InitRegistry()
	require.NoError(t, c.Register())
	c.RecordSpeed(2, true)

	// Act
	c.RecordSpeed(2, false)

	// Assert
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "headquartz_engine_running" {
			assert.Equal(t, 0.0, f.GetMetric()[0].GetGauge().GetValue())
			return
		}
	}
	t.Fatal("running gauge not gathered")
}

func TestSimulationMetricsCollector_ProcessorFailures(t *testing.T) {
	// Arrange
	c := metrics.NewSimulationMetricsCollector()
	metrics.InitRegistry()
	require.NoError(t, c.Register())

	// Act
	c.RecordProcessorPass("finance", calendar.PeriodDay, time.Millisecond, false)
	c.RecordProcessorPass("finance", calendar.PeriodMonth, time.Millisecond, true)
	c.RecordProcessorPass("finance", calendar.PeriodMonth, time.Millisecond, true)
	c.RecordDayPass(3 * time.Millisecond)

	// Assert
	count, err := testutil.GatherAndCount(metrics.GetRegistry(), "headquartz_engine_processor_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "only the month series has failures")
}

func TestRegister_NoRegistryIsNoOp(t *testing.T) {
	// Arrange
	metrics.Registry = nil
	c := metrics.NewCommandMetricsCollector()

	// Act
	err := c.Register()

	// Assert
	assert.NoError(t, err)
	assert.False(t, metrics.IsEnabled())
}

func TestPrometheusMiddleware_RecordsCommandOutcome(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	m := mediator.NewMediator()
	m.Use(metrics.PrometheusMiddleware(collector))
	require.NoError(t, mediator.RegisterHandler[*controlQueries.GetStatisticsQuery](m, failingHandler{}))

	// Act
	_, err := m.Send(context.Background(), &controlQueries.GetStatisticsQuery{})

	// Assert
	require.Error(t, err)
	count, err := testutil.GatherAndCount(metrics.GetRegistry(), "headquartz_mediator_commands_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	expected := `
# HELP headquartz_mediator_commands_total Requests handled by name, kind and outcome
# TYPE headquartz_mediator_commands_total counter
headquartz_mediator_commands_total{command="GetStatisticsQuery",kind="query",outcome="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.GetRegistry(), strings.NewReader(expected), "headquartz_mediator_commands_total"))
}

func TestPrometheusMiddleware_ClassifiesMissingSnapshot(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	collector := metrics.NewCommandMetricsCollector()
	require.NoError(t, collector.Register())

	m := mediator.NewMediator()
	m.Use(metrics.PrometheusMiddleware(collector))
	require.NoError(t, mediator.RegisterHandler[*controlCommands.LoadSnapshotCommand](m, mediator.HandlerFunc(
		func(context.Context, mediator.Request) (mediator.Response, error) {
			return nil, fmt.Errorf("load: %w", world.ErrSnapshotNotFound)
		})))

	// Act
	_, err := m.Send(context.Background(), &controlCommands.LoadSnapshotCommand{Slot: "nope"})

	// Assert
	require.ErrorIs(t, err, world.ErrSnapshotNotFound)
	expected := `
# HELP headquartz_mediator_commands_total Requests handled by name, kind and outcome
# TYPE headquartz_mediator_commands_total counter
headquartz_mediator_commands_total{command="LoadSnapshotCommand",kind="command",outcome="not_found"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(metrics.GetRegistry(), strings.NewReader(expected), "headquartz_mediator_commands_total"))
}

func TestRequestName(t *testing.T) {
	assert.Equal(t, "StepSimulationCommand", metrics.RequestName(&controlCommands.StepSimulationCommand{}))
	assert.Equal(t, "UnknownCommand", metrics.RequestName(nil))
}

type failingHandler struct{}

func (failingHandler) Handle(context.Context, mediator.Request) (mediator.Response, error) {
	return nil, errors.New("boom")
}

func TestCompanyMetricsCollector_Update(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	med := helpers.NewMockMediator()
	med.SetSendFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return &controlQueries.GetStatisticsResponse{Statistics: simulation.Statistics{
			World: world.Statistics{
				CashBalance:          decimal.NewFromInt(875_000),
				MonthlyRevenue:       decimal.NewFromInt(12_000),
				MonthlyExpenses:      decimal.NewFromInt(9_500),
				CompanyValue:         decimal.NewFromInt(1_200_000),
				Employees:            7,
				InventoryItems:       3,
				InventoryUnits:       420,
				ActiveSalesOrders:    2,
				ActiveWorkOrders:     1,
				CustomerSatisfaction: 75,
				MarketShare:          15,
			},
		}}, nil
	})
	c := metrics.NewCompanyMetricsCollector(med, time.Hour, nil)
	require.NoError(t, c.Register())

	// Act
	c.Update(context.Background())

	// Assert
	assert.Equal(t, []string{"*queries.GetStatisticsQuery"}, med.GetCallLog())
	values := gaugeValues(t)
	assert.Equal(t, 875000.0, values["headquartz_company_cash_balance"])
	assert.Equal(t, 7.0, values["headquartz_company_employees"])
	assert.Equal(t, 420.0, values["headquartz_company_inventory/units"])
	assert.Equal(t, 2.0, values["headquartz_company_active_orders/sales"])
	assert.Equal(t, 15.0, values["headquartz_company_indicator/market_share"])
}

func TestCompanyMetricsCollector_UpdateSurvivesErrors(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	med := helpers.NewMockMediator()
	c := metrics.NewCompanyMetricsCollector(med, time.Hour, nil)
	require.NoError(t, c.Register())

	// Act
	c.Update(context.Background())

	// Assert
	assert.Len(t, med.GetCallLog(), 1)
	assert.Equal(t, 0.0, gaugeValues(t)["headquartz_company_cash_balance"])
}

func TestCompanyMetricsCollector_StartStop(t *testing.T) {
	// Arrange
	med := helpers.NewMockMediator()
	c := metrics.NewCompanyMetricsCollector(med, time.Hour, nil)

	// Act
	c.Start(context.Background())
	require.Eventually(t, func() bool { return len(med.GetCallLog()) == 1 }, time.Second, 5*time.Millisecond)
	c.Stop()

	// Assert
	assert.Len(t, med.GetCallLog(), 1)
}

func TestEventMetricsCollector_CountsByKindAndSeverity(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	c := metrics.NewEventMetricsCollector()
	require.NoError(t, c.Register())
	bus := events.NewBus()
	c.Attach(bus)
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)

	// Act
	bus.Publish(events.New(events.KindEmployeeHired, "hired", day, 1))
	bus.Publish(events.New(events.KindEmployeeHired, "hired", day, 1))
	c.Detach()
	bus.Publish(events.New(events.KindEmployeeHired, "ignored", day, 1))

	// Assert
	assert.Equal(t, 0, bus.SubscriberCount())
	count, err := testutil.GatherAndCount(metrics.GetRegistry(), "headquartz_company_events_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	for key, v := range counterValues(t) {
		assert.Equal(t, 2.0, v, key)
	}
}

func gaugeValues(t *testing.T) map[string]float64 {
	t.Helper()
	return collect(t, true)
}

func counterValues(t *testing.T) map[string]float64 {
	t.Helper()
	return collect(t, false)
}

func collect(t *testing.T, gauges bool) map[string]float64 {
	families, err := metrics.GetRegistry().Gather()
	require.NoError(t, err)
	out := map[string]float64{}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			key := f.GetName()
			for _, l := range m.GetLabel() {
				key += "/" + l.GetValue()
			}
			if gauges && m.GetGauge() != nil {
				out[key] = m.GetGauge().GetValue()
			}
			if !gauges && m.GetCounter() != nil {
				out[key] = m.GetCounter().GetValue()
			}
		}
	}
	return out
}
