package simulation_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

var start = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

func quietWorld() *world.World {
	cfg := world.DefaultConfig()
	cfg.RandomEventProbability = 0
	cfg.BaseOrderProbability = 0
	return world.New(cfg)
}

func newEngine(t *testing.T, dispatcher simulation.Dispatcher) (*simulation.Engine, *shared.MockClock, *world.World) {
	t.Helper()
	clock := shared.NewMockClock(start)
	w := quietWorld()
	e := simulation.NewEngine(w, dispatcher, clock, nil, simulation.Config{
		BaseInterval: time.Second,
		MinInterval:  10 * time.Millisecond,
		InitialSpeed: 1,
	})
	return e, clock, w
}

type recordingDispatcher struct {
	trace *[]string
}

func (d recordingDispatcher) Dispatch(period calendar.Period, w *world.World) {
	*d.trace = append(*d.trace, "dispatch:"+string(period))
}

type panickingDispatcher struct{}

func (panickingDispatcher) Dispatch(period calendar.Period, w *world.World) {
	panic("processor exploded")
}

type followerReplicator struct {
	applied int
	after   int
}

func (r *followerReplicator) IsAuthoritative() bool             { return false }
func (r *followerReplicator) ApplyPending(w *world.World) error { r.applied++; return nil }
func (r *followerReplicator) AfterTick(w *world.World)          { r.after++ }

func TestEngine_StartIsIdempotent(t *testing.T) {
	// Arrange
	e, clock, _ := newEngine(t, nil)

	// Act
	e.Start()
	e.Start()

	// Assert
	assert.True(t, e.IsRunning())
	assert.Equal(t, 1, clock.PendingTimers())
}

func TestEngine_TicksOncePerInterval(t *testing.T) {
	// Arrange
	e, clock, w := newEngine(t, nil)
	e.Start()

	// Act
	clock.Advance(3 * time.Second)

	// Assert
	assert.Equal(t, uint64(3), e.TicksProcessed())
	assert.Equal(t, 3, w.Calendar().Day())
	assert.Equal(t, 3, e.Statistics().World.Day)
	assert.Equal(t, start.Add(3*time.Second), e.LastTickTime())
}

func TestEngine_StopIsIdempotentAndDisarms(t *testing.T) {
	// Arrange
	e, clock, _ := newEngine(t, nil)
	e.Start()
	clock.Advance(time.Second)

	// Act
	e.Stop()
	e.Stop()
	clock.Advance(5 * time.Second)

	// Assert
	assert.False(t, e.IsRunning())
	assert.Equal(t, uint64(1), e.TicksProcessed())
	assert.Equal(t, 0, clock.PendingTimers())
}

func TestEngine_StopFromInsideTick(t *testing.T) {
	// Arrange
	e, clock, _ := newEngine(t, nil)
	e.Signals().Ticked.Subscribe(func(simulation.TickInfo) {
		e.Stop()
	})
	e.Start()

	// Act
	clock.Advance(5 * time.Second)

	// Assert
	assert.False(t, e.IsRunning())
	assert.Equal(t, uint64(1), e.TicksProcessed())
	assert.Equal(t, 0, clock.PendingTimers())
}

func TestEngine_SetSpeedClamps(t *testing.T) {
	tests := []struct {
		name     string
		speed    float64
		expected float64
	}{
		{"below minimum", 0, simulation.MinSpeed},
		{"negative", -3, simulation.MinSpeed},
		{"above maximum", 100, simulation.MaxSpeed},
		{"in range", 2.5, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newEngine(t, nil)

			got := e.SetSpeed(tt.speed)

			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected, e.CurrentSpeed())
		})
	}
}

func TestEngine_IntervalFloor(t *testing.T) {
	clock := shared.NewMockClock(start)
	e := simulation.NewEngine(quietWorld(), nil, clock, nil, simulation.Config{
		BaseInterval: 100 * time.Millisecond,
		MinInterval:  10 * time.Millisecond,
		InitialSpeed: 1,
	})

	e.SetSpeed(16)

	assert.Equal(t, 10*time.Millisecond, e.Interval())
}

func TestEngine_SpeedAppliesAtNextArming(t *testing.T) {
	// Arrange
	e, clock, _ := newEngine(t, nil)
	e.Start()

	// Act
	e.SetSpeed(2)
	clock.Advance(time.Second)
	ticksAfterFirst := e.TicksProcessed()
	clock.Advance(time.Second)

	// Assert
	assert.Equal(t, uint64(1), ticksAfterFirst, "timer armed at 1x still fires after a full second")
	assert.Equal(t, uint64(3), e.TicksProcessed())
}

func TestEngine_PanicStopsEngineAndRecordsError(t *testing.T) {
	// Arrange
	e, clock, _ := newEngine(t, panickingDispatcher{})
	e.Start()

	// Act
	clock.Advance(3 * time.Second)

	// Assert
	assert.False(t, e.IsRunning())
	assert.Equal(t, uint64(0), e.TicksProcessed())
	assert.Equal(t, 0, clock.PendingTimers())

	var panicErr *simulation.TickPanicError
	require.True(t, errors.As(e.LastError(), &panicErr))
	assert.Equal(t, "processor exploded", panicErr.Value)
	assert.Contains(t, e.Statistics().LastError, "processor exploded")
}

func TestEngine_RestartClearsLastError(t *testing.T) {
	e, clock, _ := newEngine(t, panickingDispatcher{})
	e.Start()
	clock.Advance(time.Second)
	require.Error(t, e.LastError())

	e.Start()

	assert.NoError(t, e.LastError())
	assert.True(t, e.IsRunning())
}

func TestEngine_FiringDuringTickIsDropped(t *testing.T) {
	// Arrange
	e, clock, _ := newEngine(t, nil)
	e.Start()

	// Act: the timer fires while Exec holds the tick lock
	err := e.Exec(func(w *world.World) error {
		clock.Advance(time.Second)
		return nil
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint64(0), e.TicksProcessed())
	assert.Equal(t, uint64(1), e.DroppedTicks())
	assert.Equal(t, uint64(1), e.Statistics().DroppedTicks)
	assert.True(t, e.IsRunning())
	assert.Equal(t, 1, clock.PendingTimers(), "dropped firing re-arms")
}

func TestEngine_StepRunsOneTickWhileStopped(t *testing.T) {
	e, _, w := newEngine(t, nil)

	require.NoError(t, e.Step())
	require.NoError(t, e.Step())

	assert.False(t, e.IsRunning())
	assert.Equal(t, uint64(2), e.TicksProcessed())
	assert.Equal(t, 2, w.Calendar().Day())
}

func TestEngine_PhaseFollowsDayOfMonth(t *testing.T) {
	// Arrange
	e, _, _ := newEngine(t, nil)
	var changes []simulation.PhaseChange
	e.Signals().PhaseChanged.Subscribe(func(c simulation.PhaseChange) {
		changes = append(changes, c)
	})

	// Act
	for i := 0; i < 31; i++ {
		require.NoError(t, e.Step())
	}

	// Assert
	assert.Equal(t, simulation.PhasePlanning, e.CurrentPhase())
	assert.Equal(t, []simulation.PhaseChange{
		{From: simulation.PhasePlanning, To: simulation.PhaseExecution, Day: 11},
		{From: simulation.PhaseExecution, To: simulation.PhaseReview, Day: 26},
		{From: simulation.PhaseReview, To: simulation.PhasePlanning, Day: 31},
	}, changes)
}

func TestEngine_SignalOrderOnYearEnd(t *testing.T) {
	// Arrange
	var trace []string
	e, _, _ := newEngine(t, recordingDispatcher{trace: &trace})
	for i := 0; i < 359; i++ {
		require.NoError(t, e.Step())
	}
	trace = nil

	for _, p := range []calendar.Period{calendar.PeriodDay, calendar.PeriodWeek, calendar.PeriodMonth, calendar.PeriodQuarter, calendar.PeriodYear} {
		p := p
		e.Signals().Period(p).Subscribe(func(simulation.TickInfo) {
			trace = append(trace, "signal:"+string(p))
		})
	}
	e.Signals().Ticked.Subscribe(func(simulation.TickInfo) {
		trace = append(trace, "ticked")
	})

	// Act
	require.NoError(t, e.Step())

	// Assert
	assert.Equal(t, []string{
		"dispatch:day", "signal:day",
		"dispatch:week", "signal:week",
		"dispatch:month", "signal:month",
		"dispatch:quarter", "signal:quarter",
		"dispatch:year", "signal:year",
		"ticked",
	}, trace)
}

func TestEngine_ResetRewindsCalendarOnly(t *testing.T) {
	// Arrange
	e, _, w := newEngine(t, nil)
	require.NoError(t, w.SeedInventory("P-001", 80, decimal.NewFromInt(40), 1.0))
	for i := 0; i < 5; i++ {
		require.NoError(t, e.Step())
	}
	cash := w.CashBalance()
	e.Start()

	// Act
	e.Reset()

	// Assert
	assert.False(t, e.IsRunning())
	assert.Equal(t, 0, w.Calendar().Day())
	assert.Equal(t, calendar.Epoch, w.Calendar().Date())
	assert.Equal(t, uint64(0), e.TicksProcessed())
	assert.True(t, cash.Equal(w.CashBalance()))
	assert.Equal(t, 80, w.Inventory().Quantity("P-001"))
	assert.Equal(t, 0, e.Statistics().World.Day)
}

func TestEngine_FollowerAdvancesCalendarOnly(t *testing.T) {
	// Arrange
	e, _, w := newEngine(t, nil)
	require.NoError(t, w.SeedRawMaterial("RM-001", "Steel Frame", 100, decimal.NewFromInt(5)))
	require.NoError(t, w.SeedRawMaterial("RM-002", "Circuit Board", 100, decimal.NewFromInt(12)))
	wo, err := w.CreateWorkOrder("P-001", 5)
	require.NoError(t, err)
	replicator := &followerReplicator{}
	e.SetReplicator(replicator)

	// Act
	require.NoError(t, e.Step())

	// Assert
	assert.Equal(t, 1, w.Calendar().Day())
	assert.Equal(t, 1, replicator.applied)
	assert.Equal(t, 0, replicator.after)
	assert.Equal(t, 0, wo.Progress())
	assert.Equal(t, "SCHEDULED", string(wo.Status()))
}

func TestPhaseForDay(t *testing.T) {
	tests := []struct {
		day      int
		expected simulation.Phase
	}{
		{1, simulation.PhasePlanning},
		{10, simulation.PhasePlanning},
		{11, simulation.PhaseExecution},
		{25, simulation.PhaseExecution},
		{26, simulation.PhaseReview},
		{30, simulation.PhaseReview},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, simulation.PhaseForDay(tt.day), "day %d", tt.day)
	}
}

func TestEngine_StopBeforeTickLockSuppressesFiring(t *testing.T) {
	// Arrange
	e, clock, w := newEngine(t, nil)
	stopped := false
	simulation.SetBeforeTickLockHook(e, func() {
		if !stopped {
			stopped = true
			e.Stop()
		}
	})
	e.Start()

	// Act
	clock.Advance(time.Second)

	// Assert
	assert.True(t, stopped)
	assert.False(t, e.IsRunning())
	assert.Equal(t, uint64(0), e.TicksProcessed())
	assert.Equal(t, 0, w.Calendar().Day())
	assert.Equal(t, 0, clock.PendingTimers())
}

func TestEngine_RestartBeforeTickLockDropsStaleFiring(t *testing.T) {
	// Arrange
	e, clock, w := newEngine(t, nil)
	restarted := false
	simulation.SetBeforeTickLockHook(e, func() {
		if !restarted {
			restarted = true
			e.Stop()
			e.Start()
		}
	})
	e.Start()

	// Act
	clock.Advance(time.Second)

	// Assert
	assert.True(t, e.IsRunning())
	assert.Equal(t, uint64(0), e.TicksProcessed())
	assert.Equal(t, 0, w.Calendar().Day())
	assert.Equal(t, 1, clock.PendingTimers())
}
