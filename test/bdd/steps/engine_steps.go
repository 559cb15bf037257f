package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/domain/calendar"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

var engineEpoch = time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

// switchableDispatcher panics on demand so scenarios can exercise fail-closed ticks
type switchableDispatcher struct {
	panics bool
}

func (d *switchableDispatcher) Dispatch(period calendar.Period, w *world.World) {
	if d.panics {
		panic("dispatcher exploded")
	}
}

// engineContext holds state for scheduler scenarios
type engineContext struct {
	engine     *simulation.Engine
	clock      *shared.MockClock
	world      *world.World
	dispatcher *switchableDispatcher
	phases     []string
}

func (ec *engineContext) reset() {
	ec.engine = nil
	ec.clock = nil
	ec.world = nil
	ec.dispatcher = nil
	ec.phases = nil
}

func (ec *engineContext) aSimulationEngineWithABaseIntervalOfSecond(seconds int) error {
	ec.clock = shared.NewMockClock(engineEpoch)
	ec.world = world.New(quietConfig(1_000_000))
	ec.dispatcher = &switchableDispatcher{}
	ec.engine = simulation.NewEngine(ec.world, ec.dispatcher, ec.clock, nil, simulation.Config{
		BaseInterval: time.Duration(seconds) * time.Second,
		MinInterval:  10 * time.Millisecond,
		InitialSpeed: 1,
	})
	ec.engine.Signals().PhaseChanged.Subscribe(func(c simulation.PhaseChange) {
		ec.phases = append(ec.phases, string(c.To))
	})
	return nil
}

func (ec *engineContext) theDispatcherPanics() error {
	ec.dispatcher.panics = true
	return nil
}

func (ec *engineContext) theEngineIsStarted() error {
	ec.engine.Start()
	return nil
}

func (ec *engineContext) theEngineIsStopped() error {
	ec.engine.Stop()
	return nil
}

func (ec *engineContext) theClockAdvancesSeconds(seconds int) error {
	ec.clock.Advance(time.Duration(seconds) * time.Second)
	return nil
}

func (ec *engineContext) theSpeedIsSetTo(speed float64) error {
	ec.engine.SetSpeed(speed)
	return nil
}

func (ec *engineContext) theEngineStepsDays(days int) error {
	for i := 0; i < days; i++ {
		if err := ec.engine.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (ec *engineContext) theEngineShouldBeRunning() error {
	if !ec.engine.IsRunning() {
		return fmt.Errorf("expected the engine to be running")
	}
	return nil
}

func (ec *engineContext) theEngineShouldNotBeRunning() error {
	if ec.engine.IsRunning() {
		return fmt.Errorf("expected the engine to be stopped")
	}
	return nil
}

func (ec *engineContext) exactlyTimersShouldBeArmed(n int) error {
	return expectInt("armed timers", ec.clock.PendingTimers(), n)
}

func (ec *engineContext) ticksShouldHaveBeenProcessed(n int) error {
	return expectInt("ticks", int(ec.engine.TicksProcessed()), n)
}

func (ec *engineContext) theEngineDayCounterShouldBe(n int) error {
	return expectInt("day", ec.world.Calendar().Day(), n)
}

func (ec *engineContext) theCurrentSpeedShouldBe(speed float64) error {
	if got := ec.engine.CurrentSpeed(); got != speed {
		return fmt.Errorf("expected speed %.1f, got %.1f", speed, got)
	}
	return nil
}

func (ec *engineContext) thePhaseChangesShouldBe(expected string) error {
	if got := strings.Join(ec.phases, ","); got != expected {
		return fmt.Errorf("expected phase changes %q, got %q", expected, got)
	}
	return nil
}

func (ec *engineContext) theEngineShouldReportALastError() error {
	if ec.engine.LastError() == nil {
		return fmt.Errorf("expected a last error")
	}
	if ec.engine.Statistics().LastError == "" {
		return fmt.Errorf("expected statistics to carry the last error")
	}
	return nil
}

// InitializeEngineScenario registers scheduler steps
func InitializeEngineScenario(ctx *godog.ScenarioContext) {
	ec := &engineContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		ec.reset()
		return ctx, nil
	})
	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if ec.engine != nil {
			ec.engine.Stop()
		}
		return ctx, nil
	})

	ctx.Step(`^a simulation engine with a base interval of (\d+) seconds?$`, ec.aSimulationEngineWithABaseIntervalOfSecond)
	ctx.Step(`^the dispatcher panics$`, ec.theDispatcherPanics)
	ctx.Step(`^the engine is started$`, ec.theEngineIsStarted)
	ctx.Step(`^the engine is stopped$`, ec.theEngineIsStopped)
	ctx.Step(`^the clock advances (\d+) seconds$`, ec.theClockAdvancesSeconds)
	ctx.Step(`^the speed is set to (\d+(?:\.\d+)?)$`, ec.theSpeedIsSetTo)
	ctx.Step(`^the engine steps (\d+) days$`, ec.theEngineStepsDays)

	ctx.Step(`^the engine should be running$`, ec.theEngineShouldBeRunning)
	ctx.Step(`^the engine should not be running$`, ec.theEngineShouldNotBeRunning)
	ctx.Step(`^exactly (\d+) timers should be armed$`, ec.exactlyTimersShouldBeArmed)
	ctx.Step(`^(\d+) ticks should have been processed$`, ec.ticksShouldHaveBeenProcessed)
	ctx.Step(`^the engine day counter should be (\d+)$`, ec.theEngineDayCounterShouldBe)
	ctx.Step(`^the current speed should be (\d+(?:\.\d+)?)$`, ec.theCurrentSpeedShouldBe)
	ctx.Step(`^the phase changes should be "([^"]*)"$`, ec.thePhaseChangesShouldBe)
	ctx.Step(`^the engine should report a last error$`, ec.theEngineShouldReportALastError)
}
