package steps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/headquartz-go/internal/application/simulation"
	"github.com/andrescamacho/headquartz-go/internal/application/tick"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// scriptedProcessor records its hooks into a shared trace and fails on demand
type scriptedProcessor struct {
	tick.BaseProcessor
	name      string
	trace     *[]string
	failOnDay bool
	days      int
	weeks     int
}

func (p *scriptedProcessor) Name() string { return p.name }

func (p *scriptedProcessor) OnDayTick(w *world.World) error {
	p.days++
	*p.trace = append(*p.trace, p.name)
	if p.failOnDay {
		return fmt.Errorf("%s cannot close the day", p.name)
	}
	return nil
}

func (p *scriptedProcessor) OnWeekTick(w *world.World) error {
	p.weeks++
	return nil
}

// tickContext holds state for processor fan-out scenarios
type tickContext struct {
	manager    *tick.Manager
	engine     *simulation.Engine
	processors map[string]*scriptedProcessor
	trace      []string
}

func (tc *tickContext) reset() {
	tc.manager = nil
	tc.engine = nil
	tc.processors = map[string]*scriptedProcessor{}
	tc.trace = nil
}

func (tc *tickContext) threeProcessorsAreRegistered(first, second, third string) error {
	tc.manager = tick.NewManager(nil, nil)
	for _, name := range []string{first, second, third} {
		p := &scriptedProcessor{name: name, trace: &tc.trace}
		tc.processors[name] = p
		if !tc.manager.Register(p) {
			return fmt.Errorf("processor %s was not registered", name)
		}
	}
	tc.engine = simulation.NewEngine(world.New(quietConfig(1_000_000)), tc.manager, shared.NewMockClock(engineEpoch), nil, simulation.Config{
		BaseInterval: time.Second,
		MinInterval:  10 * time.Millisecond,
		InitialSpeed: 1,
	})
	return nil
}

func (tc *tickContext) processor(name string) (*scriptedProcessor, error) {
	p, ok := tc.processors[name]
	if !ok {
		return nil, fmt.Errorf("unknown processor %q", name)
	}
	return p, nil
}

func (tc *tickContext) processorFailsOnItsDayHook(name string) error {
	p, err := tc.processor(name)
	if err != nil {
		return err
	}
	p.failOnDay = true
	return nil
}

func (tc *tickContext) theManagedEngineStepsDays(days int) error {
	for i := 0; i < days; i++ {
		if err := tc.engine.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (tc *tickContext) theDayHooksShouldHaveRunInOrder(expected string) error {
	if got := strings.Join(tc.trace, ","); got != expected {
		return fmt.Errorf("expected day hooks %q, got %q", expected, got)
	}
	return nil
}

func (tc *tickContext) processorShouldReportFailures(name string, failures int) error {
	for _, r := range tc.manager.PerformanceReport().Processors {
		if r.Name == name {
			return expectInt(name+" failures", int(r.Failures), failures)
		}
	}
	return fmt.Errorf("processor %q missing from performance report", name)
}

func (tc *tickContext) theManagedEngineShouldHaveNoLastError() error {
	if err := tc.engine.LastError(); err != nil {
		return fmt.Errorf("expected no engine error, got %v", err)
	}
	if tc.engine.TicksProcessed() == 0 {
		return fmt.Errorf("expected the tick to complete")
	}
	return nil
}

func (tc *tickContext) processorShouldHaveReceivedDayHooksAndWeekHooks(name string, days, weeks int) error {
	p, err := tc.processor(name)
	if err != nil {
		return err
	}
	if err := expectInt(name+" day hooks", p.days, days); err != nil {
		return err
	}
	return expectInt(name+" week hooks", p.weeks, weeks)
}

// InitializeTickScenario registers tick manager steps
func InitializeTickScenario(ctx *godog.ScenarioContext) {
	tc := &tickContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^three processors "([^"]*)", "([^"]*)" and "([^"]*)" are registered$`, tc.threeProcessorsAreRegistered)
	ctx.Step(`^processor "([^"]*)" fails on its day hook$`, tc.processorFailsOnItsDayHook)
	ctx.Step(`^the managed engine steps (\d+) days$`, tc.theManagedEngineStepsDays)
	ctx.Step(`^the day hooks should have run in order "([^"]*)"$`, tc.theDayHooksShouldHaveRunInOrder)
	ctx.Step(`^processor "([^"]*)" should report (\d+) failures$`, tc.processorShouldReportFailures)
	ctx.Step(`^the managed engine should have no last error$`, tc.theManagedEngineShouldHaveNoLastError)
	ctx.Step(`^processor "([^"]*)" should have received (\d+) day hooks and (\d+) week hooks$`, tc.processorShouldHaveReceivedDayHooksAndWeekHooks)
}
